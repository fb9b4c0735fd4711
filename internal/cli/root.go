package cli

import (
	"os"

	"cs-quiz/internal/config"
	"cs-quiz/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yaml"

type rootOptions struct {
	configPath string
	questions  string
	history    string
}

// Execute runs the CLI.
func Execute() error {
	// .env is optional
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	envConfig := os.Getenv("QUIZ_CONFIG")

	cmd := &cobra.Command{
		Use:           "cs-quiz",
		Short:         "Computer history & fundamentals quiz",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}

	defaultConfig := envConfig
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "path to YAML config (env QUIZ_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.questions, "questions", "", "question bank file (overrides quiz.questions)")
	cmd.PersistentFlags().StringVar(&opts.history, "history", "", "history log file (overrides quiz.history)")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	return cmd
}

// loadConfig applies flag overrides on top of the YAML config. Only a
// config path the user named must exist.
func (o *rootOptions) loadConfig(explicit bool) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if explicit {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOptional(o.configPath)
	}
	if err != nil {
		return cfg, err
	}
	if o.questions != "" {
		cfg.Quiz.Questions = o.questions
	}
	if o.history != "" {
		cfg.Quiz.History = o.history
	}
	return cfg, nil
}

func (o *rootOptions) setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	explicit := os.Getenv("QUIZ_CONFIG") != "" || cmd.Flags().Changed("config")
	cfg, err := o.loadConfig(explicit)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}
