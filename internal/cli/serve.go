package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cs-quiz/internal/app"
	"cs-quiz/internal/config"
	"cs-quiz/internal/infra/memory"
	pgstore "cs-quiz/internal/infra/postgres"
	redisstore "cs-quiz/internal/infra/redis"
	"cs-quiz/internal/metrics"
	transport "cs-quiz/internal/transport/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewServeCmd builds the subcommand serving the quiz over websockets.
func NewServeCmd(opts *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quiz to websocket clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, opts, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (env PORT, default server.port)")
	return cmd
}

func runServer(cmd *cobra.Command, opts *rootOptions, portFlag string) error {
	cfg, logger, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		applied, err := pgstore.Migrate(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Strings("migrations", applied))
	}

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	service := d.service()
	// fail fast on a broken bank instead of on the first connection
	if _, err := service.LengthOptions(ctx); err != nil {
		return err
	}

	var sessions app.SessionRepository
	if d.redis != nil {
		sessions = redisstore.NewSessionStore(d.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		sessions = memory.NewSessionStore()
	}
	wsHandler := transport.NewWSHandler(service, sessions, logger, time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/sessions/", wsHandler.ServeSession)
	mux.Handle("/metrics", metrics.Handler())

	port := portFlag
	if port == "" {
		port = cfg.Server.Port
	}
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting quiz server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
