package cli

import (
	"errors"
	"fmt"

	"cs-quiz/internal/domain"
	"cs-quiz/internal/transport/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runPlay loads the bank up front so load problems surface before the
// terminal UI takes over the screen.
func runPlay(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	cfg, logger, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	service := d.service()
	lengths, err := service.LengthOptions(ctx)
	if err != nil {
		logger.Debug("bank load failed", zap.String("bank", d.source), zap.Error(err))
		return errors.New(bankErrorMessage(d.source, err))
	}

	final, err := tui.Run(ctx, tui.NewModel(ctx, service, lengths, 0))
	if err != nil {
		return err
	}
	if final.Completed() {
		s := final.Summary()
		logger.Debug("quiz finished", zap.Int("score", s.Score), zap.Int("total", s.Total))
	}
	return nil
}

// bankErrorMessage renders a bank load failure for the player.
func bankErrorMessage(source string, err error) string {
	switch {
	case errors.Is(err, domain.ErrBankNotFound):
		return fmt.Sprintf("%s not found!\n\nPut it in the same folder.", source)
	case errors.Is(err, domain.ErrBankEmpty):
		return fmt.Sprintf("%s is empty!", source)
	default:
		return fmt.Sprintf("Cannot read file:\n%v", err)
	}
}
