package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/ui"
)

// tuiCommand launches the interactive terminal UI. Its log goes to a
// per-session file so it does not draw over the screen.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", rest))
	}
	if !ui.IsTTY(a.out) {
		return userError(fmt.Errorf("%w: use 'todo ls' or 'todo help'", ui.ErrNoTTY))
	}

	runLog, err := logging.NewRunLogger(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return configError(fmt.Errorf("creating session log: %w", err))
	}
	defer runLog.Close()

	logger := logging.NewFromConfig(runLog.Writer(), a.cfg.LogLevel, a.cfg.LogFormat, true, a.cfg.LogCaller)
	logger.Info("session started", "run", runLog.RunID, "backend", a.cfg.Backend, "key", a.cfg.StorageKey)

	st, _, closeStore, err := a.openStore(logger)
	if err != nil {
		logger.Error("opening store failed", "err", err)
		return err
	}
	defer closeStore()

	err = ui.RunTUI(ctx, st,
		ui.WithSuccessDelay(a.cfg.SuccessDelay()),
		ui.WithLogger(logger),
	)
	if errors.Is(err, ui.ErrNoTTY) {
		return userError(err)
	}
	return err
}
