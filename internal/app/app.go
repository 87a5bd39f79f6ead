package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/librarian/internal/borrowing"
	"github.com/five82/librarian/internal/config"
	"github.com/five82/librarian/internal/library"
	"github.com/five82/librarian/internal/prefs"
	"github.com/five82/librarian/internal/state"
	"github.com/five82/librarian/internal/ui"
)

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/librarian/prefs.toml
	APIBase    string // overrides config and environment when set
}

// Run boots the console until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if base := strings.TrimSpace(opts.APIBase); base != "" {
		cfg.APIBase = base
	}

	logger, logFile := NewLogger(cfg)
	defer func() { _ = logFile.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs failed, using defaults", "error", err)
	}

	client, err := library.NewClient(cfg.APIBase, library.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("init library client: %w", err)
	}
	logger.Info("starting librarian", "api_base", client.BaseURL(), "timeout", cfg.RequestTimeout.String())

	store := &state.Store{}
	vm := borrowing.New(client, store, borrowing.WithLogger(logger))

	// Populate the borrowing snapshot before the first frame. Failures are
	// logged by the view-model and shown by the UI.
	_ = vm.Refresh(ctx, borrowing.Query{})

	tab, _ := borrowing.ParseTab(userPrefs.BorrowingTab)
	err = ui.Run(ui.Options{
		Context:      ctx,
		Client:       client,
		Borrowing:    vm,
		Logger:       logger,
		LogPath:      cfg.LogPath(),
		PageSize:     cfg.PageSize,
		ThemeName:    userPrefs.Theme,
		BorrowingTab: tab,
		PrefsPath:    opts.PrefsPath,
	})
	if err != nil {
		logger.Error("ui exited with error", "error", err)
		return err
	}
	logger.Info("librarian stopped")
	return nil
}
