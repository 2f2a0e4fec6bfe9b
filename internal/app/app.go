package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/ui"
	"github.com/five82/roster/internal/users"
)

// Options configure the roster application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roster/prefs.toml
	BaseURL    string // overrides base_url from the config file
}

// Run boots the roster TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	uiOpts, cleanup, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer cleanup()
	return ui.Run(uiOpts)
}

// setup loads configuration and builds everything the UI needs.
func setup(ctx context.Context, opts Options) (ui.Options, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return ui.Options{}, nil, fmt.Errorf("load config: %w", err)
	}
	if baseURL := config.NormalizeBaseURL(opts.BaseURL); baseURL != "" {
		cfg.BaseURL = baseURL
		if err := cfg.Validate(); err != nil {
			return ui.Options{}, nil, err
		}
	}

	logger, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return ui.Options{}, nil, fmt.Errorf("init logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := users.NewClient(cfg.BaseURL, users.Options{
		Timeout: cfg.Timeout,
		Logger:  logger.Named("users"),
	})
	if err != nil {
		cleanup()
		return ui.Options{}, nil, fmt.Errorf("init users client: %w", err)
	}

	logger.Info("starting roster",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.Bool("reconcile_create", cfg.ReconcileCreate),
	)

	return ui.Options{
		Context:         ctx,
		Client:          client,
		Logger:          logger.Named("ui"),
		BaseURL:         cfg.BaseURL,
		ThemeName:       userPrefs.Theme,
		HideEmail:       userPrefs.HideEmail,
		PrefsPath:       opts.PrefsPath,
		LogFile:         cfg.LogFile,
		ReconcileCreate: cfg.ReconcileCreate,
	}, cleanup, nil
}
