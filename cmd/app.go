// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"net/url"

	"github.com/pterm/pterm"

	"techsite/web/internal/auth"
	"techsite/web/internal/backend"
	"techsite/web/internal/config"
	"techsite/web/internal/httperrors"
	"techsite/web/internal/keychain"
	"techsite/web/internal/logging"
	"techsite/web/internal/manifest"
	"techsite/web/internal/tokens"
	"techsite/web/internal/xdg"
)

// app is everything a session command needs, built from configuration.
type app struct {
	cfg    config.Config
	logger *pterm.Logger
	store  *tokens.Store
	api    backend.API
	mgr    *auth.Manager
}

// loadConfig reads configuration and builds the process logger.
func loadConfig() (config.Config, *pterm.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat, nil)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// openStore opens the configured keyring as a token store.
func openStore(cfg config.Config, logger *pterm.Logger) (*tokens.Store, error) {
	opts := keychain.Options{Backend: cfg.KeyringBackend, FilePassword: cfg.KeyringPassword}
	if cfg.KeyringBackend == "file" {
		dir, err := xdg.DataDir()
		if err != nil {
			return nil, err
		}
		opts.FileDir = dir
	}
	keys, err := keychain.Open(opts)
	if err != nil {
		return nil, err
	}
	return tokens.NewStore(keys, tokens.WithLogger(logger)), nil
}

// resolveAPI resolves the endpoint layout and returns a backend client.
func resolveAPI(ctx context.Context, cfg config.Config, logger *pterm.Logger) (backend.API, error) {
	m, err := manifest.Resolve(ctx, cfg.ManifestSource())
	if err != nil {
		return nil, err
	}
	logger.Debug("identity endpoints resolved", logger.Args("base_url", m.BaseURL, "manifest_version", m.Version))
	return backend.New(m.BaseURL, m.HTTP), nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	api, err := resolveAPI(ctx, cfg, logger)
	if err != nil {
		return nil, reportErr(err, "resolving identity endpoints", cfg.BaseURL)
	}
	mgr := auth.NewManager(store, api,
		auth.WithLogger(logger),
		auth.WithConfig(auth.Config{RefreshLead: cfg.RefreshLead()}),
	)
	return &app{cfg: cfg, logger: logger, store: store, api: api, mgr: mgr}, nil
}

func (a *app) Close() {
	a.mgr.Close()
}

// reportErr explains transport failures to the user; other errors pass through.
func reportErr(err error, action, baseURL string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return httperrors.FormatNetworkError(err, action, baseURL)
	}
	return err
}

// newClient builds a backend client for commands that need no session.
func newClient(ctx context.Context) (backend.API, config.Config, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	api, err := resolveAPI(ctx, cfg, logger)
	if err != nil {
		return nil, cfg, reportErr(err, "resolving identity endpoints", cfg.BaseURL)
	}
	return api, cfg, nil
}
