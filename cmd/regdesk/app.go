// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/api"
	"github.com/pdiddy/regdesk/internal/auth"
	"github.com/pdiddy/regdesk/internal/gateway"
	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/internal/render"
	"github.com/pdiddy/regdesk/internal/secrets"
	"github.com/pdiddy/regdesk/pkg/types"
)

// app bundles what a subcommand needs to talk to the backend.
type app struct {
	cfg      types.WorkbenchConfig
	store    *auth.SQLiteStore
	sessions *auth.Manager
	client   *api.Client
	notifier notify.Notifier
	format   render.Format
}

// sessionToken prefers the login session and falls back to the token in
// the secrets directory.
type sessionToken struct {
	m *auth.Manager
}

func (s sessionToken) Token(ctx context.Context) (string, error) {
	tok, err := s.m.Token(ctx)
	if err != nil || tok != "" {
		return tok, err
	}
	return loadedSecrets.Get(secrets.KeyAPIToken), nil
}

// newApp opens the session store and builds the API client. Callers must
// Close the returned app.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}

	store, err := auth.OpenSQLiteStore(cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	log := entry(cmd)
	sessions := auth.NewManager(store, cfg.Session.TTL, log)

	gw, err := gateway.New(cfg.Gateway,
		gateway.WithTokenSource(sessionToken{m: sessions}),
		gateway.WithLogger(log),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	var opts []api.Option
	if key := loadedSecrets.Get(secrets.KeyOpenFDA); key != "" {
		opts = append(opts, api.WithOpenFDAKey(key))
	}
	return &app{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		client:   api.New(gw, opts...),
		notifier: notify.Log{Log: log},
		format:   format,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp wraps a RunE body with app setup and teardown.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

// structured reports whether output should be JSON or YAML rather than a
// table, and writes v when it is.
func (a *app) structured(cmd *cobra.Command, v any) (bool, error) {
	if a.format == render.FormatTable {
		return false, nil
	}
	return true, render.Structured(cmd.OutOrStdout(), a.format, v)
}
