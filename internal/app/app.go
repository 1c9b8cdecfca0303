package app

import (
	"context"

	"cli-roster-import/internal/config"
	"cli-roster-import/internal/server"
)

// Options captures user-supplied CLI parameters before config/env enrichment.
type Options struct {
	File     string
	BaseURL  string
	SkipWait bool
}

// Run is the entry point for the roster import workflow.
func Run(opts Options) error {
	cfg, err := config.Load(context.Background())
	if err != nil {
		return err
	}

	if opts.File != "" {
		cfg.RosterPath = opts.File
	}
	if opts.BaseURL != "" {
		cfg.ServerBaseURL = opts.BaseURL
	}

	client := server.New(cfg.ServerBaseURL, server.Timeouts{
		Health: cfg.HealthTimeout,
		Status: cfg.StatusTimeout,
		Upload: cfg.UploadTimeout,
	})

	return newRunner(cfg, opts, client).Execute(context.Background())
}
