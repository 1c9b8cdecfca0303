package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"cli-roster-import/internal/config"
	"cli-roster-import/internal/server"

	"github.com/bmatcuk/doublestar/v4"
)

type runner struct {
	cfg    config.Config
	opts   Options
	log    *log.Logger
	client *server.Client
	sleep  func(time.Duration)
	stats  runStats
}

type runStats struct {
	rosterBytes int64
	imported    int
}

func newRunner(cfg config.Config, opts Options, client *server.Client) *runner {
	return &runner{
		cfg:    cfg,
		opts:   opts,
		log:    log.New(os.Stdout, "roster-import: ", log.LstdFlags),
		client: client,
		sleep:  time.Sleep,
	}
}

// Execute drives the import end to end: wait for the server, short-circuit
// if the roster was already imported, then upload the document once.
func (r *runner) Execute(ctx context.Context) error {
	r.log.Printf("Starting student roster import against %s", r.cfg.ServerBaseURL)

	if r.opts.SkipWait {
		r.log.Printf("Skipping server wait (-skip-wait)")
	} else if err := r.waitForServer(ctx); err != nil {
		return err
	}

	imported, err := r.checkAlreadyImported(ctx)
	if err != nil {
		// Fail open: an inconclusive status check must not block a
		// legitimate import, so proceed to upload anyway.
		r.log.Printf("warning: could not check import status, proceeding with upload: %v", err)
	}
	if imported {
		r.log.Printf("Roster already imported, skipping upload")
		return nil
	}

	if err := r.locateRoster(); err != nil {
		return err
	}

	if err := r.uploadRoster(ctx); err != nil {
		return err
	}

	r.log.Printf("Import complete (sent %s, %d student(s) imported)", humanBytes(r.stats.rosterBytes), r.stats.imported)
	return nil
}

// waitForServer polls the health endpoint until it answers or the attempt
// budget runs out. Exhaustion aborts the whole run.
func (r *runner) waitForServer(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.HealthMaxAttempts; attempt++ {
		r.log.Printf("Waiting for server, attempt %d/%d ...", attempt, r.cfg.HealthMaxAttempts)

		lastErr = r.client.Health(ctx)
		if lastErr == nil {
			r.log.Printf("Server is up")
			return nil
		}
		if attempt < r.cfg.HealthMaxAttempts {
			r.sleep(r.cfg.HealthInterval)
		}
	}
	return fmt.Errorf("server not ready after %d attempts: %w", r.cfg.HealthMaxAttempts, lastErr)
}

func (r *runner) checkAlreadyImported(ctx context.Context) (bool, error) {
	status, err := r.client.ImportStatus(ctx)
	if err != nil {
		return false, err
	}
	return status.Imported, nil
}

// locateRoster verifies the fixed document exists before any upload network
// call is made. There is no fallback search.
func (r *runner) locateRoster() error {
	info, err := os.Stat(r.cfg.RosterPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &server.Error{Kind: server.KindMissingInput, Op: "locate roster", Err: fmt.Errorf("file %q not found", r.cfg.RosterPath)}
		}
		return &server.Error{Kind: server.KindMissingInput, Op: "locate roster", Err: err}
	}
	if info.IsDir() {
		return &server.Error{Kind: server.KindMissingInput, Op: "locate roster", Err: fmt.Errorf("%q is a directory, not a document", r.cfg.RosterPath)}
	}

	r.stats.rosterBytes = info.Size()
	r.log.Printf("Found roster document %s (%s)", r.cfg.RosterPath, humanBytes(info.Size()))

	if !r.matchesRosterPattern(filepath.Base(r.cfg.RosterPath)) {
		r.log.Printf("warning: %q does not match any of the expected patterns %v", filepath.Base(r.cfg.RosterPath), r.cfg.RosterPatterns)
	}
	return nil
}

func (r *runner) matchesRosterPattern(name string) bool {
	if len(r.cfg.RosterPatterns) == 0 {
		return true
	}
	for _, pattern := range r.cfg.RosterPatterns {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			r.log.Printf("warning: invalid roster pattern %q: %v", pattern, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func (r *runner) uploadRoster(ctx context.Context) error {
	r.log.Printf("Uploading %s ...", r.cfg.RosterPath)

	result, err := r.client.ImportRoster(ctx, r.cfg.RosterPath)
	if err != nil {
		return err
	}

	r.stats.imported = result.Imported
	if result.Message != "" {
		r.log.Printf("Server: %s", result.Message)
	}
	return nil
}

func humanBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(1024), 0
	for m := n / 1024; m >= 1024 && exp < 4; m /= 1024 {
		div *= 1024
		exp++
	}
	value := float64(n) / float64(div)
	unit := []string{"KB", "MB", "GB", "TB", "PB"}[exp]
	return fmt.Sprintf("%.1f %s", value, unit)
}
