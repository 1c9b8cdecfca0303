package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"cli-roster-import/internal/app"
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := app.Run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (app.Options, error) {
	fs := flag.NewFlagSet("roster-import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	file := fs.String("file", "", "Roster document path override (default taken from ROSTER_PATH)")
	baseURL := fs.String("base-url", "", "Server base URL override (default taken from SERVER_BASE_URL)")
	skipWait := fs.Bool("skip-wait", false, "Skip the health-check wait loop (server known to be up)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(fs.Output(), "Environment: SERVER_BASE_URL, ROSTER_PATH, ROSTER_PATTERNS, HEALTH_MAX_ATTEMPTS, HEALTH_INTERVAL, HEALTH_TIMEOUT, STATUS_TIMEOUT and UPLOAD_TIMEOUT are all optional overrides.")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return app.Options{}, err
	}

	if fs.NArg() > 0 {
		fs.Usage()
		return app.Options{}, fmt.Errorf("unexpected argument(s): %s", strings.Join(fs.Args(), " "))
	}

	return app.Options{
		File:     strings.TrimSpace(*file),
		BaseURL:  strings.TrimSpace(*baseURL),
		SkipWait: *skipWait,
	}, nil
}
