package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/pkg/printclient"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "printctl",
		Usage:     "submit print jobs and read the printboard leaderboard",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "printboard server base URL"},
			&cli.StringFlag{Name: "identity-url", Usage: "public IP lookup endpoint"},
			&cli.StringFlag{Name: "api-key", Usage: "API key (overrides " + printclient.APIKeyEnv + ")"},
			&cli.DurationFlag{Name: "step-timeout", Usage: "timeout for each remote call"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			{
				Name:  "print",
				Usage: "resolve identity, send a print job and record the entry",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "message", Usage: "print job description"},
				},
				Action: runPrint,
			},
			{
				Name:   "leaderboard",
				Usage:  "show the leaderboard",
				Action: runLeaderboard,
			},
			{
				Name:   "image",
				Usage:  "show the preview image URL",
				Action: runImage,
			},
		},
	}
}

// clientConfig layers explicit flags over the environment.
func clientConfig(c *cli.Context) (printclient.Config, error) {
	s, err := printclient.LoadSettings()
	if err != nil {
		return printclient.Config{}, err
	}

	if c.IsSet("base-url") {
		s.BaseURL = c.String("base-url")
	}
	if c.IsSet("identity-url") {
		s.IdentityURL = c.String("identity-url")
	}
	if c.IsSet("api-key") {
		s.APIKey = c.String("api-key")
	}
	if c.IsSet("step-timeout") {
		s.StepTimeout = c.Duration("step-timeout")
	}
	if c.IsSet("message") {
		s.PrintMessage = c.String("message")
	}
	return s.Config(), nil
}

func runPrint(c *cli.Context) error {
	cfg, err := clientConfig(c)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(c.App.ErrWriter, c.String("log-level"), false)

	wf := printclient.NewWorkflow(printclient.NewClient(cfg), printclient.WithLogger(logger))
	result, err := wf.Submit(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: %v", failureKind(err), err), 1)
	}

	fmt.Fprintf(c.App.Writer, "Print submitted for %s (run %s)\n", result.Identity, result.RunID)
	return nil
}

func runLeaderboard(c *cli.Context) error {
	cfg, err := clientConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := withStepTimeout(c.Context, cfg.StepTimeout)
	defer cancel()

	rows, err := printclient.NewClient(cfg).ReadLeaderboard(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to read leaderboard: %v", err), 1)
	}
	return printclient.RenderLeaderboard(c.App.Writer, rows)
}

func runImage(c *cli.Context) error {
	cfg, err := clientConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := withStepTimeout(c.Context, cfg.StepTimeout)
	defer cancel()

	url, err := printclient.NewClient(cfg).FetchImage(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to fetch image: %v", err), 1)
	}
	fmt.Fprintln(c.App.Writer, url)
	return nil
}

func withStepTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func failureKind(err error) string {
	var (
		identityErr *printclient.IdentityResolutionError
		printErr    *printclient.PrintDispatchError
		insertErr   *printclient.LeaderboardInsertError
	)
	switch {
	case errors.As(err, &identityErr):
		return "identity_resolution"
	case errors.As(err, &printErr):
		return "print_dispatch"
	case errors.As(err, &insertErr):
		return "leaderboard_insert"
	case errors.Is(err, printclient.ErrRunInFlight):
		return "run_in_flight"
	default:
		return "error"
	}
}
