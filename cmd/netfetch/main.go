package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/andyle182810/netkit/cmd/netfetch/internal/config"
	"github.com/andyle182810/netkit/logutil"
	_ "github.com/joho/godotenv/autoload"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

type cli struct {
	Scheme string   `default:"https" help:"URL scheme."`
	Host   string   `help:"Host, optionally with a port." required:""`
	Method string   `default:"GET" help:"One of GET, POST, PUT, DELETE." short:"X"`
	Header []string `help:"Header as 'Field: Value'. Later values win." sep:"none" short:"H"`
	Query  []string `help:"Query item as 'name=value', sent in the given order." sep:"none" short:"q"`
	Data   string   `help:"Request body, sent verbatim." short:"d"`

	Paths []string `arg:"" help:"Paths to fetch, each starting with '/'." required:""`
}

func main() {
	var args cli

	cliCtx := kong.Parse(&args,
		kong.Name("netfetch"),
		kong.Description("Fetch JSON endpoints and print the decoded bodies."),
		kong.UsageOnError(),
	)

	ok, err := run(args)
	cliCtx.FatalIfErrorf(err)

	if !ok {
		os.Exit(1)
	}
}

func run(args cli) (bool, error) {
	cfg, err := config.New()
	if err != nil {
		return false, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.EffectiveLogLevel()
	zerolog.SetGlobalLevel(logutil.ParseZerologLevel(level))

	pretty := cfg.LogPretty || isatty.IsTerminal(os.Stderr.Fd())
	logger := logutil.NewLogger(level, os.Stderr, pretty)

	endpoints, err := args.endpoints()
	if err != nil {
		return false, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newService(cfg, logger)
	outcomes := fetchAll(ctx, svc, endpoints, cfg.Concurrency)

	logger.Debug().
		Int("endpoints", len(endpoints)).
		Str("transport", cfg.Transport).
		Msg("Fetch completed")

	return report(os.Stdout, os.Stderr, outcomes, isatty.IsTerminal(os.Stdout.Fd())), nil
}
