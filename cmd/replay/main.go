package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dvloznov/payments-engine/internal/config"
	"github.com/dvloznov/payments-engine/internal/logger"
	"github.com/dvloznov/payments-engine/internal/pipeline"
)

func main() {
	cfg := config.Load()

	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", cfg.LogFormat, "Log format: console or json")
	export := flag.Bool("export", cfg.Export, "Record the run and its snapshot in BigQuery")
	strict := flag.Bool("strict", false, "Abort on the first malformed input row")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: replay [flags] <transactions.csv | gs://bucket/object>")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.LogLevel, cfg.LogFormat, cfg.Export = *logLevel, *logFormat, *export
	log := logger.NewWithConfig(cfg.Logger())

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	log.Debug().Str("input", input).Bool("export", cfg.Export).Msg("Starting replay")

	opts := pipeline.Options{
		Strict:        *strict,
		Export:        cfg.Export,
		Tables:        cfg.Tables(),
		ClientOptions: cfg.ClientOptions(),
	}

	if _, err := pipeline.RunReplay(ctx, input, os.Stdout, opts); err != nil {
		stop()
		log.Fatal().Err(err).Str("input", input).Msg("Replay failed")
	}
}
