package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lentono/blockbot/automatic"
	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/config"
	"github.com/lentono/blockbot/equity"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)

	var logger zerolog.Logger
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	switch cfg.GetString(config.ConfigLogLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
		logger = zerolog.New(out).Level(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Info().Msgf("Loaded config: %v", cfg.AllSettings())

	weights, err := equity.WeightsFromConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading weights")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	opts := automatic.SelfPlayOptions{
		LogFile: cfg.GetString(config.ConfigAutoplayLog),
		RunID:   fmt.Sprintf("%s-seed%d", time.Now().UTC().Format("20060102T150405"), cfg.GetUint64(config.ConfigSeed)),
	}
	if path := cfg.GetString(config.ConfigResultsDB); path != "" {
		store, err := automatic.OpenResultStore(ctx, path)
		if err != nil {
			logger.Fatal().Err(err).Msg("opening results db")
		}
		defer store.Close()
		opts.Store = store
	}

	start := time.Now()
	results, err := automatic.PlaySelfPlayGames(ctx, cfg, bot.NewEngine(weights), opts)
	if err != nil {
		logger.Error().Err(err).Msg("self-play failed")
	}
	logger.Info().Str("run", opts.RunID).Dur("elapsed", time.Since(start)).Msg("self-play done")

	if err := automatic.Summarize(results).WriteReport(os.Stdout); err != nil {
		logger.Error().Err(err).Msg("writing report")
	}
}
