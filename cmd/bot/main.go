package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/config"
	"github.com/lentono/blockbot/equity"
	"github.com/lentono/blockbot/session"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

func main() {
	// Determine the directory of the executable. We will use this
	// directory to find the data files if an absolute path is not
	// provided for these!
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

	// stdout belongs to the game host; logs go to stderr only.
	var logger zerolog.Logger
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: !cfg.GetBool(config.ConfigLogPretty)}
	switch strings.ToLower(cfg.GetString(config.ConfigLogLevel)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		logger = zerolog.New(out).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
		logger = zerolog.New(out).Level(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msgf("Loaded config: %v", cfg.AllSettings())

	weights, err := equity.WeightsFromConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading weights")
	}
	engine := bot.NewEngine(weights)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	switch {
	case cfg.GetString(config.ConfigHTTPAddr) != "":
		err = serveHTTP(ctx, cfg.GetString(config.ConfigHTTPAddr), engine)
	case cfg.GetString(config.ConfigNatsURL) != "":
		err = bot.Serve(ctx, cfg.GetString(config.ConfigNatsURL), cfg.GetString(config.ConfigNatsChannel), engine)
	default:
		err = session.New(engine, os.Stdout).Loop(ctx, os.Stdin)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("bot stopped")
	}
	logger.Info().Msg("bye")
}

func serveHTTP(ctx context.Context, addr string, engine *bot.Engine) error {
	srv := &http.Server{Addr: addr, Handler: bot.NewRouter(engine)}
	go func() {
		<-ctx.Done()
		log.Info().Msg("got quit signal...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("http shutdown")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving decisions over http")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
