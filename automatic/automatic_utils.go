package automatic

// Self-play data collection. Games run on worker goroutines, every piece
// played is logged to a csv file and finished games can be saved to a
// results database.

import (
	"context"
	"errors"
	"expvar"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/config"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("selfPlayGames")
	IsPlaying = expvar.NewInt("selfPlayWorkers")
}

const logHeader = "gameID,piece,shape,rotation,x,y,score,cleared,source\n"

// SelfPlayOptions control a batch of self-play games. Zero values fall
// back to the config.
type SelfPlayOptions struct {
	NumGames int
	Threads  int
	// LogFile receives one csv line per piece; empty disables the log.
	LogFile string
	// Store, when set, receives every finished game.
	Store *ResultStore
	RunID string
}

func (o *SelfPlayOptions) fill(cfg *config.Config) {
	if o.NumGames <= 0 {
		o.NumGames = cfg.GetInt(config.ConfigAutoplayGames)
	}
	if o.Threads <= 0 {
		o.Threads = max(1, cfg.GetInt(config.ConfigThreads))
	}
}

// PlaySelfPlayGames plays a batch of games and returns their results in
// game order. Cancelling ctx stops the batch early; games already finished
// are still returned.
func PlaySelfPlayGames(ctx context.Context, cfg *config.Config, engine *bot.Engine,
	opts SelfPlayOptions) ([]*GameResult, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	opts.fill(cfg)
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, opts.Threads)

	var logChan chan string
	logDone := make(chan error, 1)
	if opts.LogFile != "" {
		logfile, err := os.Create(opts.LogFile)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
		go func() {
			_, err := logfile.WriteString(logHeader)
			for msg := range logChan {
				if err == nil {
					_, err = logfile.WriteString(msg)
				}
			}
			if cerr := logfile.Close(); err == nil {
				err = cerr
			}
			logger.Debug().Msg("Exiting piece logger goroutine")
			logDone <- err
		}()
	} else {
		logDone <- nil
	}

	GamesCounter.Set(0)
	seeds := GameSeeds(cfg.GetUint64(config.ConfigSeed), opts.NumGames)
	jobs := make(chan int, 100)
	results := make(chan *GameResult, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.NumGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				logger.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
		}
		return nil
	})

	workers, wctx := errgroup.WithContext(gctx)
	for i := 0; i < opts.Threads; i++ {
		workers.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			r := NewGameRunner(cfg, engine, logChan)
			for id := range jobs {
				res, err := r.PlayGame(wctx, id, seeds[id])
				if err != nil {
					return err
				}
				GamesCounter.Add(1)
				results <- res
			}
			return nil
		})
	}
	g.Go(func() error {
		err := workers.Wait()
		close(results)
		return err
	})

	var collected []*GameResult
	var storeErr error
	for res := range results {
		collected = append(collected, res)
		if opts.Store != nil && storeErr == nil {
			storeErr = opts.Store.Save(ctx, opts.RunID, res)
		}
	}
	err := g.Wait()
	if logChan != nil {
		close(logChan)
	}
	if lerr := <-logDone; err == nil {
		err = lerr
	}
	if err == nil {
		err = storeErr
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		// Stopped on request; keep what finished.
		err = nil
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].GameID < collected[j].GameID
	})
	logger.Info().Int("games", len(collected)).Msg("All games finished")
	return collected, err
}
