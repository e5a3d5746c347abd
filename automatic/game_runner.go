// Package automatic plays the engine against itself: pieces come from a
// seeded random sequence, landed pieces lock, full rows clear and garbage
// rows can be pushed in, until the field tops out.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/config"
	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/shape"
)

// Host spawn row of a piece's box; box row 1 is field row 0.
const spawnY = -1

// GameResult summarizes one finished self-play game.
type GameResult struct {
	GameID    int
	Seed      uint64
	Pieces    int
	Lines     int
	Garbage   int
	ToppedOut bool
	FieldHash uint64
}

// GameRunner plays self-play games one at a time.
type GameRunner struct {
	engine       *bot.Engine
	width        int
	height       int
	garbageEvery int
	maxPieces    int
	logchan      chan string

	field *field.Field
	rng   *frand.RNG
}

// NewGameRunner creates a runner with dimensions and limits from cfg. When
// logchan is not nil, one csv line is sent per piece played.
func NewGameRunner(cfg *config.Config, engine *bot.Engine, logchan chan string) *GameRunner {
	return &GameRunner{
		engine:       engine,
		width:        cfg.GetInt(config.ConfigFieldWidth),
		height:       cfg.GetInt(config.ConfigFieldHeight),
		garbageEvery: cfg.GetInt(config.ConfigGarbageEvery),
		maxPieces:    cfg.GetInt(config.ConfigMaxPieces),
		logchan:      logchan,
	}
}

// Field returns the field of the game last played.
func (r *GameRunner) Field() *field.Field {
	return r.field
}

func (r *GameRunner) randomKind() shape.Kind {
	return shape.Kind(r.rng.Intn(shape.NumKinds))
}

// spawn puts kind on the field as a falling piece the way the host does. It
// returns false when the spawn cells are already taken.
func (r *GameRunner) spawn(kind shape.Kind, x int) bool {
	cells, _ := shape.SpawnCells(kind, 0)
	for _, c := range cells {
		fx, fy := x+c.Col, spawnY+c.Row
		if fy < 0 {
			continue
		}
		if r.field.HasCollision(fx, fy) {
			return false
		}
	}
	for _, c := range cells {
		if fy := spawnY + c.Row; fy >= 0 {
			r.field.Set(x+c.Col, fy, field.FallingShape)
		}
	}
	return true
}

// PlayGame plays a single game to the end. The same seed always produces
// the same game.
func (r *GameRunner) PlayGame(ctx context.Context, gameID int, seed uint64) (*GameResult, error) {
	logger := zerolog.Ctx(ctx)
	var err error
	r.field, err = field.New(r.width, r.height)
	if err != nil {
		return nil, err
	}
	r.field.SetCalculator(r.engine.Weights())
	sb := SeedBytes(seed)
	r.rng = frand.NewCustom(sb[:], 1024, 12)

	res := &GameResult{GameID: gameID, Seed: seed}
	current, next := r.randomKind(), r.randomKind()

	for r.maxPieces <= 0 || res.Pieces < r.maxPieces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		spawnX := shape.SpawnX(current, r.width)
		if !r.spawn(current, spawnX) {
			res.ToppedOut = true
			break
		}
		d := r.engine.Decide(bot.Request{
			Field:   r.field,
			Current: current,
			Next:    next,
			SpawnX:  spawnX,
			SpawnY:  spawnY,
		})
		r.field = r.field.Settled()
		if d.Source == bot.SourceNone {
			res.ToppedOut = true
			break
		}
		r.field.Lock(d.Placement.Cells())
		cleared := r.field.ClearLines()
		res.Lines += cleared
		res.Pieces++

		if r.logchan != nil {
			r.logchan <- fmt.Sprintf("%d,%d,%s,%d,%d,%d,%.4f,%d,%s\n",
				gameID, res.Pieces, current, d.Placement.Rotation, d.Placement.X,
				d.Placement.Y, d.Placement.Score, cleared, d.Source)
		}

		if r.garbageEvery > 0 && res.Pieces%r.garbageEvery == 0 {
			res.Garbage++
			if r.field.AddGarbageRows(1) {
				res.ToppedOut = true
				break
			}
		}
		current, next = next, r.randomKind()
	}
	res.FieldHash = r.field.Hash()
	logger.Debug().Int("game", gameID).Int("pieces", res.Pieces).Int("lines", res.Lines).
		Bool("topped-out", res.ToppedOut).Msg("game-over")
	return res, nil
}
