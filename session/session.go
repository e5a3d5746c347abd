// Package session speaks the block battle text protocol: it keeps the
// state the host sends line by line and answers move requests with the
// engine's decision.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
	"github.com/lentono/blockbot/shape"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArgs    = errors.New("not enough arguments")
	ErrNoPiece        = errors.New("current piece not known yet")
)

const maxLineLength = 1 << 20

// Settings are sent once by the host before the first round.
type Settings struct {
	Timebank    int
	TimePerMove int
	PlayerNames []string
	BotName     string
	FieldWidth  int
	FieldHeight int
	// Anything the host sends that is not understood above.
	Extra map[string]string
}

type PlayerState struct {
	Field     *field.Field
	RowPoints int
	Combo     int
	Skips     int
}

// State is what the host has told us about the running game.
type State struct {
	Round     int
	ThisPiece shape.Kind
	NextPiece shape.Kind
	HasPiece  bool
	HasNext   bool
	PieceX    int
	PieceY    int
	Players   map[string]*PlayerState
}

type Session struct {
	Settings Settings
	State    State

	engine *bot.Engine
	out    io.Writer
	last   *bot.Decision
}

// New creates a session that answers through out.
func New(engine *bot.Engine, out io.Writer) *Session {
	return &Session{
		engine: engine,
		out:    out,
		Settings: Settings{
			FieldWidth:  10,
			FieldHeight: 20,
			Extra:       map[string]string{},
		},
		State: State{Players: map[string]*PlayerState{}},
	}
}

// LastDecision returns the decision behind the most recent answer.
func (s *Session) LastDecision() *bot.Decision {
	return s.last
}

func (s *Session) player(name string) *PlayerState {
	p, ok := s.State.Players[name]
	if !ok {
		p = &PlayerState{}
		s.State.Players[name] = p
	}
	return p
}

// Loop processes lines from r until it is exhausted or ctx is done.
// Errors on single lines are logged and do not stop the loop.
func (s *Session) Loop(ctx context.Context, r io.Reader) error {
	logger := zerolog.Ctx(ctx)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if err := s.Process(line); err != nil {
			logger.Err(err).Str("line", line).Msg("process-line")
		}
	}
	return scanner.Err()
}

// Process handles a single protocol line.
func (s *Session) Process(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "settings":
		if len(fields) < 3 {
			return fmt.Errorf("%w: %q", ErrMissingArgs, line)
		}
		return s.setting(fields[1], fields[2])
	case "update":
		if len(fields) < 4 {
			return fmt.Errorf("%w: %q", ErrMissingArgs, line)
		}
		if fields[1] == "game" {
			return s.gameUpdate(fields[2], fields[3])
		}
		return s.playerUpdate(fields[1], fields[2], fields[3])
	case "action":
		if len(fields) < 2 {
			return fmt.Errorf("%w: %q", ErrMissingArgs, line)
		}
		if fields[1] != "moves" {
			return fmt.Errorf("%w: action %s", ErrUnknownCommand, fields[1])
		}
		return s.answer()
	}
	log.Warn().Str("line", line).Msg("ignoring unknown command")
	return nil
}

func (s *Session) setting(key, value string) error {
	var err error
	switch key {
	case "timebank":
		s.Settings.Timebank, err = strconv.Atoi(value)
	case "time_per_move":
		s.Settings.TimePerMove, err = strconv.Atoi(value)
	case "player_names":
		s.Settings.PlayerNames = strings.Split(value, ",")
	case "your_bot":
		s.Settings.BotName = value
	case "field_width":
		s.Settings.FieldWidth, err = strconv.Atoi(value)
	case "field_height":
		s.Settings.FieldHeight, err = strconv.Atoi(value)
	default:
		s.Settings.Extra[key] = value
	}
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

func (s *Session) gameUpdate(key, value string) error {
	var err error
	switch key {
	case "round":
		s.State.Round, err = strconv.Atoi(value)
	case "this_piece_type":
		s.State.ThisPiece, err = shape.ParseKind(value)
		s.State.HasPiece = err == nil
	case "next_piece_type":
		s.State.NextPiece, err = shape.ParseKind(value)
		s.State.HasNext = err == nil
	case "this_piece_position":
		s.State.PieceX, s.State.PieceY, err = parsePoint(value)
	default:
		log.Debug().Str("key", key).Msg("ignoring game update")
	}
	if err != nil {
		return fmt.Errorf("update game %s: %w", key, err)
	}
	return nil
}

func (s *Session) playerUpdate(name, key, value string) error {
	p := s.player(name)
	var err error
	switch key {
	case "field":
		var f *field.Field
		f, err = field.Parse(s.Settings.FieldWidth, s.Settings.FieldHeight, value)
		if err == nil {
			p.Field = f
			log.Debug().Str("player", name).Uint64("field-hash", f.Hash()).Msg("field-update")
		}
	case "row_points":
		p.RowPoints, err = strconv.Atoi(value)
	case "combo":
		p.Combo, err = strconv.Atoi(value)
	case "skips":
		p.Skips, err = strconv.Atoi(value)
	default:
		log.Debug().Str("player", name).Str("key", key).Msg("ignoring player update")
	}
	if err != nil {
		return fmt.Errorf("update %s %s: %w", name, key, err)
	}
	return nil
}

// answer writes one line of moves. A line is always written, even when
// the state is incomplete, so the host never waits on us.
func (s *Session) answer() error {
	req, err := s.request()
	if err != nil {
		fmt.Fprintln(s.out, move.FormatActions([]move.Action{move.ActionDrop}))
		return err
	}
	d := s.engine.Decide(req)
	s.last = d
	if d.Lost {
		log.Info().Int("round", s.State.Round).Msg("game-lost")
	}
	log.Debug().Int("round", s.State.Round).
		Uint64("field-hash", req.Field.Hash()).
		Str("placement", d.Placement.ShortDescription()).
		Strs("actions", lo.Map(d.Actions, func(a move.Action, _ int) string { return a.String() })).
		Msg("answer")
	_, err = fmt.Fprintln(s.out, move.FormatActions(d.Actions))
	return err
}

func (s *Session) request() (bot.Request, error) {
	if !s.State.HasPiece {
		return bot.Request{}, ErrNoPiece
	}
	next := s.State.NextPiece
	if !s.State.HasNext {
		next = s.State.ThisPiece
	}
	f := s.player(s.Settings.BotName).Field
	if f == nil {
		var err error
		f, err = field.New(s.Settings.FieldWidth, s.Settings.FieldHeight)
		if err != nil {
			return bot.Request{}, err
		}
	}
	return bot.Request{
		Field:   f,
		Current: s.State.ThisPiece,
		Next:    next,
		SpawnX:  s.State.PieceX,
		SpawnY:  s.State.PieceY,
	}, nil
}

func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("bad point %q", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
