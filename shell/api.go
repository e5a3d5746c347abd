package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/lentono/blockbot/automatic"
	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/config"
	"github.com/lentono/blockbot/equity"
	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
	"github.com/lentono/blockbot/shape"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}

func (sc *ShellController) resetField(f *field.Field) {
	f.SetCalculator(sc.weights)
	sc.field = f
	sc.curGenPlays = nil
	sc.lastDecision = nil
}

func (sc *ShellController) newField(cmd *shellcmd) (*Response, error) {
	w, h := sc.cfg.GetInt(config.ConfigFieldWidth), sc.cfg.GetInt(config.ConfigFieldHeight)
	if len(cmd.args) == 2 {
		var err error
		if w, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
		if h, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	} else if len(cmd.args) != 0 {
		return nil, errors.New("usage: new [width height]")
	}
	f, err := field.New(w, h)
	if err != nil {
		return nil, err
	}
	sc.resetField(f)
	return sc.show(cmd)
}

func (sc *ShellController) loadField(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: field <width> <height> <field text>")
	}
	w, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	h, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	f, err := field.Parse(w, h, cmd.args[2])
	if err != nil {
		return nil, err
	}
	sc.resetField(f)
	return sc.show(cmd)
}

func (sc *ShellController) loadRows(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: rows <row> [<row> ...]")
	}
	f, err := field.FromRows(cmd.args...)
	if err != nil {
		return nil, err
	}
	sc.resetField(f)
	return sc.show(cmd)
}

func (sc *ShellController) setPieces(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: pieces <current> <next> [-x spawn column]")
	}
	cur, err := shape.ParseKind(cmd.args[0])
	if err != nil {
		return nil, err
	}
	next, err := shape.ParseKind(cmd.args[1])
	if err != nil {
		return nil, err
	}
	x, err := cmd.options.IntDefault("x", shape.SpawnX(cur, sc.field.Width()))
	if err != nil {
		return nil, err
	}
	sc.current, sc.next, sc.spawnX, sc.hasPieces = cur, next, x, true
	sc.lastDecision = nil
	return msg(fmt.Sprintf("current: %v next: %v spawn x: %d", cur, next, x)), nil
}

func placementTableHeader() string {
	return fmt.Sprintf("%3s %-10s %4s %4s %4s %10s", "#", "Placement", "Rot", "X", "Y", "Score")
}

func placementTableRow(idx int, p *move.Placement) string {
	return fmt.Sprintf("%3d %-10s %4d %4d %4d %10.4f",
		idx+1, p.ShortDescription(), p.Rotation, p.X, p.Y, p.Score)
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	kind := sc.current
	if len(cmd.args) > 0 {
		var err error
		if kind, err = shape.ParseKind(cmd.args[0]); err != nil {
			return nil, err
		}
	} else if !sc.hasPieces {
		return nil, errors.New("no piece given; use pieces or gen <kind>")
	}
	n, err := cmd.options.IntDefault("n", 15)
	if err != nil {
		return nil, err
	}
	sc.curGenPlays = sc.gen.GenAll(sc.field.Settled(), kind)
	rows := lo.Map(lo.Slice(sc.curGenPlays, 0, n), func(p *move.Placement, i int) string {
		return placementTableRow(i, p)
	})
	return msg(strings.Join(append([]string{placementTableHeader()}, rows...), "\n")), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if !sc.hasPieces {
		return nil, errors.New("no pieces set; use pieces <current> <next>")
	}
	d := sc.engine.Decide(bot.Request{
		Field:   sc.field,
		Current: sc.current,
		Next:    sc.next,
		SpawnX:  sc.spawnX,
		SpawnY:  -1,
	})
	sc.lastDecision = d
	var sb strings.Builder
	sb.WriteString(sc.field.ToDisplayText(d.Placement.Cells()...))
	fmt.Fprintf(&sb, "placement: %v (%s)\n", d.Placement, d.Source)
	if d.Next != nil {
		fmt.Fprintf(&sb, "next piece planned at: %v\n", d.Next)
	}
	fmt.Fprintf(&sb, "moves: %s", move.FormatActions(d.Actions))
	if d.Lost {
		sb.WriteString("\ngame is lost")
	}
	return msg(sb.String()), nil
}

// lock plays the last decision: the piece lands, full rows clear and the
// next piece becomes current.
func (sc *ShellController) lock(cmd *shellcmd) (*Response, error) {
	if sc.lastDecision == nil {
		return nil, errors.New("nothing to lock; run best first")
	}
	if sc.lastDecision.Source == bot.SourceNone {
		return nil, errors.New("the piece does not fit anywhere")
	}
	settled := sc.field.Settled()
	settled.Lock(sc.lastDecision.Placement.Cells())
	cleared := settled.ClearLines()
	sc.resetField(settled)
	sc.current = sc.next
	sc.spawnX = shape.SpawnX(sc.current, sc.field.Width())
	resp, _ := sc.show(cmd)
	return msg(resp.message + fmt.Sprintf("cleared %d lines; current piece is now %v", cleared, sc.current)), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	var hl []field.Cell
	if sc.lastDecision != nil {
		hl = sc.lastDecision.Placement.Cells()
	}
	feats := sc.field.Features()
	return msg(sc.field.ToDisplayText(hl...) + fmt.Sprintf(
		"heights: %v holes: %d roughness: %d score: %.4f\n",
		feats.Heights, feats.BlockedHoles, feats.Roughness, sc.field.CalculateMoveScore())), nil
}

func (sc *ShellController) showWeights(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		sc.cfg.Set(config.ConfigWeightsPath, cmd.args[0])
		w, err := equity.WeightsFromConfig(sc.cfg)
		if err != nil {
			return nil, err
		}
		sc.setWeights(w)
	}
	return msg(sc.weights.String()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games, err := cmd.options.IntDefault("games", 10)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	results, err := automatic.PlaySelfPlayGames(context.Background(), sc.cfg, sc.engine,
		automatic.SelfPlayOptions{
			NumGames: games,
			Threads:  threads,
			LogFile:  cmd.options.String("log"),
		})
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := automatic.Summarize(results).WriteReport(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}
