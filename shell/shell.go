// Package shell is an interactive console for inspecting the engine's
// decisions on hand-made fields.
package shell

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/config"
	"github.com/lentono/blockbot/equity"
	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
	"github.com/lentono/blockbot/movegen"
	"github.com/lentono/blockbot/shape"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errExit              = errors.New("exit requested")
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	engine  *bot.Engine
	gen     movegen.MoveGenerator
	weights equity.Weights

	field     *field.Field
	current   shape.Kind
	next      shape.Kind
	hasPieces bool
	spawnX    int

	curGenPlays  []*move.Placement
	lastDecision *bot.Decision
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func newController(cfg *config.Config) (*ShellController, error) {
	weights, err := equity.WeightsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	f, err := field.New(cfg.GetInt(config.ConfigFieldWidth), cfg.GetInt(config.ConfigFieldHeight))
	if err != nil {
		return nil, err
	}
	sc := &ShellController{cfg: cfg, field: f, gen: movegen.NewColumnScanGenerator()}
	sc.setWeights(weights)
	return sc, nil
}

// NewShellController creates a controller reading commands from the
// terminal.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc, err := newController(cfg)
	if err != nil {
		return nil, err
	}
	sc.l, err = readline.NewEx(&readline.Config{
		Prompt:          "\033[31mblockbot>\033[0m ",
		HistoryFile:     "/tmp/blockbot_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *ShellController) setWeights(w equity.Weights) {
	sc.weights = w
	sc.engine = bot.NewEngine(w)
	sc.field.SetCalculator(w)
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into command, positional arguments and
// -option value pairs.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[idx][1:]
			options[key] = append(options[key], fields[idx+1])
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// Execute runs one command line and returns what it printed.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newField(cmd)
	case "field":
		return sc.loadField(cmd)
	case "rows":
		return sc.loadRows(cmd)
	case "pieces":
		return sc.setPieces(cmd)
	case "gen":
		return sc.generate(cmd)
	case "best":
		return sc.best(cmd)
	case "lock":
		return sc.lock(cmd)
	case "show":
		return sc.show(cmd)
	case "weights":
		return sc.showWeights(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(line))
	return nil, errors.New("command not recognized: " + cmd.cmd)
}

// Loop reads commands until exit or EOF, then signals sig.
func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.Execute(line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
