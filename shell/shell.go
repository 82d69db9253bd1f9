// Package shell is the interactive command loop.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/bot"
	"github.com/domino14/inarow/config"
	"github.com/domino14/inarow/player"
)

var errExit = errors.New("exit")

type shellcmd struct {
	cmd  string
	args []string
}

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	ctx    context.Context
	cancel context.CancelFunc

	lines   *board.LineTable
	board   board.Board
	engines [2]string
	players [2]player.Player
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

// NewShellController sets up a shell with a fresh game. It does not
// touch the terminal until Loop is called.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	lt, err := board.NewLineTable(cfg.GetInt(config.ConfigBoardSize))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ShellController{
		config:  cfg,
		ctx:     ctx,
		cancel:  cancel,
		lines:   lt,
		board:   lt.NewBoard(board.Player1),
		engines: [2]string{cfg.GetString(config.ConfigPlayer1), cfg.GetString(config.ConfigPlayer2)},
	}, nil
}

func (sc *ShellController) initReadline() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31minarow>\033[0m ",
		HistoryFile:     sc.config.GetString(config.ConfigHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	return nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &shellcmd{cmd: strings.ToLower(fields[0]), args: fields[1:]}, nil
}

// Execute runs one command line and returns what it has to say.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, nil
	}
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "move", "m":
		return sc.move(cmd)
	case "engine":
		return sc.engine(cmd)
	case "go":
		return sc.engineMove(cmd)
	case "solve":
		return sc.solve(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "bench":
		return sc.bench(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	case "exit", "quit":
		return nil, errExit
	}
	// A bare number is a move.
	if _, err := strconv.Atoi(cmd.cmd); err == nil && len(cmd.args) == 0 {
		return sc.move(&shellcmd{cmd: "move", args: []string{cmd.cmd}})
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(line))
	return nil, errors.New("command " + strconv.Quote(cmd.cmd) + " not found; try `help`")
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	if err := sc.initReadline(); err != nil {
		log.Error().Err(err).Msg("readline")
		sig <- syscall.SIGINT
		return
	}
	defer sc.l.Close()
	showMessage(sc.board.ToDisplayText(), sc.l.Stderr())

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}

		resp, err := sc.Execute(strings.TrimSpace(line))
		if err == errExit {
			sig <- syscall.SIGINT
			break
		} else if err != nil {
			showMessage("Error: "+err.Error(), sc.l.Stderr())
			continue
		}
		if resp != nil {
			showMessage(resp.message, sc.l.Stderr())
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running match and closes the engines' log files.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	if err := bot.CloseLogs(); err != nil {
		log.Err(err).Msg("closing-engine-logs")
	}
}
