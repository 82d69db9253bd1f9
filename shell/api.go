package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/inarow/automatic"
	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/bot"
	"github.com/domino14/inarow/config"
)

const defaultBenchRuns = 20

type Response struct {
	message string
}

func (r *Response) Message() string {
	return r.message
}

func msg(message string) *Response {
	return &Response{message: message}
}

var (
	errNoGame    = errors.New("the game is over, start a new one with `new`")
	errBadUsage  = errors.New("bad usage")
	errHumanTurn = errors.New("a human plays this side here, use `move <square>`")
)

func usageErr(u string) error {
	return fmt.Errorf("%w: %s", errBadUsage, u)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	first := board.Player1
	if len(cmd.args) > 0 {
		switch strings.ToLower(cmd.args[0]) {
		case "x", "1":
		case "o", "2":
			first = board.Player2
		default:
			return nil, usageErr("new [x|o]")
		}
	}
	sc.board = sc.lines.NewBoard(first)
	return msg(sc.board.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.boardDisplay()), nil
}

func (sc *ShellController) boardDisplay() string {
	text := sc.board.ToDisplayText()
	if st := sc.board.State(); st != board.Unfinished {
		text += "Game over: " + st.String() + "\n"
	}
	return text
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, usageErr("move <square>")
	}
	m, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.play(m); err != nil {
		return nil, err
	}
	return msg(sc.boardDisplay()), nil
}

func (sc *ShellController) play(m int) error {
	if sc.board.State() != board.Unfinished {
		return errNoGame
	}
	if err := sc.board.ValidateMove(m); err != nil {
		return err
	}
	sc.board.Make(m)
	return nil
}

func (sc *ShellController) engine(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("player 1: %s\nplayer 2: %s", sc.engines[0], sc.engines[1])), nil
	}
	if len(cmd.args) != 2 {
		return nil, usageErr("engine <1|2> <name>")
	}
	p, err := strconv.Atoi(cmd.args[0])
	if err != nil || p < 1 || p > 2 {
		return nil, usageErr("engine <1|2> <name>")
	}
	f, err := bot.NewFactory(sc.config, sc.lines, cmd.args[1])
	if err != nil {
		return nil, err
	}
	pl, err := f()
	if err != nil {
		return nil, err
	}
	sc.engines[p-1] = cmd.args[1]
	sc.players[p-1] = pl
	return msg(fmt.Sprintf("player %d is now %s", p, cmd.args[1])), nil
}

func (sc *ShellController) engineMove(cmd *shellcmd) (*Response, error) {
	if sc.board.State() != board.Unfinished {
		return nil, errNoGame
	}
	turn := sc.board.Turn
	// The shell already owns the terminal, so humans enter moves with `move`.
	if sc.engines[turn] == bot.HumanEngine {
		return nil, errHumanTurn
	}
	if sc.players[turn] == nil {
		f, err := bot.NewFactory(sc.config, sc.lines, sc.engines[turn])
		if err != nil {
			return nil, err
		}
		if sc.players[turn], err = f(); err != nil {
			return nil, err
		}
	}
	m := sc.players[turn].BestMove(sc.board)
	if err := sc.play(m); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s (%s) plays %d\n%s", board.PlayerSymbol(turn),
		sc.engines[turn], m, sc.boardDisplay())), nil
}

// The search engines report a value along with their move.
type scorer interface {
	Solve(b board.Board) (int, int)
}

type meanScorer interface {
	Solve(b board.Board) (float64, int)
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, usageErr("solve <engine>")
	}
	if sc.board.State() != board.Unfinished {
		return nil, errNoGame
	}
	f, err := bot.NewFactory(sc.config, sc.lines, cmd.args[0])
	if err != nil {
		return nil, err
	}
	p, err := f()
	if err != nil {
		return nil, err
	}
	switch s := p.(type) {
	case scorer:
		score, m := s.Solve(sc.board)
		return msg(fmt.Sprintf("best move %d, value %d for %s", m, score,
			board.PlayerSymbol(sc.board.Turn))), nil
	case meanScorer:
		value, m := s.Solve(sc.board)
		return msg(fmt.Sprintf("best move %d, mean reward %.3f for %s", m, value,
			board.PlayerSymbol(sc.board.Turn))), nil
	}
	return msg(fmt.Sprintf("best move %d", p.BestMove(sc.board))), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 || len(cmd.args) > 3 {
		return nil, usageErr("autoplay <engine1> <engine2> [games]")
	}
	games := sc.config.GetInt(config.ConfigGames)
	if len(cmd.args) == 3 {
		var err error
		games, err = strconv.Atoi(cmd.args[2])
		if err != nil || games < 1 {
			return nil, usageErr("games must be a positive number")
		}
	}
	names := [2]string{cmd.args[0], cmd.args[1]}
	if names[0] == bot.HumanEngine || names[1] == bot.HumanEngine {
		return nil, errHumanTurn
	}
	f1, err := bot.NewFactory(sc.config, sc.lines, names[0])
	if err != nil {
		return nil, err
	}
	f2, err := bot.NewFactory(sc.config, sc.lines, names[1])
	if err != nil {
		return nil, err
	}
	r := automatic.NewRunner(sc.lines, f1, f2, names)
	r.SetThreads(sc.config.GetInt(config.ConfigThreads))
	r.SetSeed(sc.config.GetUint64(config.ConfigSeed))
	res, err := r.PlayMatch(sc.ctx, games)
	if errors.Is(err, context.Canceled) && res != nil {
		log.Info().Int("games", res.Games).Msg("match-cancelled")
	} else if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s vs %s: %s", names[0], names[1], res)), nil
}

func (sc *ShellController) bench(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return nil, usageErr("bench <engine> [runs]")
	}
	if sc.board.State() != board.Unfinished {
		return nil, errNoGame
	}
	runs := defaultBenchRuns
	if len(cmd.args) == 2 {
		var err error
		runs, err = strconv.Atoi(cmd.args[1])
		if err != nil || runs < 1 {
			return nil, usageErr("runs must be a positive number")
		}
	}
	f, err := bot.NewFactory(sc.config, sc.lines, cmd.args[0])
	if err != nil {
		return nil, err
	}
	p, err := f()
	if err != nil {
		return nil, err
	}

	picks := make([]float64, runs)
	for i := range picks {
		picks[i] = float64(p.BestMove(sc.board))
	}
	counts := lo.CountValues(picks)
	squares := lo.Keys(counts)
	sort.Float64s(squares)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s chose, over %d runs:\n", cmd.args[0], runs)
	for _, sq := range squares {
		fmt.Fprintf(&sb, "  square %2d: %d\n", int(sq), counts[sq])
	}
	if len(squares) > 1 {
		h := histogram.Hist(len(squares), picks)
		if err := histogram.Fprint(&sb, h, histogram.Linear(40)); err != nil {
			return nil, err
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(sb.String()), nil
}
