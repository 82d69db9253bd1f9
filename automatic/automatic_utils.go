package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/player"
	"github.com/domino14/inarow/rng"
	"github.com/domino14/inarow/stats"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const logHeader = "gameID,player1,player2,first,result,moves\n"

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// playing is held by the one match allowed to run at a time.
var playing atomic.Bool

// MatchResult tallies a match from player 1's point of view.
type MatchResult struct {
	Games       int
	Player1Wins int
	Player2Wins int
	Draws       int
	// Games won by whoever moved first, counting draws as half.
	FirstMoverWins float64

	Score stats.Statistic
}

func (m *MatchResult) add(g GameResult) {
	m.Games++
	switch g.State {
	case board.Player1Won:
		m.Player1Wins++
	case board.Player2Won:
		m.Player2Wins++
	case board.Draw:
		m.Draws++
	}
	switch {
	case g.State == board.Draw:
		m.FirstMoverWins += 0.5
	case (g.State == board.Player1Won) == (g.First == board.Player1):
		m.FirstMoverWins++
	}
	m.Score.Push(g.Player1Score())
}

func (m *MatchResult) merge(o *MatchResult) {
	m.Games += o.Games
	m.Player1Wins += o.Player1Wins
	m.Player2Wins += o.Player2Wins
	m.Draws += o.Draws
	m.FirstMoverWins += o.FirstMoverWins
	m.Score.Merge(&o.Score)
}

// WinRate is player 1's mean score with its 95% confidence interval.
func (m *MatchResult) WinRate() (mean, low, high float64) {
	low, high = m.Score.ConfidenceInterval(95)
	return m.Score.Mean(), low, high
}

func (m *MatchResult) String() string {
	mean, low, high := m.WinRate()
	return fmt.Sprintf("%d - %d - %d (player 1 score %.3f, 95%% CI %.3f-%.3f)",
		m.Player1Wins, m.Player2Wins, m.Draws, mean, low, high)
}

// Runner plays matches between two engines.
type Runner struct {
	lines     *board.LineTable
	factories [2]player.Factory
	names     [2]string
	threads   int
	seed      uint64
	gameLog   io.Writer
}

func NewRunner(lt *board.LineTable, p1, p2 player.Factory, names [2]string) *Runner {
	return &Runner{lines: lt, factories: [2]player.Factory{p1, p2}, names: names, threads: 1}
}

// SetThreads sets how many games are played at once.
func (r *Runner) SetThreads(threads int) {
	r.threads = max(threads, 1)
}

// SetSeed makes the choice of who starts each game repeatable.
func (r *Runner) SetSeed(seed uint64) {
	r.seed = seed
}

// SetGameLog makes the runner write a CSV line per game to w.
func (r *Runner) SetGameLog(w io.Writer) {
	r.gameLog = w
}

// PlayMatch plays n games. If ctx is cancelled it stops handing out games
// and returns the result of the games already played along with the
// context's error.
func (r *Runner) PlayMatch(ctx context.Context, n int) (*MatchResult, error) {
	if !playing.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer playing.Store(false)
	ts := time.Now()
	log.Info().Int("games", n).Int("threads", r.threads).
		Str("player1", r.names[0]).Str("player2", r.names[1]).Msg("starting-match")

	CVCCounter.Set(0)
	IsPlaying.Set(int64(r.threads))
	defer IsPlaying.Set(0)
	jobs := make(chan int, 100)
	var logChan chan string
	var logWg sync.WaitGroup
	if r.gameLog != nil {
		logChan = make(chan string, 100)
		logWg.Add(1)
		go func() {
			defer logWg.Done()
			io.WriteString(r.gameLog, logHeader)
			for msg := range logChan {
				io.WriteString(r.gameLog, msg)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]MatchResult, r.threads)
	for t := 0; t < r.threads; t++ {
		g.Go(func() error {
			var players [2]player.Player
			for i, f := range r.factories {
				p, err := f()
				if err != nil {
					return fmt.Errorf("building %s: %w", r.names[i], err)
				}
				players[i] = p
			}
			var seed uint64
			if r.seed != 0 {
				seed = r.seed + uint64(t)
			}
			gr := NewGameRunner(r.lines, players, r.names, rng.New(seed), logChan)
			for id := range jobs {
				results[t].add(gr.PlayGame(id))
				CVCCounter.Add(1)
				if c := CVCCounter.Value(); c%1000 == 0 {
					log.Info().Int64("played", c).Msg("match-progress")
				}
			}
			return nil
		})
	}

	var cancelled error
gameLoop:
	for i := 1; i <= n; i++ {
		select {
		case jobs <- i:
		case <-gctx.Done():
			log.Info().Msg("Got stop signal, exiting soon...")
			cancelled = ctx.Err()
			break gameLoop
		}
	}
	close(jobs)

	err := g.Wait()
	if logChan != nil {
		close(logChan)
		logWg.Wait()
	}
	if err != nil {
		return nil, err
	}

	total := lo.Reduce(results, func(acc *MatchResult, res MatchResult, _ int) *MatchResult {
		acc.merge(&res)
		return acc
	}, &MatchResult{})

	log.Info().Int("games", total.Games).Int("p1wins", total.Player1Wins).
		Int("p2wins", total.Player2Wins).Int("draws", total.Draws).
		Dur("elapsed", time.Since(ts)).Msg("match-finished")
	return total, cancelled
}
