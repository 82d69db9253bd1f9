// Package bot builds players by engine name from the configuration.
package bot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/cache"
	"github.com/domino14/inarow/config"
	"github.com/domino14/inarow/learn"
	"github.com/domino14/inarow/player"
	"github.com/domino14/inarow/rng"
	"github.com/domino14/inarow/search/alphabeta"
	"github.com/domino14/inarow/search/mcts"
	"github.com/domino14/inarow/search/minimax"
)

const (
	MinimaxEngine   = "minimax"
	AlphaBetaEngine = "alphabeta"
	MCTSEngine      = "mcts"
	RandomEngine    = "random"
	NetworkEngine   = "network"
	HumanEngine     = "human"
)

var ErrUnknownEngine = errors.New("unknown engine")

type builder func(cfg *config.Config, lt *board.LineTable) (player.Factory, error)

var engines = map[string]builder{
	MinimaxEngine: func(cfg *config.Config, lt *board.LineTable) (player.Factory, error) {
		tt := cfg.GetBool(config.ConfigMinimaxTT)
		return func() (player.Player, error) {
			s := minimax.NewSolver()
			s.SetTranspositionTableOptim(tt)
			return s, nil
		}, nil
	},
	AlphaBetaEngine: func(cfg *config.Config, lt *board.LineTable) (player.Factory, error) {
		threads := cfg.GetInt(config.ConfigSearchThreads)
		return func() (player.Player, error) {
			s := alphabeta.NewSolver()
			s.SetThreads(threads)
			return s, nil
		}, nil
	},
	MCTSEngine: newMCTSFactory,
	RandomEngine: func(cfg *config.Config, lt *board.LineTable) (player.Factory, error) {
		seeds := seedSource(cfg)
		return func() (player.Player, error) {
			return player.NewRandom(seeds()), nil
		}, nil
	},
	NetworkEngine: newNetworkFactory,
	HumanEngine:   newHumanFactory,
}

// Names lists the engine names NewFactory accepts.
func Names() []string {
	names := lo.Keys(engines)
	sort.Strings(names)
	return names
}

// NewFactory returns a factory for the named engine on boards of lt.
func NewFactory(cfg *config.Config, lt *board.LineTable, name string) (player.Factory, error) {
	b, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownEngine, name, Names())
	}
	return b(cfg, lt)
}

// seedSource hands out distinct seeds derived from the configured one,
// so players built by one factory do not play identical games. It hands
// out zeros (fresh random seeds) when no seed is configured.
func seedSource(cfg *config.Config) func() uint64 {
	base := cfg.GetUint64(config.ConfigSeed)
	var mu sync.Mutex
	var n uint64
	return func() uint64 {
		if base == 0 {
			return 0
		}
		mu.Lock()
		defer mu.Unlock()
		n++
		return base + n
	}
}

// logFile serializes writes from several solvers sharing a log file.
type logFile struct {
	mu sync.Mutex
	f  *os.File
}

func (l *logFile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Write(p)
}

var (
	logsMu sync.Mutex
	logs   = map[string]*logFile{}
)

// openLog opens fn for appending, or returns the handle an earlier engine
// already opened.
func openLog(fn string) (*logFile, error) {
	logsMu.Lock()
	defer logsMu.Unlock()
	if l, ok := logs[fn]; ok {
		return l, nil
	}
	f, err := os.OpenFile(fn, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", fn).Msg("mcts-logging")
	l := &logFile{f: f}
	logs[fn] = l
	return l, nil
}

// CloseLogs closes the log files opened by engines built so far. Players
// built before the call must not be used afterwards.
func CloseLogs() error {
	logsMu.Lock()
	defer logsMu.Unlock()
	var errs []error
	for fn, l := range logs {
		l.mu.Lock()
		errs = append(errs, l.f.Close())
		l.mu.Unlock()
		delete(logs, fn)
	}
	return errors.Join(errs...)
}

func newMCTSFactory(cfg *config.Config, lt *board.LineTable) (player.Factory, error) {
	iterations := cfg.GetInt(config.ConfigMCTSIterations)
	exploration := cfg.GetFloat64(config.ConfigMCTSExploration)
	seeds := seedSource(cfg)

	var logStream io.Writer
	if fn := cfg.GetString(config.ConfigMCTSLogFile); fn != "" {
		l, err := openLog(fn)
		if err != nil {
			return nil, fmt.Errorf("opening mcts log: %w", err)
		}
		logStream = l
	}

	return func() (player.Player, error) {
		s := mcts.NewSolver(iterations)
		s.SetExploration(exploration)
		s.SetSeed(seeds())
		if logStream != nil {
			s.SetLogStream(logStream)
		}
		return s, nil
	}, nil
}

// The terminal is one person, so every human engine shares one reader.
var (
	humanMu  sync.Mutex
	human    *player.Human
	humanIn  io.Reader = os.Stdin
	humanOut io.Writer = os.Stdout
)

func newHumanFactory(cfg *config.Config, lt *board.LineTable) (player.Factory, error) {
	humanMu.Lock()
	defer humanMu.Unlock()
	if human == nil {
		human = player.NewHuman(humanIn, humanOut)
	}
	h := human
	return func() (player.Player, error) {
		return h, nil
	}, nil
}

// networkKey names a network by everything that determines its weights.
func networkKey(cfg *config.Config, lt *board.LineTable) string {
	if fn := cfg.GetString(config.ConfigNetworkFile); fn != "" {
		return fmt.Sprintf("network:%d:file:%s", lt.Size(), fn)
	}
	return fmt.Sprintf("network:%d:%s:%d:%d:%g:%d:%d", lt.Size(),
		cfg.GetString(config.ConfigHiddenLayers), cfg.GetInt(config.ConfigTrainRounds),
		cfg.GetInt(config.ConfigTrainEpochs), cfg.GetFloat64(config.ConfigLearningRate),
		cfg.GetInt(config.ConfigTrainSampleLimit), cfg.GetUint64(config.ConfigSeed))
}

// newNetworkFactory loads the configured network file, or trains a
// network when there is none. All players share the one network, and it
// is only built once per process.
func newNetworkFactory(cfg *config.Config, lt *board.LineTable) (player.Factory, error) {
	obj, err := cache.Load(cfg, networkKey(cfg, lt), func(cfg *config.Config, key string) (any, error) {
		fn := cfg.GetString(config.ConfigNetworkFile)
		if fn == "" {
			return Train(cfg, lt)
		}
		f, err := os.Open(fn)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		nw, err := learn.Load(f, lt)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", fn, err)
		}
		return nw, nil
	})
	if err != nil {
		return nil, err
	}
	nw := obj.(*learn.Network)
	return func() (player.Player, error) {
		return nw, nil
	}, nil
}

// Train builds a labeled dataset and trains a network with the
// configured shape and schedule.
func Train(cfg *config.Config, lt *board.LineTable) (*learn.Network, error) {
	hidden, err := cfg.HiddenLayers()
	if err != nil {
		return nil, err
	}
	src := rng.New(cfg.GetUint64(config.ConfigSeed))
	solver := alphabeta.NewSolver()
	solver.SetThreads(cfg.GetInt(config.ConfigSearchThreads))
	samples := learn.Label(learn.Positions(lt, cfg.GetInt(config.ConfigTrainSampleLimit)), solver)

	nw := learn.New(lt, hidden, src)
	nw.Train(samples, learn.TrainOptions{
		Rounds:       cfg.GetInt(config.ConfigTrainRounds),
		Epochs:       cfg.GetInt(config.ConfigTrainEpochs),
		LearningRate: cfg.GetFloat64(config.ConfigLearningRate),
		RNG:          src,
	})
	log.Info().
		Ints("layers", nw.Layers()).
		Float64("loss", nw.Loss(samples)).
		Float64("accuracy", nw.Accuracy(samples)).
		Msg("network-trained")
	return nw, nil
}
