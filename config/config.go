package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/inarow/board"
)

const (
	ConfigBoardSize        = "board-size"
	ConfigMCTSIterations   = "mcts-iterations"
	ConfigMCTSExploration  = "mcts-exploration"
	ConfigSeed             = "seed"
	ConfigThreads          = "threads"
	ConfigSearchThreads    = "search-threads"
	ConfigMinimaxTT        = "minimax-tt"
	ConfigGames            = "games"
	ConfigPlayer1          = "player1"
	ConfigPlayer2          = "player2"
	ConfigTrainRounds      = "train-rounds"
	ConfigTrainEpochs      = "train-epochs"
	ConfigLearningRate     = "learning-rate"
	ConfigHiddenLayers     = "hidden-layers"
	ConfigHistoryFile      = "history-file"
	ConfigDebug            = "debug"
	ConfigCPUProfile       = "cpu-profile"
	ConfigMCTSLogFile      = "mcts-log-file"
	ConfigTrainSampleLimit = "train-sample-limit"
	ConfigNetworkFile      = "network-file"
	ConfigGameLogFile      = "game-log-file"
)

var ErrInvalidSetting = errors.New("invalid setting")

type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigBoardSize, 3)
	v.SetDefault(ConfigMCTSIterations, 1000)
	v.SetDefault(ConfigMCTSExploration, math.Sqrt(0.5))
	v.SetDefault(ConfigSeed, 0)
	v.SetDefault(ConfigThreads, 1)
	v.SetDefault(ConfigSearchThreads, 1)
	v.SetDefault(ConfigMinimaxTT, false)
	v.SetDefault(ConfigGames, 1000)
	v.SetDefault(ConfigPlayer1, "mcts")
	v.SetDefault(ConfigPlayer2, "alphabeta")
	v.SetDefault(ConfigTrainRounds, 100)
	v.SetDefault(ConfigTrainEpochs, 1)
	v.SetDefault(ConfigLearningRate, 0.3)
	v.SetDefault(ConfigHiddenLayers, "81,27")
	v.SetDefault(ConfigTrainSampleLimit, 0)
	v.SetDefault(ConfigHistoryFile, "/tmp/inarow_readline.tmp")
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMCTSLogFile, "")
	v.SetDefault(ConfigNetworkFile, "")
	v.SetDefault(ConfigGameLogFile, "")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("inarow")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// DefaultConfig returns a config with every key at its default value,
// overridable through INAROW_* environment variables.
func DefaultConfig() Config {
	return Config{newViper()}
}

// Load reads command-line flags (and the environment) into the config.
// It returns any arguments left over after the flags.
func (c *Config) Load(args []string) ([]string, error) {
	c.Viper = newViper()

	fs := pflag.NewFlagSet("inarow", pflag.ContinueOnError)
	fs.Int(ConfigBoardSize, 3, "board size N (3-8)")
	fs.Int(ConfigMCTSIterations, 1000, "MCTS iterations per move")
	fs.Float64(ConfigMCTSExploration, math.Sqrt(0.5), "MCTS exploration constant")
	fs.Uint64(ConfigSeed, 0, "random seed; 0 picks a fresh one")
	fs.Int(ConfigThreads, 1, "number of games to play in parallel")
	fs.Int(ConfigSearchThreads, 1, "alpha-beta root threads")
	fs.Bool(ConfigMinimaxTT, false, "cache exact minimax values")
	fs.Int(ConfigGames, 1000, "number of games for autoplay")
	fs.String(ConfigPlayer1, "mcts", "engine for player 1")
	fs.String(ConfigPlayer2, "alphabeta", "engine for player 2")
	fs.Int(ConfigTrainRounds, 100, "training rounds for the network")
	fs.Int(ConfigTrainEpochs, 1, "epochs per training round")
	fs.Float64(ConfigLearningRate, 0.3, "initial learning rate")
	fs.String(ConfigHiddenLayers, "81,27", "comma-separated hidden layer sizes")
	fs.Int(ConfigTrainSampleLimit, 0, "train on at most this many positions (0 = all)")
	fs.String(ConfigHistoryFile, "/tmp/inarow_readline.tmp", "shell history file")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.String(ConfigCPUProfile, "", "write a CPU profile here")
	fs.String(ConfigMCTSLogFile, "", "write MCTS search statistics here as YAML")
	fs.String(ConfigNetworkFile, "", "trained network weights for the network engine")
	fs.String(ConfigGameLogFile, "", "write a CSV line per autoplay game here")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.BindPFlags(fs); err != nil {
		return nil, err
	}
	return fs.Args(), c.Validate()
}

// Validate checks that numeric settings are in range.
func (c *Config) Validate() error {
	n := c.GetInt(ConfigBoardSize)
	if n < board.MinSize || n > board.MaxSize {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrInvalidSetting, ConfigBoardSize, board.MinSize, board.MaxSize, n)
	}
	for _, key := range []string{ConfigMCTSIterations, ConfigThreads, ConfigSearchThreads,
		ConfigTrainEpochs} {
		if c.GetInt(key) < 1 {
			return fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalidSetting, key, c.GetInt(key))
		}
	}
	for _, key := range []string{ConfigGames, ConfigTrainRounds, ConfigTrainSampleLimit} {
		if c.GetInt(key) < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidSetting, key, c.GetInt(key))
		}
	}
	if c.GetFloat64(ConfigMCTSExploration) < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, ConfigMCTSExploration)
	}
	if c.GetFloat64(ConfigLearningRate) <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidSetting, ConfigLearningRate)
	}
	if _, err := c.HiddenLayers(); err != nil {
		return err
	}
	return nil
}

// HiddenLayers parses the hidden-layers setting.
func (c *Config) HiddenLayers() ([]int, error) {
	raw := strings.TrimSpace(c.GetString(ConfigHiddenLayers))
	if raw == "" {
		return nil, nil
	}
	var sizes []int
	for _, f := range strings.Split(raw, ",") {
		sz, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidSetting, ConfigHiddenLayers, raw, err)
		}
		if sz < 1 {
			return nil, fmt.Errorf("%w: %s %q: layer sizes must be positive", ErrInvalidSetting, ConfigHiddenLayers, raw)
		}
		sizes = append(sizes, sz)
	}
	return sizes, nil
}

// SanitizedSettings lists every setting as key=value, sorted by key,
// leaving out file locations.
func (c *Config) SanitizedSettings() []string {
	all := c.AllSettings()
	out := make([]string, 0, len(all))
	for k, v := range all {
		switch k {
		case ConfigHistoryFile, ConfigCPUProfile, ConfigMCTSLogFile, ConfigNetworkFile,
			ConfigGameLogFile:
			continue
		}
		out = append(out, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(out)
	return out
}
