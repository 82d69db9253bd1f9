package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.GetInt(ConfigBoardSize))
	assert.Equal(t, 1000, cfg.GetInt(ConfigMCTSIterations))
	assert.InDelta(t, math.Sqrt(0.5), cfg.GetFloat64(ConfigMCTSExploration), 1e-12)
	assert.Equal(t, "mcts", cfg.GetString(ConfigPlayer1))
	assert.Equal(t, "alphabeta", cfg.GetString(ConfigPlayer2))
	assert.False(t, cfg.GetBool(ConfigMinimaxTT))
	assert.NoError(t, cfg.Validate())

	layers, err := cfg.HiddenLayers()
	require.NoError(t, err)
	assert.Equal(t, []int{81, 27}, layers)
}

func TestLoadFlags(t *testing.T) {
	cfg := &Config{}
	rest, err := cfg.Load([]string{"--board-size", "4", "--mcts-iterations=50",
		"--minimax-tt", "--hidden-layers", "10, 5", "extra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"extra"}, rest)
	assert.Equal(t, 4, cfg.GetInt(ConfigBoardSize))
	assert.Equal(t, 50, cfg.GetInt(ConfigMCTSIterations))
	assert.True(t, cfg.GetBool(ConfigMinimaxTT))
	layers, err := cfg.HiddenLayers()
	require.NoError(t, err)
	assert.Equal(t, []int{10, 5}, layers)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("INAROW_BOARD_SIZE", "5")
	cfg := &Config{}
	_, err := cfg.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.GetInt(ConfigBoardSize))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		args []string
	}{
		{[]string{"--board-size", "2"}},
		{[]string{"--board-size", "9"}},
		{[]string{"--mcts-iterations", "0"}},
		{[]string{"--threads", "0"}},
		{[]string{"--learning-rate", "0"}},
		{[]string{"--hidden-layers", "81,x"}},
		{[]string{"--games", "-1"}},
	}
	for _, c := range cases {
		cfg := &Config{}
		_, err := cfg.Load(c.args)
		assert.ErrorIs(t, err, ErrInvalidSetting, c.args)
	}
}

func TestSanitizedSettings(t *testing.T) {
	cfg := DefaultConfig()
	settings := cfg.SanitizedSettings()
	assert.Contains(t, settings, "board-size=3")
	assert.Contains(t, settings, "player1=mcts")
	for _, s := range settings {
		assert.NotContains(t, s, "history-file")
	}
	assert.IsIncreasing(t, settings)
}
