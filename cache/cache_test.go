package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/inarow/config"
)

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	calls := 0
	loader := func(cfg *config.Config, key string) (any, error) {
		calls++
		return key + "-built", nil
	}
	for i := 0; i < 3; i++ {
		obj, err := Load(&cfg, "thing", loader)
		is.NoErr(err)
		is.Equal(obj.(string), "thing-built")
	}
	is.Equal(calls, 1)
}

func TestFailedLoadIsRetried(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	boom := errors.New("boom")
	_, err := Load(&cfg, "flaky", func(*config.Config, string) (any, error) {
		return nil, boom
	})
	is.Equal(err, boom)

	obj, err := Load(&cfg, "flaky", func(*config.Config, string) (any, error) {
		return 42, nil
	})
	is.NoErr(err)
	is.Equal(obj.(int), 42)
}
