// train fits the network engine to alpha-beta's moves and saves it.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/bot"
	"github.com/domino14/inarow/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := &config.Config{}
	if _, err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad arguments")
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	lt, err := board.NewLineTable(cfg.GetInt(config.ConfigBoardSize))
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	nw, err := bot.Train(cfg, lt)
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	out := cfg.GetString(config.ConfigNetworkFile)
	if out == "" {
		out = fmt.Sprintf("network-%d.yaml", lt.Size())
	}
	f, err := os.Create(out)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	defer f.Close()
	if err := nw.Save(f); err != nil {
		log.Fatal().Err(err).Msg("saving network")
	}
	log.Info().Str("file", out).Msg("saved-network")
}
