// autoplay plays a match between two engines and prints the tally.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/inarow/automatic"
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

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
}

func run(cfg *config.Config) error {
	lt, err := board.NewLineTable(cfg.GetInt(config.ConfigBoardSize))
	if err != nil {
		return err
	}
	names := [2]string{cfg.GetString(config.ConfigPlayer1), cfg.GetString(config.ConfigPlayer2)}
	defer func() {
		if err := bot.CloseLogs(); err != nil {
			log.Err(err).Msg("closing-engine-logs")
		}
	}()
	f1, err := bot.NewFactory(cfg, lt, names[0])
	if err != nil {
		return err
	}
	f2, err := bot.NewFactory(cfg, lt, names[1])
	if err != nil {
		return err
	}

	r := automatic.NewRunner(lt, f1, f2, names)
	r.SetThreads(cfg.GetInt(config.ConfigThreads))
	r.SetSeed(cfg.GetUint64(config.ConfigSeed))

	logfile := cfg.GetString(config.ConfigGameLogFile)
	if logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return err
		}
		defer f.Close()
		r.SetGameLog(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := r.PlayMatch(ctx, cfg.GetInt(config.ConfigGames))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("%s vs %s: %s\n", names[0], names[1], res)

	if logfile != "" {
		summary, err := automatic.AnalyzeLogFile(logfile)
		if err != nil {
			return err
		}
		fmt.Print(summary)
	}
	return nil
}
