package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
	"github.com/Garsondee/Kite-Fly/internal/config"
	"github.com/Garsondee/Kite-Fly/internal/logging"
	"github.com/Garsondee/Kite-Fly/internal/sfx"
	"github.com/Garsondee/Kite-Fly/internal/store"
	"github.com/Garsondee/Kite-Fly/internal/tui"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "settings file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	// The terminal owns stdout/stderr while the game runs.
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "kitefly-tui.log"
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development, logFile)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	kv, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer kv.Close()
	profile := store.NewProfile(kv, logger)

	opts := []arcade.Option{
		arcade.WithTuning(arcade.Tuning{Duration: cfg.Game.Duration, Vertical: cfg.Game.Vertical}),
		arcade.WithRecorder(profile),
	}
	if cfg.Game.Seed != 0 {
		opts = append(opts, arcade.WithSeed(cfg.Game.Seed))
	}

	var sound *sfx.Player
	if cfg.Sound.Enabled {
		sound = sfx.New(cfg.Sound.Volume, logger)
		_ = sound.Init()
		defer sound.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := tui.New(screen, tui.Options{
		Session: arcade.NewSession(opts...),
		Sound:   sound,
		Logger:  logger,
		Best:    profile.BestScore,
	})
	if err := app.Run(ctx); err != nil {
		logger.Error("terminal host stopped", zap.Error(err))
	}
}
