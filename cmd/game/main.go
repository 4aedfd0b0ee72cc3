package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
	"github.com/Garsondee/Kite-Fly/internal/config"
	"github.com/Garsondee/Kite-Fly/internal/game"
	"github.com/Garsondee/Kite-Fly/internal/logging"
	"github.com/Garsondee/Kite-Fly/internal/sfx"
	"github.com/Garsondee/Kite-Fly/internal/store"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "settings file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development, cfg.Log.File)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	kv, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer kv.Close()

	var sound *sfx.Player
	if cfg.Sound.Enabled {
		sound = sfx.New(cfg.Sound.Volume, logger)
		_ = sound.Init() // a missing audio device only disables sound
	}

	g, err := game.New(game.Options{
		Tuning:  arcade.Tuning{Duration: cfg.Game.Duration, Vertical: cfg.Game.Vertical},
		Seed:    cfg.Game.Seed,
		Profile: store.NewProfile(kv, logger),
		Sound:   sound,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("create game", zap.Error(err))
	}
	defer g.Close()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(int(arcade.FieldWidth*cfg.Window.Scale), int(arcade.FieldHeight*cfg.Window.Scale))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
