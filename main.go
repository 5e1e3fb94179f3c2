package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/ladderclimb/logger"
)

func main() {
	levelName := flag.String("level", "tower", "level name in levels/ (basename, .json optional)")
	logLevel := flag.String("log", "info", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", string(logger.FormatConsole), "log format: console or json")
	watch := flag.Bool("watch", true, "hot-reload tunables from the prefabs directory")
	flag.Parse()

	base := logger.New(*logLevel, logger.Format(*logFormat))
	defer func() { _ = base.Sync() }()
	log := logger.For(base, logger.ComponentGame)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("ladderclimb")

	game, err := NewGame(*levelName, *watch, base)
	if err != nil {
		log.Fatalw("create game", "level", *levelName, "error", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatalw("run game", "error", err)
	}
}
