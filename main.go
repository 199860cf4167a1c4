package main

import (
	"flag"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/slimearena/arena"
	"github.com/milk9111/slimearena/logger"
	"github.com/milk9111/slimearena/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "draw hurtboxes and weapon reach")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := flag.Bool("watch", true, "hot reload prefabs edited under the prefab directory")
	prefabDir := flag.String("prefabs", prefabs.DiskRoot, "directory checked for prefab overrides")
	flag.Parse()

	logger.Init()
	prefabs.DiskRoot = *prefabDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	opts, err := arena.LoadOptions()
	if err != nil {
		logger.Log.WithError(err).Fatal("load prefabs")
	}

	game, err := NewGame(opts, *debug)
	if err != nil {
		logger.Log.WithError(err).Fatal("build arena")
	}

	if *watch {
		w, err := prefabs.NewWatcher(*prefabDir, filepath.Join(*prefabDir, "scripts"))
		if err != nil {
			logger.Log.WithError(err).Warn("prefab hot reload disabled")
		} else {
			game.watcher = w
			defer w.Close()
		}
	}

	width, height := game.view.size()
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("slime arena")

	if err := ebiten.RunGame(game); err != nil {
		logger.Log.WithError(err).Fatal("run game")
	}
}
