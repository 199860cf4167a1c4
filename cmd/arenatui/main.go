// Command arenatui plays the arena in a terminal.
//
//	w a s d     move
//	space / j   attack toward the nearest slime
//	r           restart
//	q / esc     quit
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/slimearena/arena"
	"github.com/milk9111/slimearena/logger"
	"github.com/milk9111/slimearena/prefabs"
)

func main() {
	fps := flag.Int("fps", 30, "frames per second")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	prefabDir := flag.String("prefabs", prefabs.DiskRoot, "directory checked for prefab overrides")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger.InitWithOutput(out)
	prefabs.DiskRoot = *prefabDir

	opts, err := arena.LoadOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load prefabs: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ui, err := newTUI(screen, opts)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "build arena: %v\n", err)
		os.Exit(1)
	}
	ui.run(time.Second / time.Duration(max(*fps, 1)))
}
