package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/slimearena/arena"
	"github.com/milk9111/slimearena/logger"
	"github.com/milk9111/slimearena/prefabs"
	"github.com/sirupsen/logrus"
)

type Game struct {
	debug bool

	opts    arena.Options
	arena   *arena.Arena
	view    viewport
	watcher *prefabs.Watcher

	log *logrus.Entry
}

func NewGame(opts arena.Options, debug bool) (*Game, error) {
	a, err := arena.New(opts)
	if err != nil {
		return nil, err
	}
	return &Game{
		debug: debug,
		opts:  opts,
		arena: a,
		view:  newViewport(a.Spec()),
		log:   logger.With("game"),
	}, nil
}

func (g *Game) Update() error {
	g.pollReloads()
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	pollInput(g.arena, g.view)
	g.arena.Step(1.0 / float64(ebiten.TPS()))
	return nil
}

// pollReloads applies prefab edits delivered by the watcher.
func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name := <-g.watcher.Events:
			err := g.arena.Reload(name)
			if errors.Is(err, arena.ErrRestartRequired) {
				g.restart(true)
				continue
			}
			if err != nil {
				g.log.WithError(err).WithField("prefab", name).Warn("reload failed")
			}
		case err := <-g.watcher.Errors:
			g.log.WithError(err).Warn("prefab watcher")
		default:
			return
		}
	}
}

// restart rebuilds the arena. With reload the prefabs are read again first.
func (g *Game) restart(reload bool) {
	opts := g.opts
	if reload {
		fresh, err := arena.LoadOptions()
		if err != nil {
			g.log.WithError(err).Warn("restart skipped")
			return
		}
		opts = fresh
	}
	a, err := arena.New(opts)
	if err != nil {
		g.log.WithError(err).Warn("restart failed")
		return
	}
	g.arena.Close()
	g.opts = opts
	g.arena = a
	g.view = newViewport(a.Spec())
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawArena(screen, g.arena, g.view, g.debug)

	hp := "dead"
	if st := g.arena.PlayerState(); st != nil && !st.IsDying() {
		hp = fmt.Sprintf("%d/%d", st.CurrentHealth(), st.MaxHealth())
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("HP: %s    Slimes: %d    FPS: %.2f", hp, g.arena.SlimesAlive(), ebiten.ActualFPS()))

	switch {
	case g.arena.Cleared():
		ebitenutil.DebugPrintAt(screen, "Arena cleared! Press R to play again.", 0, 20)
	case hp == "dead":
		ebitenutil.DebugPrintAt(screen, "You died. Press R to restart.", 0, 20)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w, h := g.view.size()
	return float64(w), float64(h)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
