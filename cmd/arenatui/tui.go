package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/arena"
	"github.com/milk9111/slimearena/common"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/ecs/system"
	"github.com/milk9111/slimearena/logger"
	"github.com/milk9111/slimearena/prefabs"
	"github.com/sirupsen/logrus"
)

const (
	// Terminals report key presses but not releases, so a press holds the
	// direction for moveHold.
	moveHold = 0.15
	hudRows  = 1
)

type tui struct {
	screen tcell.Screen
	opts   arena.Options
	arena  *arena.Arena
	log    *logrus.Entry

	move     cp.Vector
	moveLeft float64
	attack   bool
	aim      cp.Vector
}

func newTUI(screen tcell.Screen, opts arena.Options) (*tui, error) {
	a, err := arena.New(opts)
	if err != nil {
		return nil, err
	}
	return &tui{
		screen: screen,
		opts:   opts,
		arena:  a,
		log:    logger.With("tui"),
		aim:    cp.Vector{X: 1},
	}, nil
}

func (u *tui) run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	dt := frame.Seconds()
	for {
		select {
		case ev := <-events:
			if !u.handle(ev) {
				return
			}
		case <-ticker.C:
			u.step(dt)
			u.draw()
		}
	}
}

// handle applies one terminal event and reports false on quit.
func (u *tui) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			u.press(cp.Vector{Y: 1})
		case tcell.KeyDown:
			u.press(cp.Vector{Y: -1})
		case tcell.KeyLeft:
			u.press(cp.Vector{X: -1})
		case tcell.KeyRight:
			u.press(cp.Vector{X: 1})
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w':
				u.press(cp.Vector{Y: 1})
			case 's':
				u.press(cp.Vector{Y: -1})
			case 'a':
				u.press(cp.Vector{X: -1})
			case 'd':
				u.press(cp.Vector{X: 1})
			case ' ', 'j':
				u.attack = true
			case 'r':
				u.restart()
			}
		}
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

func (u *tui) press(dir cp.Vector) {
	u.move = dir
	u.moveLeft = moveHold
	u.aim = dir
}

func (u *tui) restart() {
	a, err := arena.New(u.opts)
	if err != nil {
		u.log.WithError(err).Warn("restart failed")
		return
	}
	u.arena.Close()
	u.arena = a
}

func (u *tui) step(dt float64) {
	w := u.arena.World()
	player := u.arena.Player()
	in, ok := ecs.Get(w, player, component.InputComponent.Kind())
	if ok {
		*in = component.Input{}
		if u.moveLeft > 0 {
			in.MoveX, in.MoveY = u.move.X, u.move.Y
			u.moveLeft -= dt
		}
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			pos := t.Position()
			aim := pos.Add(u.aim)
			// Attacks snap to the nearest slime in reach of a swing.
			if target, ok := system.NearestDamageable(w, pos, prefabs.LayerEnemy, 2, player); ok {
				if tt, ok := ecs.Get(w, target, component.TransformComponent.Kind()); ok {
					aim = tt.Position()
				}
			}
			in.AimX, in.AimY = aim.X, aim.Y
		}
		in.AttackPressed = u.attack
	}
	u.attack = false
	u.arena.Step(dt)
}

func (u *tui) draw() {
	u.screen.Clear()
	cols, rows := u.screen.Size()
	rows -= hudRows
	spec := u.arena.Spec()
	if cols <= 0 || rows <= 0 {
		u.screen.Show()
		return
	}

	cell := func(p cp.Vector) (int, int) {
		x := int(common.Clamp(p.X/spec.Width, 0, 0.999) * float64(cols))
		y := int(common.Clamp(1-p.Y/spec.Height, 0, 0.999) * float64(rows))
		return x, y + hudRows
	}

	w := u.arena.World()
	ecs.ForEach2(w, component.SpriteComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, s *component.Sprite, t *component.Transform) {
		if s.Hidden || s.Alpha <= 0 {
			return
		}
		x, y := cell(t.Position())
		u.screen.SetContent(x, y, glyph(w, e), nil, style(s))
	})

	hp := "dead"
	if st := u.arena.PlayerState(); st != nil && !st.IsDying() {
		hp = fmt.Sprintf("%d/%d", st.CurrentHealth(), st.MaxHealth())
	}
	status := fmt.Sprintf("HP %s  slimes %d", hp, u.arena.SlimesAlive())
	switch {
	case u.arena.Cleared():
		status += "  cleared! r to replay"
	case hp == "dead":
		status += "  you died, r to restart"
	}
	for i, r := range status {
		u.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Bold(true))
	}
	u.screen.Show()
}

func glyph(w *ecs.World, e ecs.Entity) rune {
	switch {
	case ecs.Has(w, e, component.WeaponTagComponent.Kind()):
		return '/'
	case ecs.Has(w, e, component.PlayerTagComponent.Kind()):
		if ecs.Has(w, e, component.InertComponent.Kind()) {
			return 'x'
		}
		return '@'
	default:
		return 'o'
	}
}

func style(s *component.Sprite) tcell.Style {
	r, g, b, _ := s.Color.RGBA()
	if s.Tint != nil {
		r, g, b, _ = s.Tint.RGBA()
	}
	a := common.Clamp(s.Alpha, 0, 1)
	fg := tcell.NewRGBColor(int32(float64(r>>8)*a), int32(float64(g>>8)*a), int32(float64(b>>8)*a))
	return tcell.StyleDefault.Foreground(fg)
}
