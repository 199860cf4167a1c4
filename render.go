package main

import (
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/arena"
	"github.com/milk9111/slimearena/common"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/prefabs"
	"golang.org/x/image/colornames"
)

const defaultPixelsPerUnit = 48

// viewport maps the y-up world onto the y-down screen.
type viewport struct {
	ppu    float64
	width  float64
	height float64
}

func newViewport(spec *prefabs.ArenaSpec) viewport {
	ppu := spec.PixelsPerUnit
	if ppu <= 0 {
		ppu = defaultPixelsPerUnit
	}
	return viewport{ppu: ppu, width: spec.Width, height: spec.Height}
}

func (v viewport) size() (int, int) {
	return int(math.Ceil(v.width * v.ppu)), int(math.Ceil(v.height * v.ppu))
}

func (v viewport) toScreen(p cp.Vector) (float64, float64) {
	return p.X * v.ppu, (v.height - p.Y) * v.ppu
}

func (v viewport) toWorld(x, y float64) cp.Vector {
	return cp.Vector{X: x / v.ppu, Y: v.height - y/v.ppu}
}

// pixel is stretched into every placeholder sprite.
var pixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

func drawArena(screen *ebiten.Image, a *arena.Arena, view viewport, debug bool) {
	screen.Fill(colornames.Darkslategray)

	w, h := view.size()
	vector.StrokeRect(screen, 1, 1, float32(w-2), float32(h-2), 2, colornames.Lightslategray, false)

	world := a.World()
	entities := world.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		oi, oj := drawOrder(world, entities[i]), drawOrder(world, entities[j])
		if oi != oj {
			return oi < oj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(world, e, component.TransformComponent.Kind())
		s, _ := ecs.Get(world, e, component.SpriteComponent.Kind())
		if s.Hidden {
			continue
		}
		drawSprite(screen, view, t, s)
	}

	if debug {
		drawDebug(screen, world, view)
	}
}

// drawOrder sorts lower entities on top. A weapon takes the player's depth
// so Sprite.Order puts it just behind or in front of them.
func drawOrder(w *ecs.World, e ecs.Entity) float64 {
	t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	order := -t.Y
	if ecs.Has(w, e, component.WeaponTagComponent.Kind()) {
		if player, ok := w.First(component.PlayerTagComponent.Kind()); ok {
			if pt, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
				order = -pt.Y
			}
		}
	}
	return order + float64(s.Order)*0.001
}

func drawSprite(screen *ebiten.Image, view viewport, t *component.Transform, s *component.Sprite) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if s.FacingLeft {
		sx = -sx
	}
	if s.FlipY {
		sy = -sy
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(s.Width*sx*view.ppu, s.Height*sy*view.ppu)
	// Screen y runs down, so world counter-clockwise is negative here.
	op.GeoM.Rotate(-common.Deg2Rad(t.Rotation))

	x, y := view.toScreen(cp.Vector{X: t.X + s.OriginX + s.OffsetX, Y: t.Y + s.OriginY + s.OffsetY})
	op.GeoM.Translate(x, y)

	var c color.Color = s.Color
	if s.Tint != nil {
		c = s.Tint
	}
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(s.Alpha))

	screen.DrawImage(pixel, op)
}

func drawDebug(screen *ebiten.Image, w *ecs.World, view viewport) {
	ecs.ForEach2(w, component.HurtboxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, hb *component.Hurtbox, t *component.Transform) {
		x, y := view.toScreen(cp.Vector{X: t.X + hb.OffsetX, Y: t.Y + hb.OffsetY})
		clr := colornames.Lime
		if ecs.Has(w, e, component.CollidersDisabledComponent.Kind()) {
			clr = colornames.Gray
		}
		vector.StrokeCircle(screen, float32(x), float32(y), float32(hb.Radius*view.ppu), 1, clr, true)
	})

	ecs.ForEach(w, component.MeleeWeaponComponent.Kind(), func(_ ecs.Entity, mw *component.MeleeWeapon) {
		if mw.Swing == nil || !mw.Swing.HitboxActive() {
			return
		}
		x, y := view.toScreen(mw.Swing.Position())
		r := mw.Swing.Config().HitRadius * view.ppu
		vector.StrokeCircle(screen, float32(x), float32(y), float32(r), 1, colornames.Orangered, true)
	})
}
