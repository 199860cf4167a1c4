package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/slimearena/arena"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

const (
	stickDeadzone = 0.2
	// stickAimDistance is how far from the player a stick aim point lies.
	stickAimDistance = 2.0
)

// pollInput writes keyboard, mouse and gamepad state into the player's
// Input component.
func pollInput(a *arena.Arena, view viewport) {
	w := a.World()
	in, ok := ecs.Get(w, a.Player(), component.InputComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, a.Player(), component.TransformComponent.Kind())
	if !ok {
		return
	}

	moveX, moveY := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		moveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		moveY += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		moveY -= 1
	}
	attackPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace)

	cx, cy := ebiten.CursorPosition()
	aim := view.toWorld(float64(cx), float64(cy))

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			// Stick Y grows downward.
			moveX, moveY = lx, -ly
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if l := math.Hypot(rx, ry); l > stickDeadzone {
			aim = t.Position()
			aim.X += rx / l * stickAimDistance
			aim.Y -= ry / l * stickAimDistance
		}
		attackPressed = attackPressed ||
			inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft) ||
			inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
	}

	in.MoveX = moveX
	in.MoveY = moveY
	in.AimX = aim.X
	in.AimY = aim.Y
	in.AttackPressed = attackPressed
}
