package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/common"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/prefabs"
)

// NewSword creates the sword's visual entity and returns the weapon
// component for the wielder.
func NewSword(w *ecs.World, clock common.Clock, spec *prefabs.SwordSpec, pos cp.Vector) (*component.MeleeWeapon, error) {
	cfg, err := spec.Config(swordFile(spec))
	if err != nil {
		return nil, fmt.Errorf("sword: %w", err)
	}

	visual := ecs.CreateEntity(w)

	if err := ecs.Add(w, visual, component.WeaponTagComponent.Kind(), &component.WeaponTag{}); err != nil {
		return nil, fmt.Errorf("sword: add weapon tag: %w", err)
	}

	if err := ecs.Add(w, visual, component.TransformComponent.Kind(), &component.Transform{
		X:        pos.X + cfg.Radius,
		Y:        pos.Y,
		ScaleX:   1,
		ScaleY:   1,
		Rotation: cfg.VisualAngleOffset,
	}); err != nil {
		return nil, fmt.Errorf("sword: add transform: %w", err)
	}

	if err := ecs.Add(w, visual, component.SpriteComponent.Kind(), newSprite(spec.Sprite, 1)); err != nil {
		return nil, fmt.Errorf("sword: add sprite: %w", err)
	}

	return &component.MeleeWeapon{
		Swing:  combat.NewSwing(cfg, clock),
		Visual: uint64(visual),
	}, nil
}

func swordFile(spec *prefabs.SwordSpec) string {
	if spec.Name == "" {
		return "sword.yaml"
	}
	return spec.Name + ".yaml"
}
