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

// NewPlayer builds the player at pos together with its sword.
func NewPlayer(w *ecs.World, clock common.Clock, spec *prefabs.PlayerSpec, sword *prefabs.SwordSpec, pos cp.Vector) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("player: nil spec")
	}
	const file = "player.yaml"

	dmgCfg, err := spec.Damageable.Config(file)
	if err != nil {
		return 0, fmt.Errorf("player: damageable: %w", err)
	}
	contactCfg, err := spec.Contact.Config(file)
	if err != nil {
		return 0, fmt.Errorf("player: contact: %w", err)
	}
	layer, err := prefabs.ParseLayer(spec.Layer)
	if err != nil {
		return 0, fmt.Errorf("player: layer: %w", err)
	}

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.PlayerComponent.Kind(), &component.Player{
		MaxSpeed: spec.MaxSpeed,
		Accel:    spec.Accel,
		Decel:    spec.Decel,
	}); err != nil {
		return 0, fmt.Errorf("player: add player component: %w", err)
	}

	if err := ecs.Add(w, entity, component.InputComponent.Kind(), &component.Input{AimX: pos.X + 1, AimY: pos.Y}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		X:      pos.X,
		Y:      pos.Y,
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.SpriteComponent.Kind(), newSprite(spec.Sprite, 0)); err != nil {
		return 0, fmt.Errorf("player: add sprite: %w", err)
	}

	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), newBody(spec.Collider)); err != nil {
		return 0, fmt.Errorf("player: add physics body: %w", err)
	}

	if err := ecs.Add(w, entity, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: layer,
		Mask:     prefabs.LayerEnemy | prefabs.LayerWall,
	}); err != nil {
		return 0, fmt.Errorf("player: add collision layer: %w", err)
	}

	if err := ecs.Add(w, entity, component.HurtboxComponent.Kind(), &component.Hurtbox{
		Radius:  spec.Hurtbox.Radius,
		OffsetX: spec.Hurtbox.OffsetX,
		OffsetY: spec.Hurtbox.OffsetY,
		Layer:   layer,
	}); err != nil {
		return 0, fmt.Errorf("player: add hurtbox: %w", err)
	}

	damageable := combat.NewDamageable(dmgCfg, clock)
	damageable.SetHost(NewHost(w, entity))
	if err := ecs.Add(w, entity, component.DamageableComponent.Kind(), &component.Damageable{State: damageable}); err != nil {
		return 0, fmt.Errorf("player: add damageable: %w", err)
	}

	if err := ecs.Add(w, entity, component.ContactVictimComponent.Kind(), &component.ContactVictim{
		Resolver: combat.NewContactResolver(contactCfg, clock, damageable),
	}); err != nil {
		return 0, fmt.Errorf("player: add contact victim: %w", err)
	}

	if err := ecs.Add(w, entity, component.LocomotionComponent.Kind(), &component.Locomotion{}); err != nil {
		return 0, fmt.Errorf("player: add locomotion: %w", err)
	}

	if err := ecs.Add(w, entity, component.FacingComponent.Kind(), &component.Facing{}); err != nil {
		return 0, fmt.Errorf("player: add facing: %w", err)
	}

	if sword != nil {
		weapon, err := NewSword(w, clock, sword, pos)
		if err != nil {
			return 0, fmt.Errorf("player: %w", err)
		}
		weapon.Swing.SetOwner(combat.ID(entity))
		if err := ecs.Add(w, entity, component.MeleeWeaponComponent.Kind(), weapon); err != nil {
			return 0, fmt.Errorf("player: add melee weapon: %w", err)
		}
	}

	damageable.StartSpawn()
	return entity, nil
}

func newSprite(spec prefabs.SpriteSpec, order int) *component.Sprite {
	return &component.Sprite{
		Name:    spec.Image,
		Color:   spec.NRGBA(),
		Width:   spec.Width,
		Height:  spec.Height,
		OriginX: spec.OriginX,
		OriginY: spec.OriginY,
		Order:   order,
		Alpha:   1,
	}
}

func newBody(spec prefabs.ColliderSpec) *component.PhysicsBody {
	return &component.PhysicsBody{
		Radius:     spec.Radius,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
	}
}
