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

func NewSlime(w *ecs.World, clock common.Clock, spec *prefabs.SlimeSpec, pos cp.Vector) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("slime: nil spec")
	}

	dmgCfg, err := spec.Damageable.Config("slime.yaml")
	if err != nil {
		return 0, fmt.Errorf("slime: damageable: %w", err)
	}
	layer, err := prefabs.ParseLayer(spec.Layer)
	if err != nil {
		return 0, fmt.Errorf("slime: layer: %w", err)
	}

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.AITagComponent.Kind(), &component.AITag{}); err != nil {
		return 0, fmt.Errorf("slime: add ai tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.AIComponent.Kind(), &component.AI{
		MoveSpeed:    spec.MoveSpeed,
		StopDistance: spec.StopDistance,
		Script:       spec.Script,
	}); err != nil {
		return 0, fmt.Errorf("slime: add ai: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		X:      pos.X,
		Y:      pos.Y,
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("slime: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.SpriteComponent.Kind(), newSprite(spec.Sprite, 0)); err != nil {
		return 0, fmt.Errorf("slime: add sprite: %w", err)
	}

	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), newBody(spec.Collider)); err != nil {
		return 0, fmt.Errorf("slime: add physics body: %w", err)
	}

	if err := ecs.Add(w, entity, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: layer,
		Mask:     prefabs.LayerPlayer | prefabs.LayerEnemy | prefabs.LayerWall,
	}); err != nil {
		return 0, fmt.Errorf("slime: add collision layer: %w", err)
	}

	if err := ecs.Add(w, entity, component.HurtboxComponent.Kind(), &component.Hurtbox{
		Radius:  spec.Hurtbox.Radius,
		OffsetX: spec.Hurtbox.OffsetX,
		OffsetY: spec.Hurtbox.OffsetY,
		Layer:   layer,
	}); err != nil {
		return 0, fmt.Errorf("slime: add hurtbox: %w", err)
	}

	if err := ecs.Add(w, entity, component.HostileComponent.Kind(), &component.Hostile{Layer: layer, Tag: spec.Tag}); err != nil {
		return 0, fmt.Errorf("slime: add hostile: %w", err)
	}

	damageable := combat.NewDamageable(dmgCfg, clock)
	damageable.SetHost(NewHost(w, entity))
	if err := ecs.Add(w, entity, component.DamageableComponent.Kind(), &component.Damageable{State: damageable}); err != nil {
		return 0, fmt.Errorf("slime: add damageable: %w", err)
	}

	if err := ecs.Add(w, entity, component.LocomotionComponent.Kind(), &component.Locomotion{}); err != nil {
		return 0, fmt.Errorf("slime: add locomotion: %w", err)
	}

	if err := ecs.Add(w, entity, component.FacingComponent.Kind(), &component.Facing{}); err != nil {
		return 0, fmt.Errorf("slime: add facing: %w", err)
	}

	damageable.StartSpawn()
	return entity, nil
}

// NewLevelTracker creates the entity that reports when every slime alive at
// the start of the level has died.
func NewLevelTracker(w *ecs.World, event string) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)
	if err := ecs.Add(w, entity, component.LevelTrackerComponent.Kind(), &component.LevelTracker{Event: event}); err != nil {
		return 0, fmt.Errorf("level tracker: add tracker: %w", err)
	}
	return entity, nil
}
