package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/logger"
	"github.com/milk9111/slimearena/prefabs"
	"github.com/sirupsen/logrus"
)

// ScriptLoader returns the source of a named chase script.
type ScriptLoader func(name string) ([]byte, error)

// ChaseAISystem steers AI entities toward their target until within stop
// distance. A stunned entity does not steer; it only drifts with knockback.
// An optional tengo script scales the chase speed.
type ChaseAISystem struct {
	load ScriptLoader
	log  *logrus.Entry

	compiled  map[string]*tengo.Compiled
	instances map[ecs.Entity]*chaseScript
	failed    map[string]struct{}
}

type chaseScript struct {
	name     string
	compiled *tengo.Compiled
}

// NewChaseAISystem uses prefabs.LoadScript when load is nil.
func NewChaseAISystem(load ScriptLoader) *ChaseAISystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &ChaseAISystem{
		load:      load,
		log:       logger.With("chase_ai"),
		compiled:  make(map[string]*tengo.Compiled),
		instances: make(map[ecs.Entity]*chaseScript),
		failed:    make(map[string]struct{}),
	}
}

// Reload drops the cached compilation of name so the next update recompiles
// it from source.
func (s *ChaseAISystem) Reload(name string) {
	delete(s.compiled, name)
	delete(s.failed, name)
	for e, inst := range s.instances {
		if inst.name == name {
			delete(s.instances, e)
		}
	}
}

func (s *ChaseAISystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.instances {
		if !w.IsAlive(e) {
			delete(s.instances, e)
		}
	}

	chasers := w.Query(
		component.AITagComponent.Kind(),
		component.AIComponent.Kind(),
		component.TransformComponent.Kind(),
		component.LocomotionComponent.Kind(),
	)
	for _, e := range chasers {
		loc, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
		loc.Velocity = cp.Vector{}
		if isInert(w, e) || dying(w, e) {
			continue
		}
		d, hasDamageable := ecs.Get(w, e, component.DamageableComponent.Kind())
		if hasDamageable && d.State.IsStunned() {
			continue
		}

		ai, _ := ecs.Get(w, e, component.AIComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		goal, ok := chaseTarget(w, ai)
		if !ok {
			continue
		}

		to := goal.Sub(t.Position())
		dist := to.Length()
		if dist <= ai.StopDistance || dist == 0 {
			continue
		}

		health, maxHealth := 0, 0
		if hasDamageable {
			health, maxHealth = d.State.CurrentHealth(), d.State.MaxHealth()
		}
		speed := ai.MoveSpeed * s.speedScale(e, ai, dist, health, maxHealth)
		loc.Velocity = to.Mult(speed / dist)

		if f, ok := ecs.Get(w, e, component.FacingComponent.Kind()); ok && to.X != 0 {
			f.Left = to.X < 0
		}
	}
}

func chaseTarget(w *ecs.World, ai *component.AI) (cp.Vector, bool) {
	target := ecs.Entity(ai.Target)
	if ai.Target == 0 {
		var ok bool
		target, ok = w.First(component.PlayerTagComponent.Kind())
		if !ok {
			return cp.Vector{}, false
		}
	}
	t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return t.Position(), true
}

// speedScale runs the entity's chase script. Any failure falls back to 1.
func (s *ChaseAISystem) speedScale(e ecs.Entity, ai *component.AI, dist float64, health, maxHealth int) float64 {
	if ai.Script == "" {
		return 1
	}
	inst, err := s.instance(e, ai.Script)
	if err != nil {
		if _, seen := s.failed[ai.Script]; !seen {
			s.failed[ai.Script] = struct{}{}
			s.log.WithError(err).WithField("script", ai.Script).Warn("chase script disabled")
		}
		return 1
	}

	c := inst.compiled
	if err := setAll(c, map[string]any{
		"distance":   dist,
		"speed":      ai.MoveSpeed,
		"health":     health,
		"max_health": maxHealth,
	}); err != nil {
		s.log.WithError(err).WithField("entity", e.Label()).Debug("chase script inputs")
		return 1
	}
	if err := c.Run(); err != nil {
		s.log.WithError(err).WithField("entity", e.Label()).Debug("chase script run")
		return 1
	}
	v := c.Get("speed_scale")
	if v.IsUndefined() {
		return 1
	}
	return max(0, v.Float())
}

func setAll(c *tengo.Compiled, vars map[string]any) error {
	for name, value := range vars {
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// instance returns the entity's private clone of the compiled script,
// compiling the source once per name.
func (s *ChaseAISystem) instance(e ecs.Entity, name string) (*chaseScript, error) {
	if inst, ok := s.instances[e]; ok && inst.name == name {
		return inst, nil
	}
	if _, failed := s.failed[name]; failed {
		return nil, fmt.Errorf("chase script %s failed to compile", name)
	}

	compiled, ok := s.compiled[name]
	if !ok {
		src, err := s.load(name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		script := tengo.NewScript(src)
		_ = script.Add("distance", 0.0)
		_ = script.Add("speed", 0.0)
		_ = script.Add("health", 0)
		_ = script.Add("max_health", 0)
		script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

		compiled, err = script.Compile()
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		s.compiled[name] = compiled
	}

	inst := &chaseScript{name: name, compiled: compiled.Clone()}
	s.instances[e] = inst
	return inst, nil
}
