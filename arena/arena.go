// Package arena assembles a playable combat arena: the world, the player and
// slimes built from prefabs, and the update and fixed-step physics passes.
package arena

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/common"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/ecs/entity"
	"github.com/milk9111/slimearena/ecs/system"
	"github.com/milk9111/slimearena/logger"
	"github.com/milk9111/slimearena/prefabs"
	"github.com/sirupsen/logrus"
)

// ErrRestartRequired is returned by Reload for changes that cannot be
// applied to a running arena.
var ErrRestartRequired = errors.New("arena: restart required")

// Options are the prefabs an arena is built from.
type Options struct {
	Arena  *prefabs.ArenaSpec
	Player *prefabs.PlayerSpec
	Slime  *prefabs.SlimeSpec
	Sword  *prefabs.SwordSpec
	// Scripts overrides where chase scripts are loaded from.
	Scripts system.ScriptLoader
}

// LoadOptions reads every prefab, preferring files on disk.
func LoadOptions() (Options, error) {
	arenaSpec, err := prefabs.LoadArenaSpec()
	if err != nil {
		return Options{}, fmt.Errorf("arena: %w", err)
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return Options{}, fmt.Errorf("arena: %w", err)
	}
	slimeSpec, err := prefabs.LoadSlimeSpec()
	if err != nil {
		return Options{}, fmt.Errorf("arena: %w", err)
	}
	swordSpec, err := prefabs.LoadSwordSpec(playerSpec.Weapon)
	if err != nil {
		return Options{}, fmt.Errorf("arena: %w", err)
	}
	return Options{Arena: arenaSpec, Player: playerSpec, Slime: slimeSpec, Sword: swordSpec}, nil
}

type Arena struct {
	spec    *prefabs.ArenaSpec
	slime   *prefabs.SlimeSpec
	weapon  string
	world   *ecs.World
	clock   *common.FrameClock
	update  *ecs.Scheduler
	physics *ecs.Scheduler

	physicsSys *system.PhysicsSystem
	chase      *system.ChaseAISystem
	tracker    *system.LevelTrackerSystem

	accumulator  float64
	physicsSteps int
	player       ecs.Entity
	cleared      bool

	log *logrus.Entry
}

func New(opts Options) (*Arena, error) {
	if opts.Arena == nil || opts.Player == nil || opts.Slime == nil {
		return nil, fmt.Errorf("arena: missing prefabs")
	}
	if err := opts.Arena.Validate(); err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	maxSteps := opts.Arena.MaxStepsPerFrame
	if maxSteps <= 0 {
		maxSteps = 5
	}
	spec := *opts.Arena
	spec.MaxStepsPerFrame = maxSteps

	clock := common.NewFrameClock()
	w := ecs.NewWorld()
	step := spec.FixedStep

	physicsSys := system.NewPhysicsSystem(step)
	physicsSys.SetBounds(spec.Width, spec.Height)
	chase := system.NewChaseAISystem(opts.Scripts)
	tracker := system.NewLevelTrackerSystem()

	a := &Arena{
		spec:  &spec,
		slime: opts.Slime,
		world: w,
		clock: clock,
		update: ecs.NewScheduler(
			chase,
			system.NewPlayerControlSystem(clock),
			system.NewMeleeSwingSystem(clock),
			system.NewDamageableSystem(clock),
			tracker,
		),
		physics: ecs.NewScheduler(
			system.NewContactDamageSystem(),
			system.NewKnockbackDecaySystem(step),
			system.NewMovementSystem(step),
			physicsSys,
		),
		physicsSys: physicsSys,
		chase:      chase,
		tracker:    tracker,
		log:        logger.With("arena"),
	}
	if opts.Sword != nil {
		a.weapon = opts.Player.Weapon
	}

	player, err := entity.NewPlayer(w, clock, opts.Player, opts.Sword, spec.PlayerSpawn.Vector())
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	a.player = player
	a.watch(player, "player")

	for _, pos := range spec.Slimes {
		slime, err := entity.NewSlime(w, clock, opts.Slime, pos.Vector())
		if err != nil {
			return nil, fmt.Errorf("arena: %w", err)
		}
		a.watch(slime, "slime")
	}

	if _, err := entity.NewLevelTracker(w, spec.ClearedEvent); err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"width":  spec.Width,
		"height": spec.Height,
		"slimes": len(spec.Slimes),
	}).Info("arena ready")
	return a, nil
}

// watch logs the combat events of e.
func (a *Arena) watch(e ecs.Entity, kind string) {
	d, ok := ecs.Get(a.world, e, component.DamageableComponent.Kind())
	if !ok {
		return
	}
	d.State.Subscribe(func(evt combat.CombatEvent) {
		entry := a.log.WithFields(logrus.Fields{
			"entity": e.Label(),
			"kind":   kind,
			"event":  string(evt.Type),
			"health": evt.Health,
			"max":    evt.MaxHealth,
			"time":   evt.Time,
		})
		if evt.Source != 0 {
			entry = entry.WithField("source", ecs.Entity(evt.Source).Label())
		}
		switch evt.Type {
		case combat.EventHit:
			entry.Debug("hit")
		default:
			entry.Info(string(evt.Type))
		}
	})
}

// Step advances the arena by a frame of dt seconds: one update pass, then as
// many fixed physics steps as the accumulator allows, up to
// MaxStepsPerFrame. Backlog beyond the cap is dropped. It returns the world
// events raised during the frame.
func (a *Arena) Step(dt float64) []ecs.Event {
	if dt < 0 {
		dt = 0
	}
	a.clock.Advance(dt)
	a.update.Update(a.world)

	step := a.spec.FixedStep
	a.accumulator += dt
	n := 0
	for a.accumulator >= step && n < a.spec.MaxStepsPerFrame {
		a.physics.Update(a.world)
		a.accumulator -= step
		n++
	}
	if a.accumulator >= step {
		a.log.WithField("dropped", a.accumulator).Debug("physics backlog dropped")
		a.accumulator = 0
	}
	a.physicsSteps += n

	events := a.world.Events().Drain()
	for _, evt := range events {
		if evt.Type == a.spec.ClearedEvent {
			a.cleared = true
		}
	}
	return events
}

// Reload reapplies a changed prefab to the running arena. name is relative
// to the prefab root, as delivered by prefabs.Watcher.
func (a *Arena) Reload(name string) error {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	switch {
	case strings.HasPrefix(name, "scripts/"):
		a.chase.Reload(path.Base(name))
		a.log.WithField("script", name).Info("script reloaded")
		return nil
	case name == "player.yaml":
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return fmt.Errorf("arena: reload %s: %w", name, err)
		}
		if !a.world.IsAlive(a.player) {
			return nil
		}
		if err := entity.ApplyPlayerSpec(a.world, a.player, spec); err != nil {
			return fmt.Errorf("arena: reload %s: %w", name, err)
		}
	case name == "slime.yaml":
		spec, err := prefabs.LoadSlimeSpec()
		if err != nil {
			return fmt.Errorf("arena: reload %s: %w", name, err)
		}
		if _, err := entity.ApplySlimeSpec(a.world, spec); err != nil {
			return fmt.Errorf("arena: reload %s: %w", name, err)
		}
		a.slime = spec
	case name == a.weapon:
		spec, err := prefabs.LoadSwordSpec(name)
		if err != nil {
			return fmt.Errorf("arena: reload %s: %w", name, err)
		}
		if _, err := entity.ApplySwordSpec(a.world, spec); err != nil {
			return fmt.Errorf("arena: reload %s: %w", name, err)
		}
	case name == "arena.yaml":
		return ErrRestartRequired
	default:
		return nil
	}
	a.log.WithField("prefab", name).Info("prefab reloaded")
	return nil
}

// SpawnSlime adds a slime at pos after the arena started. It counts toward
// the level-cleared event unless that has already fired.
func (a *Arena) SpawnSlime(pos cp.Vector) (ecs.Entity, error) {
	if pos.X < 0 || pos.Y < 0 || pos.X > a.spec.Width || pos.Y > a.spec.Height {
		return 0, fmt.Errorf("arena: spawn (%v, %v) outside the arena", pos.X, pos.Y)
	}
	slime, err := entity.NewSlime(a.world, a.clock, a.slime, pos)
	if err != nil {
		return 0, fmt.Errorf("arena: %w", err)
	}
	a.watch(slime, "slime")
	a.tracker.Register(a.world, slime)
	return slime, nil
}

// Close releases subscriptions held by the arena's systems.
func (a *Arena) Close() {
	a.tracker.Close()
}

func (a *Arena) World() *ecs.World { return a.world }

func (a *Arena) Clock() *common.FrameClock { return a.clock }

func (a *Arena) Spec() *prefabs.ArenaSpec { return a.spec }

func (a *Arena) Player() ecs.Entity { return a.player }

// PlayerState is the player's combat state, nil once the entity is gone.
func (a *Arena) PlayerState() *combat.Damageable {
	d, ok := ecs.Get(a.world, a.player, component.DamageableComponent.Kind())
	if !ok {
		return nil
	}
	return d.State
}

// Cleared reports whether the level-cleared event has fired.
func (a *Arena) Cleared() bool { return a.cleared }

// SlimesAlive counts AI entities that are not dying.
func (a *Arena) SlimesAlive() int {
	n := 0
	ecs.ForEach2(a.world, component.AITagComponent.Kind(), component.DamageableComponent.Kind(), func(_ ecs.Entity, _ *component.AITag, d *component.Damageable) {
		if !d.State.IsDying() {
			n++
		}
	})
	return n
}

// PhysicsSteps is the number of fixed steps run so far.
func (a *Arena) PhysicsSteps() int { return a.physicsSteps }

func (a *Arena) Physics() *system.PhysicsSystem { return a.physicsSys }
