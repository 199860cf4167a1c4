package system

import (
	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/logger"
	"github.com/sirupsen/logrus"
)

// LevelTrackerSystem watches the AI entities alive on its first update, plus
// any added later through Register, and pushes the tracker's event once all
// of them have died. With nothing to track the event fires on that first
// update.
type LevelTrackerSystem struct {
	log  *logrus.Entry
	subs []func()
}

func NewLevelTrackerSystem() *LevelTrackerSystem {
	return &LevelTrackerSystem{log: logger.With("level")}
}

func (s *LevelTrackerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.LevelTrackerComponent.Kind(), func(_ ecs.Entity, tr *component.LevelTracker) {
		if tr.Summoned {
			return
		}
		if tr.Tracked == nil {
			s.track(w, tr)
		}
		if len(tr.Tracked) > 0 {
			return
		}
		tr.Summoned = true
		s.Close()
		w.Events().Push(ecs.Event{Type: tr.Event, Data: tr.Killed})
		s.log.WithFields(logrus.Fields{"event": tr.Event, "killed": tr.Killed}).Info("level cleared")
	})
}

func (s *LevelTrackerSystem) track(w *ecs.World, tr *component.LevelTracker) {
	tr.Tracked = make(map[uint64]struct{})
	ecs.ForEach2(w, component.AITagComponent.Kind(), component.DamageableComponent.Kind(), func(e ecs.Entity, _ *component.AITag, d *component.Damageable) {
		s.trackOne(tr, e, d)
	})
	s.log.WithField("tracked", len(tr.Tracked)).Debug("tracking enemies")
}

// Register adds an enemy spawned after the level started to every tracker
// that has not fired yet. It reports whether any tracker took it.
func (s *LevelTrackerSystem) Register(w *ecs.World, e ecs.Entity) bool {
	if s == nil || w == nil {
		return false
	}
	d, ok := ecs.Get(w, e, component.DamageableComponent.Kind())
	if !ok {
		return false
	}
	registered := false
	ecs.ForEach(w, component.LevelTrackerComponent.Kind(), func(_ ecs.Entity, tr *component.LevelTracker) {
		if tr.Summoned {
			return
		}
		if tr.Tracked == nil {
			s.track(w, tr)
		}
		if s.trackOne(tr, e, d) {
			registered = true
		}
	})
	return registered
}

func (s *LevelTrackerSystem) trackOne(tr *component.LevelTracker, e ecs.Entity, d *component.Damageable) bool {
	if d.State == nil || d.State.IsDying() {
		return false
	}
	id := uint64(e)
	if _, ok := tr.Tracked[id]; ok {
		return false
	}
	tr.Tracked[id] = struct{}{}
	unsubscribe := d.State.Subscribe(func(evt combat.CombatEvent) {
		if evt.Type != combat.EventDeath {
			return
		}
		if _, ok := tr.Tracked[id]; !ok {
			return
		}
		delete(tr.Tracked, id)
		tr.Killed++
	})
	s.subs = append(s.subs, unsubscribe)
	return true
}

// Close drops every death subscription.
func (s *LevelTrackerSystem) Close() {
	for _, unsubscribe := range s.subs {
		unsubscribe()
	}
	s.subs = nil
}
