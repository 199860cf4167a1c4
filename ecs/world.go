package ecs

import "github.com/milk9111/slimearena/ecs/component"

// World owns entities, their components and a world-level event queue.
type World struct {
	generations []generation
	alive       []bool
	free        []entityID
	count       int

	stores map[component.ComponentID]componentStore
	events EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		// Slot 0 is reserved so the zero Entity is never alive.
		generations: []generation{0},
		alive:       []bool{false},
		stores:      make(map[component.ComponentID]componentStore),
	}
}

// CreateEntity allocates a new entity, reusing a freed slot with a bumped
// generation when one is available.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		id = entityID(len(w.generations))
		w.generations = append(w.generations, 0)
		w.alive = append(w.alive, false)
	}
	w.alive[id] = true
	w.count++
	return makeEntity(id, w.generations[id])
}

// DestroyEntity removes every component of e and frees its slot. It reports
// false when e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	id := e.id()
	for _, s := range w.stores {
		s.remove(id)
	}
	w.alive[id] = false
	w.generations[id]++
	w.free = append(w.free, id)
	w.count--
	return true
}

// IsAlive reports whether an entity handle refers to a live entity.
func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func (w *World) IsAlive(e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	id := e.id()
	if int(id) >= len(w.alive) {
		return false
	}
	return w.alive[id] && w.generations[id] == e.generation()
}

// Entities returns all live entities in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.count)
	for i := 1; i < len(w.alive); i++ {
		if w.alive[i] {
			out = append(out, makeEntity(entityID(i), w.generations[i]))
		}
	}
	return out
}

// Len reports the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.count
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil {
		return nil
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		set := newSparseSet[T]()
		w.stores[kind.ID()] = set
		return set
	}
	set, _ := s.(*sparseSet[T])
	return set
}
