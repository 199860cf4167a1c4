package combat

import "github.com/jakecoffman/cp"

// ID identifies a combat participant. The ECS supplies generational entity
// handles so a destroyed entity's ID is never handed out again.
type ID uint64

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventHit       CombatEventType = "hit"
	EventDeath     CombatEventType = "death"
	EventDestroyed CombatEventType = "destroyed"
)

// CombatEvent is emitted synchronously by a Damageable.
type CombatEvent struct {
	Type      CombatEventType
	Source    ID
	Amount    int
	Health    int
	MaxHealth int
	Direction cp.Vector
	Time      float64
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// Emitter fans combat events out to subscribers in subscription order.
type Emitter struct {
	nextToken int
	handlers  []subscription
}

type subscription struct {
	token   int
	handler CombatEventHandler
}

// Subscribe registers h and returns a function that removes it.
func (e *Emitter) Subscribe(h CombatEventHandler) (unsubscribe func()) {
	if e == nil || h == nil {
		return func() {}
	}
	e.nextToken++
	token := e.nextToken
	e.handlers = append(e.handlers, subscription{token: token, handler: h})
	return func() { e.remove(token) }
}

func (e *Emitter) remove(token int) {
	for i, s := range e.handlers {
		if s.token == token {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Emit sends evt to every handler subscribed when Emit starts. A handler
// unsubscribed by an earlier handler during the same Emit is skipped;
// handlers added during Emit first see the next event.
func (e *Emitter) Emit(evt CombatEvent) {
	if e == nil || len(e.handlers) == 0 {
		return
	}
	handlers := append([]subscription(nil), e.handlers...)
	for _, s := range handlers {
		if e.subscribed(s.token) {
			s.handler(evt)
		}
	}
}

func (e *Emitter) subscribed(token int) bool {
	for _, s := range e.handlers {
		if s.token == token {
			return true
		}
	}
	return false
}

// Len reports how many handlers are subscribed.
func (e *Emitter) Len() int {
	if e == nil {
		return 0
	}
	return len(e.handlers)
}
