package narrowphase

import (
	"github.com/akmonengine/narrowphase/actor"
	"github.com/akmonengine/narrowphase/contact"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	PORTAL_ENTER
	PORTAL_EXIT
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	ObjectA *actor.CollisionObject
	ObjectB *actor.CollisionObject
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	ObjectA *actor.CollisionObject
	ObjectB *actor.CollisionObject
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	ObjectA *actor.CollisionObject
	ObjectB *actor.CollisionObject
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events
type CollisionEnterEvent struct {
	ObjectA *actor.CollisionObject
	ObjectB *actor.CollisionObject
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	ObjectA *actor.CollisionObject
	ObjectB *actor.CollisionObject
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	ObjectA *actor.CollisionObject
	ObjectB *actor.CollisionObject
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// Portal events, driven by the body's touching-portal flag
type PortalEnterEvent struct {
	Object *actor.CollisionObject
}

func (e PortalEnterEvent) Type() EventType { return PORTAL_ENTER }

type PortalExitEvent struct {
	Object *actor.CollisionObject
}

func (e PortalExitEvent) Type() EventType { return PORTAL_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// activePair is a touching pair, with its objects in narrow-phase order
type activePair struct {
	key  contact.PairKey
	a, b *actor.CollisionObject
}

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Pair tracking for Enter/Stay/Exit detection. The slices keep the order in
	// which pairs were recorded, so events go out in the same order every run.
	previousActivePairs map[contact.PairKey]bool
	currentActivePairs  map[contact.PairKey]bool
	previousOrder       []activePair
	currentOrder        []activePair

	portalStates map[*actor.CollisionObject]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[contact.PairKey]bool),
		currentActivePairs:  make(map[contact.PairKey]bool),
		portalStates:        make(map[*actor.CollisionObject]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts marks every manifold that still holds contacts as active
func (e *Events) recordContacts(manifolds []*contact.Manifold) {
	for _, m := range manifolds {
		if m.Count > 0 {
			e.record(m.ObjectA, m.ObjectB)
		}
	}
}

// recordTrigger marks an overlapping trigger pair as active
func (e *Events) recordTrigger(a, b *actor.CollisionObject) {
	e.record(a, b)
}

func (e *Events) record(a, b *actor.CollisionObject) {
	key := contact.MakePairKey(a, b)
	if e.currentActivePairs[key] {
		return
	}

	e.currentActivePairs[key] = true
	e.currentOrder = append(e.currentOrder, activePair{key: key, a: a, b: b})
}

func (p activePair) isTrigger() bool {
	return p.a.IsTrigger || p.b.IsTrigger
}

// processPairEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processPairEvents() {
	for _, pair := range e.currentOrder {
		a, b := pair.a, pair.b
		isTrigger := pair.isTrigger()

		if e.previousActivePairs[pair.key] {
			if isTrigger {
				e.buffer = append(e.buffer, TriggerStayEvent{ObjectA: a, ObjectB: b})
			} else {
				e.buffer = append(e.buffer, CollisionStayEvent{ObjectA: a, ObjectB: b})
			}
		} else {
			if isTrigger {
				e.buffer = append(e.buffer, TriggerEnterEvent{ObjectA: a, ObjectB: b})
			} else {
				e.buffer = append(e.buffer, CollisionEnterEvent{ObjectA: a, ObjectB: b})
			}
		}
	}

	for _, pair := range e.previousOrder {
		// Forgotten pairs are gone from the map but still in the slice
		if e.currentActivePairs[pair.key] || !e.previousActivePairs[pair.key] {
			continue
		}

		if pair.isTrigger() {
			e.buffer = append(e.buffer, TriggerExitEvent{ObjectA: pair.a, ObjectB: pair.b})
		} else {
			e.buffer = append(e.buffer, CollisionExitEvent{ObjectA: pair.a, ObjectB: pair.b})
		}
	}

	// Swap for next tick and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	e.previousOrder, e.currentOrder = e.currentOrder, e.previousOrder[:0]
	clear(e.currentActivePairs)
}

func (e *Events) processPortalEvents(objects []*actor.CollisionObject) {
	for _, object := range objects {
		if object.Body == nil {
			continue
		}

		touching := object.Body.HasFlag(actor.BodyFlagTouchingPortal)
		tracked := e.portalStates[object]

		if !tracked && touching {
			e.buffer = append(e.buffer, PortalEnterEvent{Object: object})
		} else if tracked && !touching {
			e.buffer = append(e.buffer, PortalExitEvent{Object: object})
		}
		e.portalStates[object] = touching
	}
}

// forget drops every state tracked for object, without emitting anything
func (e *Events) forget(object *actor.CollisionObject) {
	delete(e.portalStates, object)
	for pair := range e.previousActivePairs {
		a, b := pair.Objects()
		if a == object || b == object {
			delete(e.previousActivePairs, pair)
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processPairEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
