// Package notification implements the in-process hub that fans slot events
// out to everyone viewing an expert. Rooms are keyed by expert identity, not
// user identity; subscriptions are ephemeral and never persisted.
package notification

import (
	"sync"

	"meetio/models"
	"meetio/utils"

	"go.uber.org/zap"
)

// subscriberBuffer bounds each subscriber's pending events. Delivery is
// best-effort, at-most-once: when the buffer is full the event is dropped
// and the client reconciles on its next full fetch.
const subscriberBuffer = 16

// Subscriber is one connected client's receive side.
type Subscriber struct {
	ID     string
	events chan models.SlotEvent
}

// NewSubscriber constructs a subscriber with the given connection ID.
func NewSubscriber(id string) *Subscriber {
	return &Subscriber{
		ID:     id,
		events: make(chan models.SlotEvent, subscriberBuffer),
	}
}

// Events returns the channel slot events are delivered on.
func (s *Subscriber) Events() <-chan models.SlotEvent {
	return s.events
}

// Hub tracks which subscribers are in which expert room and broadcasts slot
// transitions to them. The registry is guarded by its own mutex; no
// cross-connection coordination is needed.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe adds a subscriber to an expert's room.
func (h *Hub) Subscribe(sub *Subscriber, expertID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[expertID]
	if !ok {
		room = make(map[*Subscriber]struct{})
		h.rooms[expertID] = room
	}
	room[sub] = struct{}{}
}

// Unsubscribe removes a subscriber from an expert's room. Empty rooms are
// deleted so the registry does not grow with expert churn.
func (h *Hub) Unsubscribe(sub *Subscriber, expertID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[expertID]
	if !ok {
		return
	}
	delete(room, sub)
	if len(room) == 0 {
		delete(h.rooms, expertID)
	}
}

// UnsubscribeAll removes a subscriber from every room it joined, used when
// a connection closes.
func (h *Hub) UnsubscribeAll(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for expertID, room := range h.rooms {
		delete(room, sub)
		if len(room) == 0 {
			delete(h.rooms, expertID)
		}
	}
}

// Broadcast delivers an event to every subscriber of the expert's room.
// Sends never block: a subscriber that cannot keep up loses the event.
func (h *Hub) Broadcast(expertID string, event models.SlotEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[expertID] {
		select {
		case sub.events <- event:
		default:
			utils.GetLogger().Debug("dropping slot event for slow subscriber",
				zap.String("subscriberId", sub.ID),
				zap.String("expertId", expertID),
			)
		}
	}
}

// RoomSize reports how many subscribers an expert's room currently has.
func (h *Hub) RoomSize(expertID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[expertID])
}
