package sse

import (
	"sync"
)

// Event is pushed to the subscribers of one company
type Event struct {
	CompanyID string
	WorkerID  string
	Event     string
	Data      interface{}
}

type subscriber struct {
	ch     chan Event
	accept func(Event) bool
}

// Hub manages SSE subscribers and event broadcasting
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers a subscriber for a company and returns the event channel
// and a cleanup function. A nil accept receives every event of the company.
func (h *Hub) Subscribe(companyID string, accept func(Event) bool) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, 10), accept: accept}

	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[*subscriber]struct{})
	}
	h.subscribers[companyID][sub] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[companyID], sub)
			close(sub.ch)
			if len(h.subscribers[companyID]) == 0 {
				delete(h.subscribers, companyID)
			}
		})
	}

	return sub.ch, cleanup
}

// Publish sends an event to the subscribers of event.CompanyID
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers[event.CompanyID] {
		if sub.accept != nil && !sub.accept(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Slow subscriber, drop rather than block the publisher
		}
	}
}

// SubscriberCount returns the number of active subscribers for a company
func (h *Hub) SubscriberCount(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[companyID])
}
