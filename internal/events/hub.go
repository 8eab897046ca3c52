// Package events fans stage transitions out to dashboard websocket clients.
// Delivery is best-effort: a slow subscriber drops events rather than
// blocking the request that moved the application.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
)

// StageEvent is one pipeline transition as sent to subscribers.
type StageEvent struct {
	ApplicationID string    `json:"applicationId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	At            time.Time `json:"at"`
}

const subscriberBuffer = 16

type subscriber struct {
	tenantID string
	ch       chan StageEvent
}

// Hub routes stage events to subscribers of the same tenant.
type Hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	logger *slog.Logger
}

// NewHub creates a hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: make(map[*subscriber]struct{}), logger: logger}
}

// NotifyStageChange publishes a transition to the tenant's subscribers.
// Satisfies the application service's notifier interface.
func (h *Hub) NotifyStageChange(tenantID, applicationID string, from, to domain.Stage) {
	event := StageEvent{
		ApplicationID: applicationID,
		From:          string(from),
		To:            string(to),
		At:            time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.tenantID != tenantID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("dropping stage event for slow subscriber",
				slog.String("tenant_id", tenantID),
				slog.String("application_id", applicationID),
			)
		}
	}
}

// Subscribe registers a subscriber for one tenant's events. The returned
// cancel func must be called when the client disconnects.
func (h *Hub) Subscribe(tenantID string) (<-chan StageEvent, func()) {
	sub := &subscriber{tenantID: tenantID, ch: make(chan StageEvent, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// SubscriberCount reports current subscribers, used by tests and debugging.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
