package events

import (
	"testing"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
)

func TestSubscriberReceivesOwnTenantEvents(t *testing.T) {
	hub := NewHub(nil)
	ch, cancel := hub.Subscribe("tenant-a")
	defer cancel()

	hub.NotifyStageChange("tenant-a", "app-1", domain.StageNew, domain.StageScreened)

	select {
	case ev := <-ch:
		if ev.ApplicationID != "app-1" || ev.From != "NEW" || ev.To != "SCREENED" {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscriberDoesNotReceiveOtherTenantEvents(t *testing.T) {
	hub := NewHub(nil)
	ch, cancel := hub.Subscribe("tenant-a")
	defer cancel()

	hub.NotifyStageChange("tenant-b", "app-1", domain.StageNew, domain.StageScreened)

	select {
	case ev := <-ch:
		t.Errorf("received cross-tenant event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub(nil)
	_, cancel := hub.Subscribe("tenant-a")
	if hub.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", hub.SubscriberCount())
	}
	cancel()
	if hub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount after cancel = %d, want 0", hub.SubscriberCount())
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(nil)
	_, cancel := hub.Subscribe("tenant-a")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+5; i++ {
			hub.NotifyStageChange("tenant-a", "app-1", domain.StageNew, domain.StageScreened)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}
}
