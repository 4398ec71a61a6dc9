package events

import (
	"testing"
	"time"

	"github.com/nexushealth/nexus/internal/platform/docstore"
)

func TestBus_DeliversToMatchingSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(docstore.CollectionPrescriptions)
	defer sub.Close()

	bus.Publish(Event{Type: TypeChanged, Collection: docstore.CollectionPrescriptions, ResourceID: "rx-1"})

	select {
	case e := <-sub.C:
		if e.ResourceID != "rx-1" {
			t.Errorf("unexpected event %+v", e)
		}
		if e.Timestamp.IsZero() {
			t.Error("expected publish to stamp the timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestBus_FiltersOtherCollections(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(docstore.CollectionSymptoms)
	defer sub.Close()

	bus.Publish(Event{Type: TypeChanged, Collection: docstore.CollectionVitals})

	select {
	case e := <-sub.C:
		t.Errorf("unexpected delivery %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_ResetReachesFilteredSubscribers(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(docstore.CollectionSymptoms)
	defer sub.Close()

	bus.Publish(Event{Type: TypeReset})

	select {
	case e := <-sub.C:
		if e.Type != TypeReset {
			t.Errorf("unexpected event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("reset never delivered")
	}
}

func TestBus_DocumentWideEventReachesAll(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(docstore.CollectionLabOrders)
	defer sub.Close()

	// No collection set: an external writer changed the whole file.
	bus.Publish(Event{Type: TypeChanged, Views: AllViews})

	select {
	case <-sub.C:
	case <-time.After(time.Second):
		t.Fatal("document-wide event never delivered")
	}
}

func TestBus_CloseDetaches(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	sub.Close()
	sub.Close() // idempotent

	if bus.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.SubscriberCount())
	}
}

func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	for i := 0; i < 40; i++ {
		bus.Publish(Event{Type: TypeChanged, Collection: docstore.CollectionVitals})
	}
	// Channel holds 16; the rest were dropped without blocking.
	if n := len(sub.C); n != cap(sub.C) {
		t.Errorf("expected full channel of %d, got %d", cap(sub.C), n)
	}
}

func TestInvalidator_ViewsPerCollection(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	inv := NewInvalidator(bus)
	inv.Invalidate(docstore.CollectionLabOrders, "lab-9")

	e := <-sub.C
	if e.Type != TypeChanged || e.ResourceID != "lab-9" {
		t.Fatalf("unexpected event %+v", e)
	}
	want := map[string]bool{ViewPatient: true, ViewLab: true}
	if len(e.Views) != len(want) {
		t.Fatalf("unexpected views %v", e.Views)
	}
	for _, v := range e.Views {
		if !want[v] {
			t.Errorf("unexpected view %s", v)
		}
	}
}

func TestInvalidator_InvalidateAll(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	NewInvalidator(bus).InvalidateAll()

	e := <-sub.C
	if e.Type != TypeReset || len(e.Views) != len(AllViews) {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestInvalidator_NilSafe(t *testing.T) {
	var inv *Invalidator
	inv.Invalidate(docstore.CollectionSymptoms, "sx-1")
	inv.InvalidateAll()
}
