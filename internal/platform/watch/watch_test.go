package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/platform/docstore"
	"github.com/nexushealth/nexus/internal/platform/events"
)

func TestWatcher_ExternalWritePublishes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	store := docstore.NewFileStore(path, zerolog.Nop())
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	bus := events.NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	w, err := New(store, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Close()

	// Simulate another process replacing the file.
	if err := os.WriteFile(path, []byte(`{"patients":[]}`), 0o644); err != nil {
		t.Fatalf("external write: %v", err)
	}

	select {
	case e := <-sub.C:
		if e.Type != events.TypeChanged {
			t.Errorf("expected %s event, got %s", events.TypeChanged, e.Type)
		}
		if e.Collection != "" {
			t.Errorf("expected document-wide event, got collection %q", e.Collection)
		}
		if len(e.Views) != len(events.AllViews) {
			t.Errorf("expected all views invalidated, got %v", e.Views)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("external write never produced an event")
	}
}

func TestWatcher_OwnWriteSuppressed(t *testing.T) {
	dir := t.TempDir()
	store := docstore.NewFileStore(filepath.Join(dir, "db.json"), zerolog.Nop())
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	bus := events.NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	w, err := New(store, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Close()

	// A write through the store bumps the revision; the watcher must
	// not re-announce it.
	if _, err := store.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	select {
	case e := <-sub.C:
		t.Errorf("own write should not be published by the watcher, got %+v", e)
	case <-time.After(300 * time.Millisecond):
	}
}
