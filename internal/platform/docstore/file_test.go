package docstore

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "db.json"), zerolog.Nop())
}

func TestFileStore_SeedsOnFirstRead(t *testing.T) {
	store := newTestStore(t)

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Patients) != 3 {
		t.Errorf("expected 3 seed patients, got %d", len(doc.Patients))
	}
	if len(doc.Prescriptions) != 3 {
		t.Errorf("expected 3 seed prescriptions, got %d", len(doc.Prescriptions))
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("expected store file created: %v", err)
	}
}

func TestFileStore_MutatePersists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Mutate(ctx, func(doc *Document) error {
		doc.Symptoms = nil
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Symptoms) != 0 {
		t.Errorf("expected mutation persisted, got %d symptoms", len(doc.Symptoms))
	}
}

func TestFileStore_MutateErrorDiscardsChanges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	before, _ := store.Load(ctx)
	rev := store.Revision()

	_, err := store.Mutate(ctx, func(doc *Document) error {
		doc.Patients = nil
		return os.ErrInvalid
	})
	if err == nil {
		t.Fatal("expected mutation error")
	}

	after, _ := store.Load(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Error("failed mutation must not change the document")
	}
	if store.Revision() != rev {
		t.Error("failed mutation must not bump the revision")
	}
}

func TestFileStore_ResetRestoresSeed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Mutate(ctx, func(doc *Document) error {
		doc.Prescriptions = nil
		doc.LabOrders = nil
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := store.Reset(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(doc, SeedDocument()) {
		t.Error("reset document differs from seed")
	}
}

func TestFileStore_CorruptCollectionTreatedAsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Load(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Break one collection; the rest must survive.
	data := []byte(`{"patients": "not-an-array", "symptoms": [{"id":"sx-9","region":"arm","recordedAt":"2026-01-02T10:00:00Z"}]}`)
	if err := os.WriteFile(store.Path(), data, 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Patients) != 0 {
		t.Errorf("expected corrupt patients collection empty, got %d", len(doc.Patients))
	}
	if len(doc.Symptoms) != 1 || doc.Symptoms[0].ID != "sx-9" {
		t.Errorf("expected intact symptoms preserved, got %+v", doc.Symptoms)
	}
}

func TestFileStore_UnparsableDocumentTreatedAsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Load(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{{{"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Patients) != 0 || len(doc.Prescriptions) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}
}

func TestFileStore_RevisionCountsWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Load(ctx); err != nil { // seed write
		t.Fatalf("seed: %v", err)
	}
	rev := store.Revision()
	if rev == 0 {
		t.Fatal("expected seed write to bump revision")
	}

	if _, err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if store.Revision() != rev+1 {
		t.Errorf("expected revision %d, got %d", rev+1, store.Revision())
	}
}

func TestFileStore_ResetRoundTripsThroughDisk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	seed := SeedDocument()
	if !reflect.DeepEqual(loaded, seed) {
		for i := range seed.Vitals {
			if i < len(loaded.Vitals) && !loaded.Vitals[i].RecordedAt.Equal(seed.Vitals[i].RecordedAt) {
				t.Logf("vitals[%d] recordedAt differs: loaded=%v seed=%v", i,
					loaded.Vitals[i].RecordedAt, seed.Vitals[i].RecordedAt)
			}
		}
		t.Fatal("document loaded from disk differs from seed after reset")
	}
}

func TestSeedDocument_TimestampsAreUTC(t *testing.T) {
	doc := SeedDocument()
	for _, v := range doc.Vitals {
		if v.RecordedAt.Location() != time.UTC {
			t.Fatalf("vital %s recorded in %v, want UTC", v.ID, v.RecordedAt.Location())
		}
	}
	for _, s := range doc.Symptoms {
		if s.RecordedAt.Location() != time.UTC {
			t.Fatalf("symptom %s recorded in %v, want UTC", s.ID, s.RecordedAt.Location())
		}
	}
}

func TestSeedDocument_VitalsAreDeterministic(t *testing.T) {
	a := SeedDocument()
	b := SeedDocument()
	if !reflect.DeepEqual(a, b) {
		t.Error("seed document must be identical across calls")
	}
	if len(a.Vitals) == 0 {
		t.Fatal("expected seed vitals")
	}
	for _, v := range a.Vitals {
		if v.PatientID != "p-alex" {
			t.Errorf("unexpected vitals patient %s", v.PatientID)
		}
	}
}

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := SeedDocument()
	clone := doc.Clone()

	clone.Prescriptions[0].Status = "picked_up"
	clone.Patients[0].Name = "changed"

	if doc.Prescriptions[0].Status == "picked_up" {
		t.Error("clone shares prescription backing array")
	}
	if doc.Patients[0].Name == "changed" {
		t.Error("clone shares patient backing array")
	}
}
