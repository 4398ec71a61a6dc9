package clinical

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	store := docstore.NewFileStore(filepath.Join(t.TempDir(), "db.json"), zerolog.Nop())
	svc := NewService(NewSymptomRepoFile(store), NewVitalRepoFile(store))
	return NewHandler(svc), svc
}

func getVitalsHistory(t *testing.T, h *Handler, query string) []model.VitalEntry {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/vitals/history?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.VitalsHistory(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []model.VitalEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return items
}

func TestVitalsHistory_NoLimitReturnsFullSeries(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx := context.Background()

	// Push the series past any default page size.
	for i := 0; i < 10; i++ {
		if _, err := svc.RecordVital(ctx, RecordVitalInput{
			PatientID: "p-alex",
			Type:      model.VitalHeartRate,
			Value:     float64(70 + i),
		}); err != nil {
			t.Fatalf("record vital %d: %v", i, err)
		}
	}
	all, err := svc.ListVitalsByPatient(ctx, "p-alex")
	if err != nil {
		t.Fatalf("list vitals: %v", err)
	}
	if len(all) <= 20 {
		t.Fatalf("fixture too small to distinguish full series from a page, got %d", len(all))
	}

	items := getVitalsHistory(t, h, "patient_id=p-alex")
	if len(items) != len(all) {
		t.Errorf("expected full series of %d entries without limit, got %d", len(all), len(items))
	}
}

func TestVitalsHistory_ExplicitLimit(t *testing.T) {
	h, _ := newTestHandler(t)

	items := getVitalsHistory(t, h, "patient_id=p-alex&limit="+strconv.Itoa(3))
	if len(items) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(items))
	}
	// Most recent first.
	for i := 1; i < len(items); i++ {
		if items[i].RecordedAt.After(items[i-1].RecordedAt) {
			t.Errorf("entries out of order: %v before %v", items[i-1].RecordedAt, items[i].RecordedAt)
		}
	}
}

func TestVitalsHistory_PatientIDRequired(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/vitals/history", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.VitalsHistory(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing patient_id, got %v", err)
	}
}
