package diagnostics

import (
	"testing"

	"github.com/nexushealth/nexus/internal/model"
)

func TestBuildResults_CBCNormal(t *testing.T) {
	results := BuildResults("Complete Blood Count (CBC)", map[string]string{
		"WBC":        "7.2",
		"Hemoglobin": "14.5",
		"Hematocrit": "42.1",
		"Platelets":  "250",
	})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Flag != model.FlagNormal {
			t.Errorf("expected %s flagged normal, got %q", r.Parameter, r.Flag)
		}
	}
}

func TestBuildResults_LipidPanelHighLDL(t *testing.T) {
	results := BuildResults("Lipid Panel", map[string]string{"LDL": "160"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Flag != model.FlagHigh {
		t.Errorf("expected LDL flagged high, got %q", results[0].Flag)
	}
	if results[0].Unit != "mg/dL" {
		t.Errorf("expected unit mg/dL, got %q", results[0].Unit)
	}
}

func TestBuildResults_MetabolicAliases(t *testing.T) {
	for _, name := range []string{"Comprehensive Metabolic Panel (CMP)", "BMP", "basic metabolic panel"} {
		results := BuildResults(name, map[string]string{"Potassium": "3.0"})
		if len(results) != 1 {
			t.Fatalf("%s: expected 1 result, got %d", name, len(results))
		}
		if results[0].Flag != model.FlagLow {
			t.Errorf("%s: expected potassium flagged low, got %q", name, results[0].Flag)
		}
	}
}

func TestBuildResults_UnknownTestFallsBack(t *testing.T) {
	results := BuildResults("Vitamin D", map[string]string{"Result": "32 ng/mL"})
	if len(results) != 1 {
		t.Fatalf("expected 1 generic result, got %d", len(results))
	}
	r := results[0]
	if r.Parameter != "Result" || r.Unit != "N/A" || r.Range != "N/A" {
		t.Errorf("unexpected generic result: %+v", r)
	}
	if r.Flag != "" {
		t.Errorf("expected no flag on generic result, got %q", r.Flag)
	}
	if r.Value != "32 ng/mL" {
		t.Errorf("expected raw value preserved, got %q", r.Value)
	}
}

func TestBuildResults_NonNumericValueUnflagged(t *testing.T) {
	results := BuildResults("CBC", map[string]string{"WBC": "pending review"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Flag != "" {
		t.Errorf("expected no flag for non-numeric value, got %q", results[0].Flag)
	}
}

func TestBuildResults_BoundaryValuesAreNormal(t *testing.T) {
	results := BuildResults("CBC", map[string]string{"WBC": "4.5", "Platelets": "450"})
	for _, r := range results {
		if r.Flag != model.FlagNormal {
			t.Errorf("expected %s boundary value flagged normal, got %q", r.Parameter, r.Flag)
		}
	}
}

func TestBuildResults_SkipsUnknownParameters(t *testing.T) {
	results := BuildResults("CBC", map[string]string{"WBC": "7.0", "Bogus": "1"})
	if len(results) != 1 {
		t.Fatalf("expected unknown analyte skipped, got %d results", len(results))
	}
}
