package diagnostics

import (
	"strconv"
	"strings"

	"github.com/nexushealth/nexus/internal/model"
)

// referenceRange is one analyte of a test panel. Values outside
// [Low, High] flag high or low; inside flags normal.
type referenceRange struct {
	Parameter string
	Low       float64
	High      float64
	Unit      string
}

func (r referenceRange) rangeText() string {
	return formatBound(r.Low) + "-" + formatBound(r.High)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type panel struct {
	keywords []string
	ranges   []referenceRange
}

var cbcRanges = []referenceRange{
	{Parameter: "WBC", Low: 4.5, High: 11.0, Unit: "x10^3/uL"},
	{Parameter: "Hemoglobin", Low: 13.5, High: 17.5, Unit: "g/dL"},
	{Parameter: "Hematocrit", Low: 38.8, High: 50.0, Unit: "%"},
	{Parameter: "Platelets", Low: 150, High: 450, Unit: "x10^3/uL"},
}

var metabolicRanges = []referenceRange{
	{Parameter: "Glucose", Low: 70, High: 99, Unit: "mg/dL"},
	{Parameter: "Sodium", Low: 136, High: 145, Unit: "mEq/L"},
	{Parameter: "Potassium", Low: 3.5, High: 5.0, Unit: "mEq/L"},
	{Parameter: "BUN", Low: 7, High: 20, Unit: "mg/dL"},
	{Parameter: "Creatinine", Low: 0.7, High: 1.3, Unit: "mg/dL"},
	{Parameter: "Calcium", Low: 8.5, High: 10.5, Unit: "mg/dL"},
}

var lipidRanges = []referenceRange{
	{Parameter: "Total Cholesterol", Low: 0, High: 199, Unit: "mg/dL"},
	{Parameter: "HDL", Low: 40, High: 60, Unit: "mg/dL"},
	{Parameter: "LDL", Low: 0, High: 99, Unit: "mg/dL"},
	{Parameter: "Triglycerides", Low: 0, High: 149, Unit: "mg/dL"},
}

// panels maps known lab tests to their reference ranges. The order
// matters: the first panel whose keyword matches the test name wins.
var panels = []panel{
	{keywords: []string{"cbc", "complete blood count"}, ranges: cbcRanges},
	{keywords: []string{"cmp", "comprehensive metabolic"}, ranges: metabolicRanges},
	{keywords: []string{"bmp", "basic metabolic"}, ranges: metabolicRanges},
	{keywords: []string{"lipid"}, ranges: lipidRanges},
}

func findPanel(testName string) (panel, bool) {
	name := strings.ToLower(testName)
	for _, p := range panels {
		for _, kw := range p.keywords {
			if strings.Contains(name, kw) {
				return p, true
			}
		}
	}
	return panel{}, false
}

// BuildResults maps raw analyte values onto the reference panel for the
// named test, flagging each one high, low or normal. Unknown tests get
// a single unflagged generic result; non-numeric values go unflagged.
func BuildResults(testName string, values map[string]string) []model.LabResult {
	p, ok := findPanel(testName)
	if !ok {
		value := values["Result"]
		if value == "" {
			for _, v := range values {
				value = v
				break
			}
		}
		return []model.LabResult{{
			Parameter: "Result",
			Value:     value,
			Unit:      "N/A",
			Range:     "N/A",
		}}
	}

	results := make([]model.LabResult, 0, len(p.ranges))
	for _, rr := range p.ranges {
		raw, ok := values[rr.Parameter]
		if !ok {
			continue
		}
		results = append(results, model.LabResult{
			Parameter: rr.Parameter,
			Value:     raw,
			Unit:      rr.Unit,
			Range:     rr.rangeText(),
			Flag:      flagFor(raw, rr),
		})
	}
	return results
}

func flagFor(raw string, rr referenceRange) model.LabResultFlag {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return ""
	}
	switch {
	case v < rr.Low:
		return model.FlagLow
	case v > rr.High:
		return model.FlagHigh
	}
	return model.FlagNormal
}
