package docstore

import (
	"strconv"
	"time"

	"github.com/nexushealth/nexus/internal/model"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic("docstore: bad seed timestamp " + s)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

// SeedDocument builds the demo dataset the store is initialized and
// reset to. Vitals are generated deterministically for the past seven
// days so a reset always yields the same document within a given day.
func SeedDocument() *Document {
	return &Document{
		Patients: []model.Patient{
			{ID: "p-alex", Name: "Alex Morgan", Age: 42, Gender: "Female"},
			{ID: "p-john", Name: "John Doe", Age: 35, Gender: "Male"},
			{ID: "p-sarah", Name: "Sarah Chen", Age: 58, Gender: "Female"},
		},
		Prescriptions: []model.Prescription{
			{
				ID:             "rx-001",
				PatientID:      "p-alex",
				MedicationName: "Lisinopril",
				Dosage:         "10mg",
				Instructions:   "Take 1 tablet daily in the morning with water",
				Status:         model.PrescriptionReadyForPickup,
				PrescribedAt:   ts("2026-02-01T10:00:00Z"),
				FilledAt:       tsp("2026-02-03T14:30:00Z"),
			},
			{
				ID:             "rx-002",
				PatientID:      "p-alex",
				MedicationName: "Metformin",
				Dosage:         "500mg",
				Instructions:   "Take 1 tablet twice daily with meals",
				Status:         model.PrescriptionPending,
				PrescribedAt:   ts("2026-02-05T09:15:00Z"),
			},
			{
				ID:             "rx-003",
				PatientID:      "p-john",
				MedicationName: "Amoxicillin",
				Dosage:         "500mg",
				Instructions:   "Take 1 capsule 3 times daily for 7 days",
				Status:         model.PrescriptionReadyForPickup,
				PrescribedAt:   ts("2026-02-04T11:20:00Z"),
				FilledAt:       tsp("2026-02-05T16:00:00Z"),
			},
		},
		LabOrders: []model.LabOrder{
			{
				ID:          "lab-001",
				PatientID:   "p-alex",
				TestName:    "Comprehensive Metabolic Panel (CMP)",
				Status:      model.LabOrderCompleted,
				OrderedAt:   ts("2026-01-28T08:00:00Z"),
				CompletedAt: tsp("2026-01-29T14:30:00Z"),
				Results: []model.LabResult{
					{Parameter: "Glucose", Value: "92", Unit: "mg/dL", Range: "70-99", Flag: model.FlagNormal},
					{Parameter: "Sodium", Value: "140", Unit: "mEq/L", Range: "136-145", Flag: model.FlagNormal},
					{Parameter: "Potassium", Value: "4.2", Unit: "mEq/L", Range: "3.5-5.0", Flag: model.FlagNormal},
					{Parameter: "Calcium", Value: "9.8", Unit: "mg/dL", Range: "8.5-10.5", Flag: model.FlagNormal},
				},
				Notes: "Fasting sample collected",
			},
			{
				ID:        "lab-002",
				PatientID: "p-alex",
				TestName:  "Lipid Panel",
				Status:    model.LabOrderProcessing,
				OrderedAt: ts("2026-02-06T09:30:00Z"),
				Notes:     "Patient fasted for 12 hours",
			},
			{
				ID:        "lab-003",
				PatientID: "p-john",
				TestName:  "Complete Blood Count (CBC)",
				Status:    model.LabOrderOrdered,
				OrderedAt: ts("2026-02-07T10:00:00Z"),
			},
		},
		Symptoms: []model.Symptom{
			{
				ID:          "sx-001",
				Region:      "head",
				Description: "Mild headache, pressure behind eyes",
				Severity:    model.SeverityMild,
				RecordedAt:  ts("2026-02-07T18:30:00Z"),
			},
		},
		Vitals: seedVitals(),
	}
}

// seedVitals produces a week of morning readings for the demo patient:
// blood pressure trending slightly down, a steady heart rate and an
// oxygen saturation reading every other day.
func seedVitals() []model.VitalEntry {
	var vitals []model.VitalEntry
	now := time.Now().UTC()

	for i := 6; i >= 0; i-- {
		// UTC like every other timestamp in the store, so reset output
		// round-trips the JSON encoding exactly.
		day := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, time.UTC).
			AddDate(0, 0, -i)

		systolic := 125 - i*2
		diastolic := 80 - i
		vitals = append(vitals, model.VitalEntry{
			ID:         "v-bp-" + day.Format("20060102"),
			PatientID:  "p-alex",
			Type:       model.VitalBloodPressure,
			Value:      float64(systolic),
			Meta:       strconv.Itoa(systolic) + "/" + strconv.Itoa(diastolic),
			RecordedAt: day,
		})

		vitals = append(vitals, model.VitalEntry{
			ID:         "v-hr-" + day.Format("20060102"),
			PatientID:  "p-alex",
			Type:       model.VitalHeartRate,
			Value:      float64(72 + (i*5)%8),
			RecordedAt: day,
		})

		if i%2 == 0 {
			vitals = append(vitals, model.VitalEntry{
				ID:         "v-o2-" + day.Format("20060102"),
				PatientID:  "p-alex",
				Type:       model.VitalOxygenSat,
				Value:      float64(97 + i%3),
				RecordedAt: day,
			})
		}
	}
	return vitals
}
