// Package model holds the shared clinical entities persisted by every
// storage driver. All timestamp fields use the At suffix and serialize
// as RFC 3339 strings.
package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when the target record does
// not exist. Callers must check for it before assuming success.
var ErrNotFound = errors.New("record not found")

// ErrInvalidInput wraps validation and transition failures so handlers
// can map them to a client error instead of a server fault.
var ErrInvalidInput = errors.New("invalid input")

// Patient is a seed-only entity; it is never mutated or deleted.
type Patient struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type PrescriptionStatus string

const (
	PrescriptionPending        PrescriptionStatus = "pending"
	PrescriptionReadyForPickup PrescriptionStatus = "ready_for_pickup"
	PrescriptionPickedUp       PrescriptionStatus = "picked_up"
)

var prescriptionRank = map[PrescriptionStatus]int{
	PrescriptionPending:        0,
	PrescriptionReadyForPickup: 1,
	PrescriptionPickedUp:       2,
}

// ValidPrescriptionStatus reports whether s is a known status value.
func ValidPrescriptionStatus(s PrescriptionStatus) bool {
	_, ok := prescriptionRank[s]
	return ok
}

// CanTransition reports whether a prescription may move from one
// status to another. The sequence only advances forward; setting the
// current status again is a no-op and allowed.
func (s PrescriptionStatus) CanTransition(to PrescriptionStatus) bool {
	from, okFrom := prescriptionRank[s]
	next, okTo := prescriptionRank[to]
	return okFrom && okTo && next >= from
}

type Prescription struct {
	ID             string             `json:"id"`
	PatientID      string             `json:"patientId"`
	MedicationName string             `json:"medicationName"`
	Dosage         string             `json:"dosage"`
	Instructions   string             `json:"instructions"`
	Status         PrescriptionStatus `json:"status"`
	PrescribedAt   time.Time          `json:"prescribedAt"`
	FilledAt       *time.Time         `json:"filledAt,omitempty"`
}

type LabOrderStatus string

const (
	LabOrderOrdered    LabOrderStatus = "ordered"
	LabOrderProcessing LabOrderStatus = "processing"
	LabOrderCompleted  LabOrderStatus = "completed"
	// LabOrderCancelled is a declared status value with no transition
	// into it; orders are never cancelled in this workflow.
	LabOrderCancelled LabOrderStatus = "cancelled"
)

var labOrderRank = map[LabOrderStatus]int{
	LabOrderOrdered:    0,
	LabOrderProcessing: 1,
	LabOrderCompleted:  2,
}

// CanTransition reports whether a lab order may move from one status
// to another. Completion carries results and must go through the
// completion operation; plain updates may only advance up to
// processing.
func (s LabOrderStatus) CanTransition(to LabOrderStatus) bool {
	from, okFrom := labOrderRank[s]
	next, okTo := labOrderRank[to]
	return okFrom && okTo && next >= from
}

type LabResultFlag string

const (
	FlagHigh   LabResultFlag = "high"
	FlagLow    LabResultFlag = "low"
	FlagNormal LabResultFlag = "normal"
)

// LabResult is embedded in a LabOrder; it is not a top-level entity.
// Value stays a string so qualitative results ("Positive") survive.
type LabResult struct {
	Parameter string        `json:"parameter"`
	Value     string        `json:"value"`
	Unit      string        `json:"unit"`
	Range     string        `json:"range"`
	Flag      LabResultFlag `json:"flag,omitempty"`
}

type LabOrder struct {
	ID          string         `json:"id"`
	PatientID   string         `json:"patientId"`
	TestName    string         `json:"testName"`
	Status      LabOrderStatus `json:"status"`
	OrderedAt   time.Time      `json:"orderedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Results     []LabResult    `json:"results,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

type SymptomSeverity string

const (
	SeverityMild     SymptomSeverity = "mild"
	SeverityModerate SymptomSeverity = "moderate"
	SeveritySevere   SymptomSeverity = "severe"
)

// ValidSeverity reports whether s is a known severity; empty is
// allowed because severity is optional.
func ValidSeverity(s SymptomSeverity) bool {
	switch s {
	case "", SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Symptom is hard-deleted on resolution, not archived.
type Symptom struct {
	ID          string          `json:"id"`
	Region      string          `json:"region"`
	Description string          `json:"description"`
	Severity    SymptomSeverity `json:"severity,omitempty"`
	RecordedAt  time.Time       `json:"recordedAt"`
}

type VitalType string

const (
	VitalHeartRate     VitalType = "heart_rate"
	VitalBloodPressure VitalType = "blood_pressure"
	VitalTemperature   VitalType = "temperature"
	VitalOxygenSat     VitalType = "oxygen_sat"
)

// ValidVitalType reports whether t is a known vital type.
func ValidVitalType(t VitalType) bool {
	switch t {
	case VitalHeartRate, VitalBloodPressure, VitalTemperature, VitalOxygenSat:
		return true
	}
	return false
}

// VitalEntry is append-only; entries are never mutated. Value holds
// the normalized numeric reading; Meta keeps the original format when
// one value is not enough (e.g. "120/80" where Value is the systolic).
type VitalEntry struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patientId"`
	Type       VitalType `json:"type"`
	Value      float64   `json:"value"`
	Meta       string    `json:"meta,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}
