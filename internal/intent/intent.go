// Package intent routes a free-text message to the portal best suited
// to handle it.
package intent

import "strings"

// Portal identifies one of the four role portals.
type Portal string

const (
	PortalPatient  Portal = "patient"
	PortalLab      Portal = "lab"
	PortalPharmacy Portal = "pharmacy"
	PortalDoctor   Portal = "doctor"
)

// Path returns the portal's view path.
func (p Portal) Path() string {
	switch p {
	case PortalLab:
		return "/demos/lab"
	case PortalPharmacy:
		return "/demos/pharmacy"
	case PortalDoctor:
		return "/demos/ehr"
	}
	return "/demos/patient"
}

// Keyword lists per concern. Symptom talk routes to the patient portal,
// where symptoms are recorded.
var (
	symptomKeywords = []string{
		"headache", "pain", "fever", "nausea", "dizzy", "cough", "cold",
		"flu", "sick", "hurt", "ache", "sore", "bleeding", "injury",
		"vomit", "rash", "swelling", "fatigue", "tired", "weak",
		"chest pain", "stomach", "migraine",
	}
	labKeywords = []string{
		"lab", "test", "blood work", "specimen", "results", "analysis",
	}
	pharmacyKeywords = []string{
		"prescription", "medication", "pharmacy", "refill", "drug",
	}
	doctorKeywords = []string{
		"doctor", "physician", "clinical", "ehr", "patient encounter", "chart",
	}
)

// Route picks the portal for a message by case-insensitive substring
// matching, in priority order symptom, lab, pharmacy, doctor. Messages
// matching nothing go to the patient portal. Pure and total.
func Route(message string) Portal {
	msg := strings.ToLower(message)

	if matchesAny(msg, symptomKeywords) {
		return PortalPatient
	}
	if matchesAny(msg, labKeywords) {
		return PortalLab
	}
	if matchesAny(msg, pharmacyKeywords) {
		return PortalPharmacy
	}
	if matchesAny(msg, doctorKeywords) {
		return PortalDoctor
	}
	return PortalPatient
}

func matchesAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
