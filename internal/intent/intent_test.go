package intent

import "testing"

func TestRoute(t *testing.T) {
	cases := []struct {
		message string
		want    Portal
	}{
		{"I have a bad headache and fever", PortalPatient},
		{"Can you check my blood work results?", PortalLab},
		{"I need a refill on my prescription", PortalPharmacy},
		{"Open the patient encounter chart", PortalDoctor},
		{"hello there", PortalPatient},
		{"", PortalPatient},
	}
	for _, tc := range cases {
		if got := Route(tc.message); got != tc.want {
			t.Errorf("Route(%q) = %s, want %s", tc.message, got, tc.want)
		}
	}
}

func TestRoute_CaseInsensitive(t *testing.T) {
	if got := Route("CHEST PAIN after running"); got != PortalPatient {
		t.Errorf("expected patient portal for uppercase symptom, got %s", got)
	}
	if got := Route("Schedule a LAB Test"); got != PortalLab {
		t.Errorf("expected lab portal, got %s", got)
	}
}

func TestRoute_SymptomPriorityOverLab(t *testing.T) {
	// Mentions both a symptom and lab results; symptom wins.
	if got := Route("my headache came back after the lab results"); got != PortalPatient {
		t.Errorf("expected symptom priority to route to patient, got %s", got)
	}
}

func TestRoute_LabPriorityOverPharmacy(t *testing.T) {
	if got := Route("test results for my medication levels"); got != PortalLab {
		t.Errorf("expected lab priority over pharmacy, got %s", got)
	}
}

func TestPortalPath(t *testing.T) {
	cases := map[Portal]string{
		PortalPatient:  "/demos/patient",
		PortalLab:      "/demos/lab",
		PortalPharmacy: "/demos/pharmacy",
		PortalDoctor:   "/demos/ehr",
	}
	for portal, want := range cases {
		if got := portal.Path(); got != want {
			t.Errorf("%s.Path() = %s, want %s", portal, got, want)
		}
	}
}
