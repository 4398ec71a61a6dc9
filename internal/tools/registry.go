// Package tools exposes the clinical actions as named, schema-described
// functions for an external AI orchestration layer to invoke.
package tools

import (
	"context"
	"fmt"

	"github.com/nexushealth/nexus/internal/domain/clinical"
	"github.com/nexushealth/nexus/internal/domain/diagnostics"
	"github.com/nexushealth/nexus/internal/domain/medication"
	"github.com/nexushealth/nexus/internal/facade"
	"github.com/nexushealth/nexus/internal/intent"
	"github.com/nexushealth/nexus/internal/model"
)

// ErrUnknownTool is returned when no tool is registered under a name.
var ErrUnknownTool = fmt.Errorf("unknown tool")

// Schema is a JSON-schema-shaped descriptor of a tool's input or
// output. It is documentation for the orchestrator, not validated.
type Schema map[string]interface{}

func objectSchema(props Schema, required ...string) Schema {
	s := Schema{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func arraySchema(description string) Schema {
	return Schema{"type": "array", "description": description}
}

// Tool is a named function over the action facade. Invocations are
// pure input to output; all state lives behind the facade.
type Tool struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	InputSchema  Schema `json:"inputSchema"`
	OutputSchema Schema `json:"outputSchema"`

	invoke func(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

type Registry struct {
	tools map[string]*Tool
	order []string
}

func (r *Registry) register(t *Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// List returns the registered tools in registration order.
func (r *Registry) List() []*Tool {
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Invoke runs the named tool with the given arguments.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.invoke(ctx, args)
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func requireString(args map[string]interface{}, key string) (string, error) {
	v := stringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", model.ErrInvalidInput, key)
	}
	return v, nil
}

func floatArg(args map[string]interface{}, key string) float64 {
	v, _ := args[key].(float64)
	return v
}

func intArg(args map[string]interface{}, key string) int {
	return int(floatArg(args, key))
}

// NewRegistry wires every tool against the facade. Tools that operate
// on a patient's data take an explicit patientId argument; there is no
// implicit default patient.
func NewRegistry(f *facade.Facade) *Registry {
	r := &Registry{tools: make(map[string]*Tool)}

	r.register(&Tool{
		Name:        "getMyPrescriptions",
		Description: "List a patient's prescriptions, newest first.",
		InputSchema: objectSchema(Schema{
			"patientId": Schema{"type": "string"},
		}, "patientId"),
		OutputSchema: arraySchema("Prescription records"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			patientID, err := requireString(args, "patientId")
			if err != nil {
				return nil, err
			}
			return f.GetPatientPrescriptions(ctx, patientID)
		},
	})

	r.register(&Tool{
		Name:        "updatePrescriptionStatus",
		Description: "Advance a prescription to ready_for_pickup or picked_up.",
		InputSchema: objectSchema(Schema{
			"id":     Schema{"type": "string"},
			"status": Schema{"type": "string", "enum": []string{"pending", "ready_for_pickup", "picked_up"}},
		}, "id", "status"),
		OutputSchema: objectSchema(Schema{"prescription": Schema{"type": "object"}}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			id, err := requireString(args, "id")
			if err != nil {
				return nil, err
			}
			status, err := requireString(args, "status")
			if err != nil {
				return nil, err
			}
			return f.UpdatePrescriptionStatus(ctx, id, model.PrescriptionStatus(status))
		},
	})

	r.register(&Tool{
		Name:        "addPrescription",
		Description: "Prescribe a medication for a patient.",
		InputSchema: objectSchema(Schema{
			"patientId":      Schema{"type": "string"},
			"medicationName": Schema{"type": "string"},
			"dosage":         Schema{"type": "string"},
			"instructions":   Schema{"type": "string"},
		}, "patientId", "medicationName"),
		OutputSchema: objectSchema(Schema{"prescription": Schema{"type": "object"}}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return f.AddPrescription(ctx, medication.CreatePrescriptionInput{
				PatientID:      stringArg(args, "patientId"),
				MedicationName: stringArg(args, "medicationName"),
				Dosage:         stringArg(args, "dosage"),
				Instructions:   stringArg(args, "instructions"),
			})
		},
	})

	r.register(&Tool{
		Name:        "getMyLabResults",
		Description: "List a patient's lab orders with any completed results.",
		InputSchema: objectSchema(Schema{
			"patientId": Schema{"type": "string"},
		}, "patientId"),
		OutputSchema: arraySchema("Lab order records"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			patientID, err := requireString(args, "patientId")
			if err != nil {
				return nil, err
			}
			return f.GetPatientLabOrders(ctx, patientID)
		},
	})

	r.register(&Tool{
		Name:        "listPendingOrders",
		Description: "List lab orders that are not yet completed.",
		InputSchema: objectSchema(Schema{}),
		OutputSchema: arraySchema("Lab order records awaiting processing or results"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			orders, err := f.GetLabOrders(ctx)
			if err != nil {
				return nil, err
			}
			pending := make([]model.LabOrder, 0, len(orders))
			for _, o := range orders {
				if o.Status != model.LabOrderCompleted {
					pending = append(pending, o)
				}
			}
			return pending, nil
		},
	})

	r.register(&Tool{
		Name:        "orderLabTest",
		Description: "Order a lab test for a patient.",
		InputSchema: objectSchema(Schema{
			"patientId": Schema{"type": "string"},
			"testName":  Schema{"type": "string"},
		}, "patientId", "testName"),
		OutputSchema: objectSchema(Schema{"labOrder": Schema{"type": "object"}}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return f.AddLabOrder(ctx, diagnostics.CreateLabOrderInput{
				PatientID: stringArg(args, "patientId"),
				TestName:  stringArg(args, "testName"),
			})
		},
	})

	r.register(&Tool{
		Name:        "completeLabOrder",
		Description: "Record results for a lab order and mark it completed. Values map analyte names to raw readings.",
		InputSchema: objectSchema(Schema{
			"id":     Schema{"type": "string"},
			"values": Schema{"type": "object", "additionalProperties": Schema{"type": "string"}},
		}, "id"),
		OutputSchema: objectSchema(Schema{"labOrder": Schema{"type": "object"}}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			id, err := requireString(args, "id")
			if err != nil {
				return nil, err
			}
			values := make(map[string]string)
			if raw, ok := args["values"].(map[string]interface{}); ok {
				for k, v := range raw {
					if s, ok := v.(string); ok {
						values[k] = s
					} else {
						values[k] = fmt.Sprint(v)
					}
				}
			}
			return f.CompleteLabOrder(ctx, id, values)
		},
	})

	r.register(&Tool{
		Name:        "getMySymptoms",
		Description: "List recorded symptoms plus the body regions to highlight.",
		InputSchema: objectSchema(Schema{}),
		OutputSchema: objectSchema(Schema{
			"symptoms":           arraySchema("Symptom records"),
			"highlightedRegions": arraySchema("Body regions with active symptoms"),
		}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			symptoms, err := f.GetSymptoms(ctx)
			if err != nil {
				return nil, err
			}
			regions := make([]string, 0, len(symptoms))
			seen := make(map[string]bool)
			for _, s := range symptoms {
				if !seen[s.Region] {
					seen[s.Region] = true
					regions = append(regions, s.Region)
				}
			}
			return map[string]interface{}{
				"symptoms":           symptoms,
				"highlightedRegions": regions,
			}, nil
		},
	})

	r.register(&Tool{
		Name:        "recordSymptom",
		Description: "Record a symptom on a body region.",
		InputSchema: objectSchema(Schema{
			"region":      Schema{"type": "string"},
			"description": Schema{"type": "string"},
			"severity":    Schema{"type": "string", "enum": []string{"mild", "moderate", "severe"}},
		}, "region"),
		OutputSchema: objectSchema(Schema{"symptom": Schema{"type": "object"}}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return f.AddSymptom(ctx, clinical.RecordSymptomInput{
				Region:      stringArg(args, "region"),
				Description: stringArg(args, "description"),
				Severity:    model.SymptomSeverity(stringArg(args, "severity")),
			})
		},
	})

	r.register(&Tool{
		Name:        "resolveSymptom",
		Description: "Remove a symptom once it has cleared up.",
		InputSchema: objectSchema(Schema{
			"id": Schema{"type": "string"},
		}, "id"),
		OutputSchema: objectSchema(Schema{"resolved": Schema{"type": "boolean"}}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			id, err := requireString(args, "id")
			if err != nil {
				return nil, err
			}
			resolved, err := f.ResolveSymptom(ctx, id)
			if err != nil {
				return nil, err
			}
			return map[string]bool{"resolved": resolved}, nil
		},
	})

	r.register(&Tool{
		Name:        "recordVital",
		Description: "Record a vital sign reading for a patient.",
		InputSchema: objectSchema(Schema{
			"patientId": Schema{"type": "string"},
			"type":      Schema{"type": "string", "enum": []string{"heart_rate", "blood_pressure", "temperature", "oxygen_sat"}},
			"value":     Schema{"type": "number"},
			"meta":      Schema{"type": "string", "description": "Original reading format, e.g. 120/80"},
		}, "patientId", "type", "value"),
		OutputSchema: objectSchema(Schema{"vital": Schema{"type": "object"}}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return f.AddVital(ctx, clinical.RecordVitalInput{
				PatientID: stringArg(args, "patientId"),
				Type:      model.VitalType(stringArg(args, "type")),
				Value:     floatArg(args, "value"),
				Meta:      stringArg(args, "meta"),
			})
		},
	})

	r.register(&Tool{
		Name:        "getVitalsHistory",
		Description: "Fetch a patient's vital readings most-recent-first, optionally filtered by type and limited.",
		InputSchema: objectSchema(Schema{
			"patientId": Schema{"type": "string"},
			"type":      Schema{"type": "string"},
			"limit":     Schema{"type": "integer"},
		}, "patientId"),
		OutputSchema: arraySchema("Vital entries, newest first"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			patientID, err := requireString(args, "patientId")
			if err != nil {
				return nil, err
			}
			return f.GetVitalsHistory(ctx, patientID,
				model.VitalType(stringArg(args, "type")), intArg(args, "limit"))
		},
	})

	r.register(&Tool{
		Name:        "accessPortal",
		Description: "Route a free-text request to the portal best suited to handle it.",
		InputSchema: objectSchema(Schema{
			"message": Schema{"type": "string"},
		}, "message"),
		OutputSchema: objectSchema(Schema{
			"portal": Schema{"type": "string"},
			"path":   Schema{"type": "string"},
		}),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			portal := intent.Route(stringArg(args, "message"))
			return map[string]string{
				"portal": string(portal),
				"path":   portal.Path(),
			}, nil
		},
	})

	return r
}
