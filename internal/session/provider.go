// Package session keeps a per-session in-memory mirror of the mutable
// collections for one active patient. Mutations go through the action
// facade and merge the returned canonical record; the mirror is never
// updated speculatively.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/domain/clinical"
	"github.com/nexushealth/nexus/internal/domain/diagnostics"
	"github.com/nexushealth/nexus/internal/domain/medication"
	"github.com/nexushealth/nexus/internal/facade"
	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/internal/platform/docstore"
	"github.com/nexushealth/nexus/internal/platform/events"
)

const reloadTimeout = 10 * time.Second

// Provider mirrors one patient's clinical data for the lifetime of a
// session. It reloads all four collections whenever the store changes;
// partial reloads are deliberately not attempted.
type Provider struct {
	patientID string
	f         *facade.Facade
	sub       *events.Subscription
	logger    zerolog.Logger

	mu            sync.RWMutex
	loaded        bool
	prescriptions []model.Prescription
	labOrders     []model.LabOrder
	symptoms      []model.Symptom
	vitals        []model.VitalEntry

	notifyMu sync.Mutex
	notify   map[int]chan struct{}
	nextID   int

	done chan struct{}
	wg   sync.WaitGroup
}

// NewProvider creates a provider for the given patient. When bus is
// non-nil the provider tracks store changes until Close.
func NewProvider(patientID string, f *facade.Facade, bus *events.Bus, logger zerolog.Logger) *Provider {
	p := &Provider{
		patientID: patientID,
		f:         f,
		logger:    logger.With().Str("component", "session").Str("patient_id", patientID).Logger(),
		notify:    make(map[int]chan struct{}),
		done:      make(chan struct{}),
	}
	if bus != nil {
		p.sub = bus.Subscribe(
			docstore.CollectionPrescriptions,
			docstore.CollectionLabOrders,
			docstore.CollectionSymptoms,
			docstore.CollectionVitals,
		)
		p.wg.Add(1)
		go p.watch()
	}
	return p
}

// PatientID returns the patient this session mirrors.
func (p *Provider) PatientID() string { return p.patientID }

// Loaded reports whether the initial fetch has completed.
func (p *Provider) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Load bulk-fetches the four mutable collections through the facade.
func (p *Provider) Load(ctx context.Context) error {
	prescriptions, err := p.f.GetPatientPrescriptions(ctx, p.patientID)
	if err != nil {
		return err
	}
	labOrders, err := p.f.GetPatientLabOrders(ctx, p.patientID)
	if err != nil {
		return err
	}
	symptoms, err := p.f.GetSymptoms(ctx)
	if err != nil {
		return err
	}
	vitals, err := p.f.GetPatientVitals(ctx, p.patientID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.prescriptions = prescriptions
	p.labOrders = labOrders
	p.symptoms = symptoms
	p.vitals = vitals
	p.loaded = true
	p.mu.Unlock()
	return nil
}

// -- Getters (copies) --

func (p *Provider) Prescriptions() []model.Prescription {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Prescription, len(p.prescriptions))
	copy(out, p.prescriptions)
	return out
}

func (p *Provider) LabOrders() []model.LabOrder {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.LabOrder, len(p.labOrders))
	copy(out, p.labOrders)
	return out
}

func (p *Provider) Symptoms() []model.Symptom {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Symptom, len(p.symptoms))
	copy(out, p.symptoms)
	return out
}

func (p *Provider) Vitals() []model.VitalEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.VitalEntry, len(p.vitals))
	copy(out, p.vitals)
	return out
}

// -- Mutators (await the facade, then merge the canonical record) --

func (p *Provider) AddPrescription(ctx context.Context, in medication.CreatePrescriptionInput) (*model.Prescription, error) {
	in.PatientID = p.patientID
	rx, err := p.f.AddPrescription(ctx, in)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.prescriptions = append([]model.Prescription{*rx}, p.prescriptions...)
	p.mu.Unlock()
	return rx, nil
}

func (p *Provider) UpdatePrescriptionStatus(ctx context.Context, id string, status model.PrescriptionStatus) (*model.Prescription, error) {
	rx, err := p.f.UpdatePrescriptionStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	for i := range p.prescriptions {
		if p.prescriptions[i].ID == rx.ID {
			p.prescriptions[i] = *rx
			break
		}
	}
	p.mu.Unlock()
	return rx, nil
}

func (p *Provider) AddLabOrder(ctx context.Context, in diagnostics.CreateLabOrderInput) (*model.LabOrder, error) {
	in.PatientID = p.patientID
	o, err := p.f.AddLabOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.labOrders = append([]model.LabOrder{*o}, p.labOrders...)
	p.mu.Unlock()
	return o, nil
}

func (p *Provider) AddSymptom(ctx context.Context, in clinical.RecordSymptomInput) (*model.Symptom, error) {
	sym, err := p.f.AddSymptom(ctx, in)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.symptoms = append([]model.Symptom{*sym}, p.symptoms...)
	p.mu.Unlock()
	return sym, nil
}

func (p *Provider) ResolveSymptom(ctx context.Context, id string) (bool, error) {
	resolved, err := p.f.ResolveSymptom(ctx, id)
	if err != nil || !resolved {
		return resolved, err
	}
	p.mu.Lock()
	for i := range p.symptoms {
		if p.symptoms[i].ID == id {
			p.symptoms = append(p.symptoms[:i], p.symptoms[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
	return true, nil
}

func (p *Provider) AddVital(ctx context.Context, in clinical.RecordVitalInput) (*model.VitalEntry, error) {
	in.PatientID = p.patientID
	v, err := p.f.AddVital(ctx, in)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.vitals = append(p.vitals, *v)
	p.mu.Unlock()
	return v, nil
}

// Subscribe returns a channel that signals whenever the mirrored data
// changed and the session should re-render. Cancel releases it.
func (p *Provider) Subscribe() (<-chan struct{}, func()) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan struct{}, 1)
	p.notify[id] = ch

	cancel := func() {
		p.notifyMu.Lock()
		defer p.notifyMu.Unlock()
		if _, ok := p.notify[id]; ok {
			delete(p.notify, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (p *Provider) notifyAll() {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	for _, ch := range p.notify {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (p *Provider) watch() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case _, ok := <-p.sub.C:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
			if err := p.Load(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("session reload failed")
			} else {
				p.notifyAll()
			}
			cancel()
		}
	}
}

// Close tears down the store subscription and notification channels.
func (p *Provider) Close() {
	close(p.done)
	if p.sub != nil {
		p.sub.Close()
	}
	p.wg.Wait()

	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	for id, ch := range p.notify {
		delete(p.notify, id)
		close(ch)
	}
}
