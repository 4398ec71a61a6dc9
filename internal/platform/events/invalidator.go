package events

import "github.com/nexushealth/nexus/internal/platform/docstore"

// Portal view paths whose caches depend on store collections. Each
// mutation invalidates a fixed, hardcoded set of these.
const (
	ViewPatient  = "/demos/patient"
	ViewPharmacy = "/demos/pharmacy"
	ViewLab      = "/demos/lab"
	ViewEHR      = "/demos/ehr"
)

// AllViews lists every portal view, invalidated on reset.
var AllViews = []string{ViewPatient, ViewLab, ViewPharmacy, ViewEHR}

var viewsByCollection = map[string][]string{
	docstore.CollectionPrescriptions: {ViewPatient, ViewPharmacy},
	docstore.CollectionLabOrders:     {ViewPatient, ViewLab},
	docstore.CollectionSymptoms:      {ViewPatient},
	docstore.CollectionVitals:        {ViewPatient, ViewEHR},
}

// ViewsFor returns the view paths invalidated by a change to the
// given collection.
func ViewsFor(collection string) []string {
	return viewsByCollection[collection]
}

// Invalidator publishes view-invalidation events on behalf of the
// mutating services. A nil Invalidator is safe to call.
type Invalidator struct {
	bus *Bus
}

func NewInvalidator(bus *Bus) *Invalidator {
	return &Invalidator{bus: bus}
}

// Invalidate signals that a record in collection changed and its
// dependent views must be recomputed.
func (i *Invalidator) Invalidate(collection, resourceID string) {
	if i == nil || i.bus == nil {
		return
	}
	i.bus.Publish(Event{
		Type:       TypeChanged,
		Collection: collection,
		ResourceID: resourceID,
		Views:      ViewsFor(collection),
	})
}

// InvalidateAll signals a store-wide change (reset); every dependent
// view is recomputed.
func (i *Invalidator) InvalidateAll() {
	if i == nil || i.bus == nil {
		return
	}
	i.bus.Publish(Event{Type: TypeReset, Views: AllViews})
}
