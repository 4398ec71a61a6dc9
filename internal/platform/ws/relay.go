package ws

import (
	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/platform/events"
)

// Relay pipes store events from the in-process bus to the hub so
// mutations made in one tab reach every other open tab.
type Relay struct {
	hub    *Hub
	sub    *events.Subscription
	logger zerolog.Logger
	done   chan struct{}
}

// NewRelay subscribes to all store events and starts forwarding.
func NewRelay(bus *events.Bus, hub *Hub, logger zerolog.Logger) *Relay {
	r := &Relay{
		hub:    hub,
		sub:    bus.Subscribe(),
		logger: logger.With().Str("component", "ws-relay").Logger(),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Relay) run() {
	defer close(r.done)
	for e := range r.sub.C {
		r.logger.Debug().
			Str("type", e.Type).
			Str("collection", e.Collection).
			Msg("relaying store event")
		r.hub.Broadcast(e)
	}
}

// Close stops forwarding and waits for the pump to drain.
func (r *Relay) Close() {
	r.sub.Close()
	<-r.done
}
