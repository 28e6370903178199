package realtime

import (
	"encoding/json"
	"log/slog"
	"time"
)

// Bus pushes record-created events to every client currently in the Registry.
//
// Delivery is best-effort: the fan-out walks a snapshot taken at publish
// time, and a handle that disconnects between snapshot and send either
// receives nothing or the send is silently dropped. There is no retry and no
// dead-letter queue; a failed delivery to one client never affects the rest
// of the loop.
type Bus struct {
	log      *slog.Logger
	registry *Registry
}

// NewBus constructs a Bus over the given registry.
func NewBus(log *slog.Logger, registry *Registry) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{log: log, registry: registry}
}

// Publish fans a RecordCreated event out to all live connections.
// Publishing with zero connections registered is a no-op.
//
// Ownership is deliberately ignored here: every live connection receives
// every creation event, and receivers use the owner id in the payload to
// decide whether the event concerns them.
func (b *Bus) Publish(ev RecordCreated) {
	payload, err := json.Marshal(ev)
	if err != nil {
		// Cannot happen for this payload shape; log and drop.
		b.log.Error("realtime.publish.marshal.fail", "err", err)
		return
	}

	env := newEnvelope(TypeRecordCreated, payload, time.Now().UTC())

	clients := b.registry.Snapshot()
	metricEventsPublished.Inc()

	sent := 0
	for _, c := range clients {
		if c == nil {
			continue
		}

		select {
		case <-c.Done():
			// Client is shutting down; skip.
			metricEventsDropped.Inc()
			continue
		default:
		}

		select {
		case c.Send <- env:
			sent++
		default:
			// Drop rather than block the fan-out on one slow client.
			metricEventsDropped.Inc()
		}
	}

	b.log.Info("realtime.publish",
		"event", TypeRecordCreated,
		"record_id", ev.ID,
		"owner_id", ev.OwnerID,
		"clients", len(clients),
		"sent", sent,
	)
}
