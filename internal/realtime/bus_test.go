package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPublish_ZeroClients(t *testing.T) {
	r := NewRegistry(quietLogger())
	bus := NewBus(quietLogger(), r)

	// Must be a silent no-op.
	bus.Publish(RecordCreated{ID: "rec-1", OwnerID: "owner-1"})
}

func TestPublish_AllClientsReceive(t *testing.T) {
	r := NewRegistry(quietLogger())
	bus := NewBus(quietLogger(), r)

	a := r.Register(time.Now().UTC(), 4)
	b := r.Register(time.Now().UTC(), 4)

	bus.Publish(RecordCreated{ID: "rec-1", OwnerID: "owner-1"})

	for _, c := range []*Client{a, b} {
		select {
		case env := <-c.Send:
			if env.Type != TypeRecordCreated {
				t.Fatalf("client %s: type = %q", c.ID, env.Type)
			}
			var p RecordCreated
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				t.Fatalf("client %s: payload: %v", c.ID, err)
			}
			if p.ID != "rec-1" || p.OwnerID != "owner-1" {
				t.Fatalf("client %s: payload = %+v", c.ID, p)
			}
		default:
			t.Fatalf("client %s: no event delivered", c.ID)
		}
	}
}

func TestPublish_SkipsClosedClient(t *testing.T) {
	r := NewRegistry(quietLogger())
	bus := NewBus(quietLogger(), r)

	live := r.Register(time.Now().UTC(), 4)
	gone := r.Register(time.Now().UTC(), 4)
	gone.Close() // closed but still in the registry snapshot

	bus.Publish(RecordCreated{ID: "rec-2", OwnerID: "owner-1"})

	select {
	case env := <-live.Send:
		if env.Type != TypeRecordCreated {
			t.Fatalf("type = %q", env.Type)
		}
	default:
		t.Fatalf("live client did not receive event")
	}

	select {
	case <-gone.Send:
		t.Fatalf("closed client should not receive events")
	default:
	}
}

func TestPublish_DropsOnFullQueue(t *testing.T) {
	r := NewRegistry(quietLogger())
	bus := NewBus(quietLogger(), r)

	slow := r.Register(time.Now().UTC(), 1)
	fast := r.Register(time.Now().UTC(), 4)

	bus.Publish(RecordCreated{ID: "rec-1", OwnerID: "o"})
	// slow's queue of 1 is now full; the second publish must drop for slow
	// without blocking delivery to fast.
	bus.Publish(RecordCreated{ID: "rec-2", OwnerID: "o"})

	if got := len(slow.Send); got != 1 {
		t.Fatalf("slow queue len = %d, want 1", got)
	}
	if got := len(fast.Send); got != 2 {
		t.Fatalf("fast queue len = %d, want 2", got)
	}
}
