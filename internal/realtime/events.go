package realtime

import (
	"encoding/json"
	"time"
)

// Wire event types (stable on the wire).
const (
	// TypeHello is an optional client -> server greeting.
	TypeHello = "hello"
	// TypeHelloAck acknowledges the greeting with the connection id.
	TypeHelloAck = "hello_ack"
	// TypeRecordCreated announces a newly persisted search record.
	TypeRecordCreated = "record-created"
	// TypeError is a generic server -> client error event.
	TypeError = "error"
)

// Envelope is the canonical wire wrapper for realtime events.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	TS      time.Time       `json:"ts,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RecordCreated is the fact published on the bus when a record is persisted.
//
// It deliberately carries only ids: enough for a receiver to decide whether
// to refresh its own view, nothing that leaks record contents. Every live
// connection receives every creation event regardless of ownership.
type RecordCreated struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
}

// HelloAckPayload carries the server-assigned connection id.
type HelloAckPayload struct {
	ConnectionID string `json:"connection_id"`
}

// ErrorPayload is a generic error event payload.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newEnvelope(typ string, payload json.RawMessage, ts time.Time) Envelope {
	return Envelope{
		Type:    typ,
		ID:      NewRandomHex(10),
		TS:      ts,
		Payload: payload,
	}
}
