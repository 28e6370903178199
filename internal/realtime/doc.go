// Package realtime delivers record-created notifications to live WebSocket
// clients.
//
// It is built from three small pieces: a Registry of currently connected
// clients, a Bus that fans an event out to a point-in-time snapshot of the
// Registry, and a WSGateway that owns the connection lifecycle. Delivery is
// fire-and-forget: a client that is disconnected (or backed up) when an event
// fires simply misses it.
package realtime
