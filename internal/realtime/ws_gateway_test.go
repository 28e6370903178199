package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestOriginHostOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost", "localhost"},
		{"http://localhost:3000", "localhost"},
		{"https://App.Example.com", "app.example.com"},
		{"localhost:8080", "localhost"},
		{"LOCALHOST", "localhost"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := originHostOnly(tc.in); got != tc.want {
			t.Fatalf("originHostOnly(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestDeriveOriginPatterns(t *testing.T) {
	t.Parallel()

	got := deriveOriginPatternsFromAllowedOrigins([]string{
		"http://localhost:3000",
		"http://localhost",
		"https://app.example.com",
		"*",
		"",
	})
	want := []string{"app.example.com", "localhost"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("patterns = %v, want %v", got, want)
	}
}

func TestEnforceOrigin(t *testing.T) {
	g := &WSGateway{
		originRequired: true,
		allowedOrigins: []string{"http://localhost", "https://app.example.com"},
	}

	mk := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	if err := g.enforceOrigin(mk("http://localhost")); err != nil {
		t.Fatalf("exact match rejected: %v", err)
	}
	if err := g.enforceOrigin(mk("http://localhost:5173")); err != nil {
		t.Fatalf("host match rejected: %v", err)
	}
	if err := g.enforceOrigin(mk("https://evil.example.com")); err == nil {
		t.Fatalf("expected rejection for unknown origin")
	}
	if err := g.enforceOrigin(mk("")); err == nil {
		t.Fatalf("expected rejection for missing origin when required")
	}

	g.originRequired = false
	if err := g.enforceOrigin(mk("")); err != nil {
		t.Fatalf("missing origin should pass when not required: %v", err)
	}
}

func TestGateway_HelloAndBroadcast(t *testing.T) {
	log := quietLogger()
	registry := NewRegistry(log)
	bus := NewBus(log, registry)
	gw := NewWSGateway(log, registry)

	srv := httptest.NewServer(gw)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):], &websocket.DialOptions{
		Subprotocols: []string{"idenflow.realtime.v1"},
		HTTPHeader:   http.Header{"Origin": []string{"http://127.0.0.1"}},
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "done") }()

	read := func() Envelope {
		t.Helper()
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return env
	}

	hello, _ := json.Marshal(Envelope{Type: TypeHello})
	if err := conn.Write(ctx, websocket.MessageText, hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	ack := read()
	if ack.Type != TypeHelloAck {
		t.Fatalf("expected hello_ack, got %q", ack.Type)
	}
	var ackPayload HelloAckPayload
	if err := json.Unmarshal(ack.Payload, &ackPayload); err != nil || ackPayload.ConnectionID == "" {
		t.Fatalf("hello_ack payload = %s (err %v)", ack.Payload, err)
	}

	bus.Publish(RecordCreated{ID: "rec-1", OwnerID: "owner-1"})

	ev := read()
	if ev.Type != TypeRecordCreated {
		t.Fatalf("expected record-created, got %q", ev.Type)
	}
	var p RecordCreated
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.ID != "rec-1" || p.OwnerID != "owner-1" {
		t.Fatalf("payload = %+v", p)
	}

	// Unknown inbound types are answered with an error event, not a close.
	junk, _ := json.Marshal(Envelope{Type: "subscribe"})
	if err := conn.Write(ctx, websocket.MessageText, junk); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	ev = read()
	if ev.Type != TypeError {
		t.Fatalf("expected error event, got %q", ev.Type)
	}
}

func TestGateway_UnregistersOnClose(t *testing.T) {
	log := quietLogger()
	registry := NewRegistry(log)
	gw := NewWSGateway(log, registry)

	srv := httptest.NewServer(gw)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):], &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://127.0.0.1"}},
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for registry.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_ = conn.Close(websocket.StatusNormalClosure, "done")

	for registry.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection never unregistered, live=%d", registry.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGateway_RejectsDisallowedOrigin(t *testing.T) {
	log := quietLogger()
	gw := NewWSGateway(log, NewRegistry(log))

	srv := httptest.NewServer(gw)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Origin", "https://evil.example.com")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}
