// Package main provides a CI-friendly smoke test for idenflow realtime.
//
// It validates:
//   - websocket handshake + hello/ack
//   - signup + login over HTTP
//   - record creation as an authenticated user
//   - record-created fan-out to ALL connected clients (broadcast semantics)
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
)

const maxReadBytes = 1 << 20 // 1MiB

type envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	TS      time.Time       `json:"ts,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type smokeClient struct {
	name  string
	conn  *websocket.Conn
	inbox chan envelope
}

func main() {
	var (
		wsURL   = flag.String("ws", "ws://127.0.0.1:3001/ws", "WebSocket URL")
		apiURL  = flag.String("api", "http://127.0.0.1:3001/api", "API base URL")
		origin  = flag.String("origin", "http://localhost", "Origin header to send")
		timeout = flag.Duration("timeout", 7*time.Second, "Per-step timeout")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if err := validateWSURL(*wsURL); err != nil {
		fatalf("invalid -ws: %v", err)
	}

	root := context.Background()

	a := mustConnect(root, "A", *wsURL, *origin, *timeout)
	defer closeWS(a.conn)
	b := mustConnect(root, "B", *wsURL, *origin, *timeout)
	defer closeWS(b.conn)

	if *verbose {
		fmt.Println("both realtime clients connected")
	}

	email := fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())
	token := mustSignup(*apiURL, email, *timeout)

	recordID := mustCreateRecord(*apiURL, token, *timeout)
	if *verbose {
		fmt.Printf("record created id=%s\n", recordID)
	}

	// Broadcast semantics: both clients receive the event even though only
	// the signed-up user owns the record.
	mustReceiveRecordCreated(root, a, recordID, *timeout)
	mustReceiveRecordCreated(root, b, recordID, *timeout)

	fmt.Println("ws-smoke: OK")
}

func mustConnect(ctx context.Context, name, wsURL, origin string, timeout time.Duration) *smokeClient {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := &websocket.DialOptions{
		Subprotocols: []string{"idenflow.realtime.v1"},
	}
	if origin != "" {
		opts.HTTPHeader = http.Header{"Origin": []string{origin}}
	}

	conn, _, err := websocket.Dial(dialCtx, wsURL, opts)
	if err != nil {
		fatalf("%s: dial: %v", name, err)
	}
	conn.SetReadLimit(maxReadBytes)

	c := &smokeClient{name: name, conn: conn, inbox: make(chan envelope, 64)}

	go func() {
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				close(c.inbox)
				return
			}
			var env envelope
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			c.inbox <- env
		}
	}()

	// hello -> hello_ack.
	hello, _ := json.Marshal(envelope{Type: "hello", TS: time.Now().UTC()})
	writeCtx, wcancel := context.WithTimeout(ctx, timeout)
	defer wcancel()
	if err := conn.Write(writeCtx, websocket.MessageText, hello); err != nil {
		fatalf("%s: hello write: %v", name, err)
	}

	select {
	case env, ok := <-c.inbox:
		if !ok {
			fatalf("%s: connection closed before hello_ack", name)
		}
		if env.Type != "hello_ack" {
			fatalf("%s: expected hello_ack, got %q", name, env.Type)
		}
	case <-time.After(timeout):
		fatalf("%s: timeout waiting for hello_ack", name)
	}

	return c
}

func mustSignup(apiURL, email string, timeout time.Duration) string {
	body, _ := json.Marshal(map[string]string{
		"name":     "Smoke Tester",
		"email":    email,
		"password": "smoke-test-password-1",
	})

	resp := mustPost(apiURL+"/auth/signup", "", body, timeout)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		fatalf("signup: status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReadBytes)).Decode(&out); err != nil {
		fatalf("signup: decode: %v", err)
	}
	if out.Token == "" {
		fatalf("signup: empty token")
	}
	return out.Token
}

func mustCreateRecord(apiURL, token string, timeout time.Duration) string {
	body, _ := json.Marshal(map[string]any{
		"sourceProfile": map[string]any{"username": "smoke", "platform": "x"},
		"matches":       []any{},
		"searchTerm":    "smoke",
		"totalMatches":  0,
	})

	resp := mustPost(apiURL+"/search-results", token, body, timeout)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		fatalf("create record: status %d", resp.StatusCode)
	}

	var out struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReadBytes)).Decode(&out); err != nil {
		fatalf("create record: decode: %v", err)
	}
	if !out.Success || out.ID == "" {
		fatalf("create record: unexpected response %+v", out)
	}
	return out.ID
}

func mustPost(u, token string, body []byte, timeout time.Duration) *http.Response {
	req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fatalf("post %s: %v", u, err)
	}
	return resp
}

func mustReceiveRecordCreated(ctx context.Context, c *smokeClient, wantID string, timeout time.Duration) {
	deadline := time.After(timeout)
	for {
		select {
		case env, ok := <-c.inbox:
			if !ok {
				fatalf("%s: connection closed before record-created", c.name)
			}
			if env.Type != "record-created" {
				continue
			}
			var p struct {
				ID      string `json:"id"`
				OwnerID string `json:"ownerId"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				fatalf("%s: record-created payload: %v", c.name, err)
			}
			if p.ID != wantID {
				fatalf("%s: record-created id=%q want=%q", c.name, p.ID, wantID)
			}
			if p.OwnerID == "" {
				fatalf("%s: record-created missing ownerId", c.name)
			}
			return
		case <-deadline:
			fatalf("%s: timeout waiting for record-created", c.name)
		case <-ctx.Done():
			fatalf("%s: context done: %v", c.name, ctx.Err())
		}
	}
}

func closeWS(conn *websocket.Conn) {
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
}

func validateWSURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("scheme must be ws or wss")
	}
	if strings.TrimSpace(u.Host) == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ws-smoke: "+format+"\n", args...)
	os.Exit(1)
}
