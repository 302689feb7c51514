package preview

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func readUntil(t *testing.T, reader *bufio.Reader, want string, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}

func TestHubInitialConnectReceivesCurrentToken(t *testing.T) {
	hub := NewHub(NewMetrics())
	defer hub.Close()

	hub.Broadcast("abc123")

	server := httptest.NewServer(hub)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	if !readUntil(t, bufio.NewReader(resp.Body), "abc123", 500*time.Millisecond) {
		t.Fatal("did not receive current token on connect")
	}
}

func TestHubBroadcastReachesConnectedClient(t *testing.T) {
	hub := NewHub(NewMetrics())
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	reader := bufio.NewReader(resp.Body)
	time.Sleep(20 * time.Millisecond)

	hub.Broadcast("generation-2")

	if !readUntil(t, reader, "generation-2", 500*time.Millisecond) {
		t.Fatal("did not observe broadcast token in stream")
	}
}

func TestHubDuplicateBroadcastIgnored(t *testing.T) {
	hub := NewHub(NewMetrics())
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	reader := bufio.NewReader(resp.Body)
	time.Sleep(20 * time.Millisecond)

	hub.Broadcast("same")
	if !readUntil(t, reader, "same", 500*time.Millisecond) {
		t.Fatal("first broadcast not observed")
	}

	hub.Broadcast("same")
	done := make(chan bool, 1)
	go func() { done <- readUntil(t, reader, "same", 200*time.Millisecond) }()
	select {
	case again := <-done:
		if again {
			t.Fatal("duplicate token was re-broadcast")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reader stuck")
	}
}

// brokenWriter fails every write, modelling a client that vanished between
// registration and the first SSE frame.
type brokenWriter struct {
	header http.Header
}

func (b *brokenWriter) Header() http.Header {
	if b.header == nil {
		b.header = http.Header{}
	}
	return b.header
}

func (b *brokenWriter) WriteHeader(int) {}

func (b *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("client gone") }

func (b *brokenWriter) Flush() {}

func TestHubDeregistersClientOnInitialWriteFailure(t *testing.T) {
	hub := NewHub(NewMetrics())
	defer hub.Close()

	hub.ServeHTTP(&brokenWriter{}, httptest.NewRequest(http.MethodGet, "/livereload", nil))

	if count := hub.ClientCount(); count != 0 {
		t.Fatalf("client count = %d after failed handshake, want 0", count)
	}
}

func TestHubCloseRefusesNewConnections(t *testing.T) {
	hub := NewHub(NewMetrics())
	hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("client count = %d after close", hub.ClientCount())
	}
}
