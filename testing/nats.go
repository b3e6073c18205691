package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled.
//
// The server runs in-process and stores data in a temporary directory that
// is removed when the test completes. Compared to container-based setups
// this needs no external dependencies, starts in milliseconds, and is safe
// for parallel test execution since every server picks a random free port.
//
// Parameters:
//   - t: Testing context for logging and cleanup
//
// Returns:
//   - *server.Server: The embedded NATS server instance
//   - *nats.Conn: Connected NATS client (closed automatically on test completion)
//
// Example:
//
//	func TestBridge(t *testing.T) {
//	    _, nc := fluxtest.StartEmbeddedNATS(t)
//	    // Server and connection are cleaned up automatically.
//	}
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // random available port
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("Embedded NATS server not ready within timeout")
	}

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		ns.Shutdown()
		t.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// CreateStream creates an in-memory JetStream stream for testing.
//
// Parameters:
//   - t: Testing context
//   - nc: NATS connection (from StartEmbeddedNATS)
//   - name: Stream name
//   - subjects: Subjects captured by the stream
//
// Returns:
//   - jetstream.Stream: The created stream
//
// Example:
//
//	_, nc := fluxtest.StartEmbeddedNATS(t)
//	fluxtest.CreateStream(t, nc, "EVENTS", "events.>")
func CreateStream(t *testing.T, nc *nats.Conn, name string, subjects ...string) jetstream.Stream {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("Failed to get JetStream context: %v", err)
	}

	stream, err := js.CreateStream(t.Context(), jetstream.StreamConfig{
		Name:     name,
		Subjects: subjects,
		Storage:  jetstream.MemoryStorage,
		Replicas: 1,
	})
	if err != nil {
		t.Fatalf("Failed to create stream %s: %v", name, err)
	}

	return stream
}

// PublishMessages publishes count sequentially numbered payloads to a
// subject and waits for each JetStream ack, so the messages are durably in
// the stream when it returns. Payloads have the form "<prefix>-<index>".
//
// Returns:
//   - [][]byte: The payloads published, in order
func PublishMessages(t *testing.T, nc *nats.Conn, subject, prefix string, count int) [][]byte {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("Failed to get JetStream context: %v", err)
	}

	payloads := make([][]byte, 0, count)
	for i := range count {
		payload := fmt.Appendf(nil, "%s-%d", prefix, i)
		if _, err := js.Publish(t.Context(), subject, payload); err != nil {
			t.Fatalf("Failed to publish message %d to %s: %v", i, subject, err)
		}
		payloads = append(payloads, payload)
	}

	return payloads
}
