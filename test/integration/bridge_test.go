//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	flux "github.com/dquaner/my-flux"
	"github.com/dquaner/my-flux/natsbridge"
	fluxtest "github.com/dquaner/my-flux/testing"
	"github.com/dquaner/my-flux/types"
)

// collectMsgs drains up to n payloads from the channel, failing the test if
// they do not arrive in time.
func collectMsgs(t *testing.T, ch <-chan jetstream.Msg, n int, timeout time.Duration) []string {
	t.Helper()

	payloads := make([]string, 0, n)
	deadline := time.After(timeout)
	for len(payloads) < n {
		select {
		case msg := <-ch:
			payloads = append(payloads, string(msg.Data()))
		case <-deadline:
			t.Fatalf("timed out waiting for messages: got %d, want %d", len(payloads), n)
		}
	}

	return payloads
}

// requireNoMsg asserts that no message arrives within the window.
func requireNoMsg(t *testing.T, ch <-chan jetstream.Msg, window time.Duration) {
	t.Helper()

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message delivered: %s", msg.Data())
	case <-time.After(window):
	}
}

func TestBridgeDemandDrivenDelivery(t *testing.T) {
	t.Parallel()

	_, nc := fluxtest.StartEmbeddedNATS(t)
	fluxtest.CreateStream(t, nc, "EVENTS", "events.>")
	fluxtest.PublishMessages(t, nc, "events.created", "msg", 10)

	pub, err := natsbridge.NewPublisher(t.Context(), nc, natsbridge.Config{
		StreamName:   "EVENTS",
		ConsumerName: "demand-test",
		Subjects:     []string{"events.created"},
		BatchSize:    4,
		FetchTimeout: time.Second,
		Logger:       fluxtest.NewTestLogger(t),
	})
	require.NoError(t, err)
	defer pub.Close(context.Background())

	received := make(chan jetstream.Msg, 16)
	ctrl := flux.NewController(flux.Hooks[jetstream.Msg]{
		OnSubscribe: func(s flux.Subscription) error {
			s.Request(3)
			return nil
		},
		OnNext: func(msg jetstream.Msg) error {
			received <- msg
			return nil
		},
	})
	pub.Subscribe(ctrl)

	// Only the requested 3 messages arrive; the rest wait for demand.
	got := collectMsgs(t, received, 3, 5*time.Second)
	require.Equal(t, []string{"msg-0", "msg-1", "msg-2"}, got)
	requireNoMsg(t, received, 500*time.Millisecond)

	// Raising demand releases the remaining messages.
	ctrl.Request(7)
	got = collectMsgs(t, received, 7, 5*time.Second)
	require.Equal(t, []string{"msg-3", "msg-4", "msg-5", "msg-6", "msg-7", "msg-8", "msg-9"}, got)
}

func TestBridgeCancelCompletesSubscriber(t *testing.T) {
	t.Parallel()

	_, nc := fluxtest.StartEmbeddedNATS(t)
	fluxtest.CreateStream(t, nc, "EVENTS", "events.>")
	fluxtest.PublishMessages(t, nc, "events.created", "msg", 3)

	pub, err := natsbridge.NewPublisher(t.Context(), nc, natsbridge.Config{
		StreamName:   "EVENTS",
		ConsumerName: "cancel-test",
		FetchTimeout: time.Second,
	})
	require.NoError(t, err)
	defer pub.Close(context.Background())

	received := make(chan jetstream.Msg, 8)
	done := make(chan struct{})
	ctrl := flux.NewController(flux.Hooks[jetstream.Msg]{
		OnNext: func(msg jetstream.Msg) error {
			received <- msg
			return nil
		},
		Finally: func(flux.SignalType) { close(done) },
	})
	pub.Subscribe(ctrl)

	collectMsgs(t, received, 3, 5*time.Second)
	ctrl.Cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("finalizer did not run after cancel")
	}
	require.True(t, ctrl.IsDisposed())
}

func TestBridgeDedupSkipsRepeatedPayloads(t *testing.T) {
	t.Parallel()

	_, nc := fluxtest.StartEmbeddedNATS(t)
	fluxtest.CreateStream(t, nc, "EVENTS", "events.>")

	js, err := jetstream.New(nc)
	require.NoError(t, err)
	// The same subject and payload three times, plus one distinct message.
	for range 3 {
		_, err = js.Publish(t.Context(), "events.created", []byte("repeated"))
		require.NoError(t, err)
	}
	_, err = js.Publish(t.Context(), "events.created", []byte("distinct"))
	require.NoError(t, err)

	pub, err := natsbridge.NewPublisher(t.Context(), nc, natsbridge.Config{
		StreamName:   "EVENTS",
		ConsumerName: "dedup-test",
		FetchTimeout: time.Second,
		DedupWindow:  64,
	})
	require.NoError(t, err)
	defer pub.Close(context.Background())

	received := make(chan jetstream.Msg, 8)
	ctrl := flux.NewController(flux.Hooks[jetstream.Msg]{
		OnNext: func(msg jetstream.Msg) error {
			received <- msg
			return nil
		},
	})
	pub.Subscribe(ctrl)

	got := collectMsgs(t, received, 2, 5*time.Second)
	require.Equal(t, []string{"repeated", "distinct"}, got)
	requireNoMsg(t, received, 500*time.Millisecond)
}

func TestBridgeCloseTerminatesSubscribers(t *testing.T) {
	t.Parallel()

	_, nc := fluxtest.StartEmbeddedNATS(t)
	fluxtest.CreateStream(t, nc, "EVENTS", "events.>")

	pub, err := natsbridge.NewPublisher(t.Context(), nc, natsbridge.Config{
		StreamName:   "EVENTS",
		ConsumerName: "close-test",
		FetchTimeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	completed := make(chan struct{})
	ctrl := flux.NewController(flux.Hooks[jetstream.Msg]{
		OnComplete: func() error {
			close(completed)
			return nil
		},
	})
	pub.Subscribe(ctrl)

	require.NoError(t, pub.Close(t.Context()))
	select {
	case <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber was not completed by Close")
	}

	// A late subscriber still gets the handshake, then a terminal error.
	var lateErr error
	late := flux.NewController(flux.Hooks[jetstream.Msg]{
		OnError: func(err error) { lateErr = err },
	})
	pub.Subscribe(late)
	require.ErrorIs(t, lateErr, types.ErrPublisherClosed)
}
