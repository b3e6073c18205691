package natsbridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/dquaner/my-flux/internal/logging"
	"github.com/dquaner/my-flux/internal/metrics"
	"github.com/dquaner/my-flux/types"
)

// Publisher is a types.Publisher[jetstream.Msg] backed by a durable
// JetStream pull consumer.
//
// Each Subscribe spawns an independent delivery goroutine whose pull pace
// is governed entirely by the subscriber's demand: no demand, no fetch.
// All subscriptions share the same durable consumer, so concurrent
// subscribers split the stream rather than each receiving every message.
type Publisher struct {
	js       jetstream.JetStream
	consumer jetstream.Consumer
	config   Config
	logger   types.Logger
	metrics  types.MetricsCollector
	dedup    *dedupWindow

	closed atomic.Bool
	wg     sync.WaitGroup

	mu   sync.Mutex
	subs []*bridgeSubscription
}

var _ types.Publisher[jetstream.Msg] = (*Publisher)(nil)

// NewPublisher creates a bridge publisher over a NATS connection.
//
// The durable consumer named in the configuration is created, or updated in
// place when it already exists, before the publisher is returned.
//
// Parameters:
//   - ctx: Context bounding the consumer create/update round trip
//   - conn: NATS connection (must be non-nil)
//   - cfg: Bridge configuration; defaults are applied, then validated
//
// Returns:
//   - *Publisher: Ready publisher bound to the durable consumer
//   - error: Configuration, connection, or consumer setup error
//
// Example:
//
//	pub, err := natsbridge.NewPublisher(ctx, nc, natsbridge.Config{
//	    StreamName:   "ORDERS",
//	    ConsumerName: "order-processor",
//	    Subjects:     []string{"orders.created"},
//	})
func NewPublisher(ctx context.Context, conn *nats.Conn, cfg Config) (*Publisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: NATS connection is nil", types.ErrConnectionRequired)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return NewPublisherJS(ctx, js, cfg)
}

// NewPublisherJS creates a bridge publisher from a pre-initialized
// JetStream context. This overload keeps the coupling to the nats client
// loose for tests and custom wiring.
func NewPublisherJS(ctx context.Context, js jetstream.JetStream, cfg Config) (*Publisher, error) {
	if js == nil {
		return nil, fmt.Errorf("%w: JetStream context is nil", types.ErrConnectionRequired)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.StreamName, jetstream.ConsumerConfig{
		Durable:        cfg.ConsumerName,
		FilterSubjects: cfg.Subjects,
		AckPolicy:      jetstream.AckExplicitPolicy,
		AckWait:        cfg.AckWait,
		MaxDeliver:     cfg.MaxDeliver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create or update consumer %q: %w", cfg.ConsumerName, err)
	}

	p := &Publisher{
		js:       js,
		consumer: consumer,
		config:   cfg,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
	if cfg.DedupWindow > 0 {
		p.dedup = newDedupWindow(cfg.DedupWindow)
	}

	return p, nil
}

// Subscribe attaches a subscriber and starts its delivery loop.
//
// The subscriber receives OnSubscribe synchronously; delivery happens on a
// dedicated goroutine and is driven by the demand the subscriber signals
// through the handed-out subscription. Subscribing to a closed publisher
// still performs the OnSubscribe handshake and then terminates the
// subscriber with types.ErrPublisherClosed.
func (p *Publisher) Subscribe(sub types.Subscriber[jetstream.Msg]) {
	s := newBridgeSubscription(p, sub)
	sub.OnSubscribe(s)

	// The closed check and the registration must be one critical section:
	// Close drains subs under the same lock, so a subscription is either
	// visible to its drain or rejected here, never started unregistered.
	p.mu.Lock()
	if p.closed.Load() {
		p.mu.Unlock()
		s.fail(types.ErrPublisherClosed)

		return
	}
	p.subs = append(p.subs, s)
	p.wg.Add(1)
	p.mu.Unlock()

	go s.run()
}

// Close stops all delivery loops and waits for them to finish.
//
// Active subscribers receive OnComplete once their loop drains. Close does
// not delete the durable consumer; its state stays on the server so a new
// publisher can resume from it.
//
// Parameters:
//   - ctx: Bounds the wait for in-flight loops
//
// Returns:
//   - error: ctx.Err() when the wait is cut short, nil otherwise
func (p *Publisher) Close(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	p.mu.Lock()
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bridgeSubscription is one subscriber's view of the publisher. Demand is
// accumulated in an atomic counter capped at the unbounded sentinel; the
// delivery loop converts it into pull batches.
type bridgeSubscription struct {
	pub *Publisher
	sub types.Subscriber[jetstream.Msg]

	demand     atomic.Int64
	terminated atomic.Bool
	wake       chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

var _ types.Subscription = (*bridgeSubscription)(nil)

func newBridgeSubscription(p *Publisher, sub types.Subscriber[jetstream.Msg]) *bridgeSubscription {
	ctx, cancel := context.WithCancel(context.Background())

	return &bridgeSubscription{
		pub:    p,
		sub:    sub,
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Request raises the demand counter by n, saturating at types.Unbounded.
// Non-positive amounts are ignored.
func (s *bridgeSubscription) Request(n int64) {
	if n <= 0 {
		s.pub.logger.Debug("non-positive request ignored", "n", n)
		return
	}

	for {
		cur := s.demand.Load()
		if cur == types.Unbounded {
			break
		}
		next := cur + n
		if next < 0 || n == types.Unbounded {
			// Overflow saturates to unbounded.
			next = types.Unbounded
		}
		if s.demand.CompareAndSwap(cur, next) {
			break
		}
	}

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Cancel stops the delivery loop. The loop completes the subscriber after
// it drains; undelivered fetched messages are redelivered by the server
// once their ack deadline lapses.
func (s *bridgeSubscription) Cancel() {
	s.cancel()
}

// run is the pull loop: wait for demand, fetch at most min(demand, batch),
// deliver, repeat until cancelled or the consumer fails terminally.
func (s *bridgeSubscription) run() {
	defer s.pub.wg.Done()

	for {
		if s.ctx.Err() != nil {
			s.complete()
			return
		}

		if s.demand.Load() == 0 {
			select {
			case <-s.wake:
			case <-s.ctx.Done():
			}

			continue
		}

		if !s.pullOnce() {
			return
		}
	}
}

// pullOnce performs one fetch/deliver round. It reports false when the
// subscription reached a terminal state.
func (s *bridgeSubscription) pullOnce() bool {
	batch := s.pub.config.BatchSize
	if d := s.demand.Load(); d < int64(batch) {
		batch = int(d)
	}

	msgs, err := s.pub.consumer.Fetch(batch, jetstream.FetchMaxWait(s.pub.config.FetchTimeout))
	if err != nil {
		return s.handleFetchError(err)
	}

	delivered := 0
	for msg := range msgs.Messages() {
		if s.ctx.Err() != nil {
			// Remaining fetched messages are left unacked for redelivery.
			break
		}
		if s.pub.dedup != nil && s.pub.dedup.observe(msg.Subject(), msg.Data()) {
			s.pub.metrics.IncrementDuplicateSkipped()
			_ = msg.Ack()

			continue
		}

		s.sub.OnNext(msg)
		_ = msg.Ack()
		delivered++
	}

	if delivered > 0 {
		s.pub.metrics.ObserveFetchBatch(delivered)
		s.pub.metrics.IncrementDelivered(delivered)
		if s.demand.Load() != types.Unbounded {
			s.demand.Add(-int64(delivered))
		}
	}

	if err := msgs.Error(); err != nil {
		return s.handleFetchError(err)
	}

	return true
}

// handleFetchError classifies a pull failure. Timeouts and transient
// errors keep the loop alive; consumer loss and a closed connection are
// terminal. Only cancellation completes the subscriber: a deadline-shaped
// error is just an expired pull and is retried.
func (s *bridgeSubscription) handleFetchError(err error) bool {
	switch {
	case errors.Is(err, context.Canceled):
		s.complete()
		return false
	case errors.Is(err, jetstream.ErrConsumerNotFound),
		errors.Is(err, jetstream.ErrConsumerDeleted),
		errors.Is(err, nats.ErrConnectionClosed):
		s.fail(fmt.Errorf("consumer %q failed: %w", s.pub.config.ConsumerName, err))
		return false
	default:
		s.pub.logger.Warn("fetch failed, retrying", "error", err)
		return true
	}
}

func (s *bridgeSubscription) complete() {
	if s.terminated.CompareAndSwap(false, true) {
		s.cancel()
		s.sub.OnComplete()
	}
}

func (s *bridgeSubscription) fail(err error) {
	if s.terminated.CompareAndSwap(false, true) {
		s.cancel()
		s.sub.OnError(err)
	}
}
