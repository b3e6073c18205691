package natsbridge

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dquaner/my-flux/types"
)

const (
	// DefaultBatchSize is the default maximum number of messages per pull.
	DefaultBatchSize = 64

	// DefaultFetchTimeout is the default maximum duration to wait for
	// messages in a single pull request.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultAckWait is the default duration the server waits for an ack
	// before redelivering a message.
	DefaultAckWait = 30 * time.Second

	// DefaultMaxDeliver is the default maximum delivery attempts per message.
	DefaultMaxDeliver = 3
)

// Config holds the settings of a bridge publisher.
//
// Zero values of the optional fields are replaced by the Default*
// constants. Logger and Metrics are wiring-only and not part of the YAML
// surface.
type Config struct {
	// StreamName is the JetStream stream to consume from. Required.
	StreamName string `yaml:"stream_name"`

	// ConsumerName is the durable consumer name. Required.
	ConsumerName string `yaml:"consumer_name"`

	// Subjects filters the consumer to the given subjects. Optional; an
	// empty list consumes the whole stream.
	Subjects []string `yaml:"subjects"`

	// BatchSize caps the number of messages fetched per pull.
	BatchSize int `yaml:"batch_size"`

	// FetchTimeout bounds how long a single pull waits for messages.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// DedupWindow is the number of recent message hashes remembered for
	// duplicate skipping. Zero disables deduplication.
	DedupWindow int `yaml:"dedup_window"`

	// MaxDeliver caps delivery attempts per message.
	MaxDeliver int `yaml:"max_deliver"`

	// AckWait is how long the server waits for an ack before redelivery.
	AckWait time.Duration `yaml:"ack_wait"`

	// Logger receives bridge diagnostics. Optional; defaults to no-op.
	Logger types.Logger `yaml:"-"`

	// Metrics receives bridge counters. Optional; defaults to no-op.
	Metrics types.MetricsCollector `yaml:"-"`
}

// applyDefaults fills in zero-valued optional fields.
func (c *Config) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.AckWait <= 0 {
		c.AckWait = DefaultAckWait
	}
	if c.MaxDeliver <= 0 {
		c.MaxDeliver = DefaultMaxDeliver
	}
}

// Validate checks the required fields and value ranges.
//
// Returns:
//   - error: A types.ErrInvalidConfig wrap describing the first violation,
//     or nil
func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("%w: stream name is required", types.ErrInvalidConfig)
	}
	if c.ConsumerName == "" {
		return fmt.Errorf("%w: consumer name is required", types.ErrInvalidConfig)
	}
	if c.DedupWindow < 0 {
		return fmt.Errorf("%w: dedup window must not be negative", types.ErrInvalidConfig)
	}

	return nil
}

// LoadConfig reads a YAML configuration file, applies defaults, and
// validates the result.
//
// Parameters:
//   - path: Filesystem path of the YAML file
//
// Returns:
//   - Config: The parsed configuration with defaults applied
//   - error: Read, parse, or validation error
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
