package natsbridge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dquaner/my-flux/types"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{StreamName: "events", ConsumerName: "worker"}
	cfg.applyDefaults()

	require.Equal(t, DefaultBatchSize, cfg.BatchSize)
	require.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	require.Equal(t, DefaultAckWait, cfg.AckWait)
	require.Equal(t, DefaultMaxDeliver, cfg.MaxDeliver)
	require.Zero(t, cfg.DedupWindow)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{StreamName: "events", ConsumerName: "worker"},
		},
		{
			name:    "missing stream name",
			cfg:     Config{ConsumerName: "worker"},
			wantErr: "stream name",
		},
		{
			name:    "missing consumer name",
			cfg:     Config{StreamName: "events"},
			wantErr: "consumer name",
		},
		{
			name:    "negative dedup window",
			cfg:     Config{StreamName: "events", ConsumerName: "worker", DedupWindow: -1},
			wantErr: "dedup window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, types.ErrInvalidConfig)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses and applies defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bridge.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
stream_name: events
consumer_name: worker
subjects:
  - events.created
  - events.updated
batch_size: 16
fetch_timeout: 2s
dedup_window: 128
`), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "events", cfg.StreamName)
		require.Equal(t, "worker", cfg.ConsumerName)
		require.Equal(t, []string{"events.created", "events.updated"}, cfg.Subjects)
		require.Equal(t, 16, cfg.BatchSize)
		require.Equal(t, 2*time.Second, cfg.FetchTimeout)
		require.Equal(t, 128, cfg.DedupWindow)
		require.Equal(t, DefaultAckWait, cfg.AckWait)
	})

	t.Run("invalid content fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bridge.yaml")
		require.NoError(t, os.WriteFile(path, []byte("stream_name: events\n"), 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
