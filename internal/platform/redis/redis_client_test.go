package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromEnv は環境変数からRedis設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	// Note: Not running in parallel since we're modifying environment variables
	testCases := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "disabled without host",
			env:  map[string]string{"REDIS_HOST": "", "REDIS_PORT": "", "REDIS_PASSWORD": "", "CACHE_TTL": ""},
			want: Config{Port: "6379"},
		},
		{
			name: "full configuration",
			env:  map[string]string{"REDIS_HOST": "cache", "REDIS_PORT": "6380", "REDIS_PASSWORD": "secret", "CACHE_TTL": "12h"},
			want: Config{Host: "cache", Port: "6380", Password: "secret", TTL: 12 * time.Hour},
		},
		{
			name: "ttl in seconds",
			env:  map[string]string{"REDIS_HOST": "cache", "REDIS_PORT": "", "REDIS_PASSWORD": "", "CACHE_TTL": "90"},
			want: Config{Host: "cache", Port: "6379", TTL: 90 * time.Second},
		},
		{
			name:    "invalid ttl",
			env:     map[string]string{"REDIS_HOST": "cache", "REDIS_PORT": "", "REDIS_PASSWORD": "", "CACHE_TTL": "soon"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfigFromEnv()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg)
			assert.Equal(t, tc.want.Host != "", cfg.Enabled())
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "localhost:6379", Config{Host: "localhost", Port: "6379"}.Addr())
}

func TestNewRedisClient_Disabled(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(Config{})

	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	// port 1 on loopback refuses connections
	rdb, err := NewRedisClient(Config{Host: "127.0.0.1", Port: "1"})

	assert.Error(t, err)
	assert.Nil(t, rdb)
}
