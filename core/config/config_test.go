package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, CatalogSourceBucket, cfg.Sync.CatalogSource)
	assert.Equal(t, 3, cfg.Sync.RetryAttempts)
	assert.Equal(t, 100, cfg.Sync.BatchSize)
	assert.False(t, cfg.Account.Enabled())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	env := "SERVER_PORT=9090\nSYNC_BATCH_SIZE=25\nACCOUNT_BASE_URL=https://account.example\nACCOUNT_TOKEN=abc\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"SERVER_PORT", "SYNC_BATCH_SIZE", "ACCOUNT_BASE_URL", "ACCOUNT_TOKEN"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Sync.BatchSize)
	assert.True(t, cfg.Account.Enabled())
}

func TestSyncConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SyncConfig
		wantErr bool
	}{
		{"Bucket", SyncConfig{CatalogSource: CatalogSourceBucket, RetryAttempts: 1, BatchSize: 10}, false},
		{"HTTPWithURL", SyncConfig{CatalogSource: CatalogSourceHTTP, CatalogURL: "http://x", RetryAttempts: 1, BatchSize: 10}, false},
		{"HTTPWithoutURL", SyncConfig{CatalogSource: CatalogSourceHTTP, RetryAttempts: 1, BatchSize: 10}, true},
		{"UnknownSource", SyncConfig{CatalogSource: "ftp", RetryAttempts: 1, BatchSize: 10}, true},
		{"ZeroRetries", SyncConfig{CatalogSource: CatalogSourceBucket, RetryAttempts: 0, BatchSize: 10}, true},
		{"HugeBatch", SyncConfig{CatalogSource: CatalogSourceBucket, RetryAttempts: 1, BatchSize: 5000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
