package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, BackendSQLite, c.StorageBackend)
	assert.Equal(t, "secure_ledger.db", c.SQLitePath)
	assert.Equal(t, 24*time.Hour, c.ResetTokenTTL)
	assert.Equal(t, 0.6, c.BiometricThreshold)
	assert.Empty(t, c.MasterPassphrase)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-a", ":9090", "-b", BackendPostgres, "-t", "48", "-m", "0.45"}

	c := LoadConfig()

	assert.Equal(t, ":9090", c.EndpointAddr)
	assert.Equal(t, BackendPostgres, c.StorageBackend)
	assert.Equal(t, 48*time.Hour, c.ResetTokenTTL)
	assert.Equal(t, 0.45, c.BiometricThreshold)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	content := `{
		"endpoint_addr": ":7070",
		"storage_backend": "postgres",
		"sqlite_path": "x.db",
		"database_dsn": "postgres://u:p@h:5432/db",
		"master_passphrase": "pp",
		"key_salt": "ss",
		"reset_token_ttl": "12h",
		"biometric_threshold": 0.5,
		"extractor_endpoint": "http://extractor:9000/encode",
		"log_level": "warn"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", path}

	c := LoadConfig()

	assert.Equal(t, ":7070", c.EndpointAddr)
	assert.Equal(t, BackendPostgres, c.StorageBackend)
	assert.Equal(t, 12*time.Hour, c.ResetTokenTTL)
	assert.Equal(t, 0.5, c.BiometricThreshold)
	assert.Equal(t, "http://extractor:9000/encode", c.ExtractorEndpoint)
	assert.Equal(t, "warn", c.LogLevel)
}
