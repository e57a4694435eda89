package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/secureledger/vault/internal/flagx"
	"github.com/secureledger/vault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr       string         `json:"endpoint_addr"`
	StorageBackend     string         `json:"storage_backend"`
	SQLitePath         string         `json:"sqlite_path"`
	DatabaseDSN        string         `json:"database_dsn"`
	MasterPassphrase   string         `json:"master_passphrase"`
	KeySalt            string         `json:"key_salt"`
	ResetTokenTTL      timex.Duration `json:"reset_token_ttl"`
	BiometricThreshold float64        `json:"biometric_threshold"`
	ExtractorEndpoint  string         `json:"extractor_endpoint"`
	LogLevel           string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.StorageBackend = c.StorageBackend
	config.SQLitePath = c.SQLitePath
	config.DatabaseDSN = c.DatabaseDSN
	config.MasterPassphrase = c.MasterPassphrase
	config.KeySalt = c.KeySalt
	config.ResetTokenTTL = time.Duration(c.ResetTokenTTL.Duration)
	config.BiometricThreshold = c.BiometricThreshold
	config.ExtractorEndpoint = c.ExtractorEndpoint
	config.LogLevel = c.LogLevel
}
