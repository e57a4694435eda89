package config

import (
	"flag"
	"os"
	"time"

	"github.com/secureledger/vault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-b string   storage backend: "sqlite" or "postgres"
//	-f string   sqlite database file path
//	-d string   PostgreSQL DSN
//	-p string   master passphrase (empty: prompt on terminal)
//	-s string   key-derivation salt
//	-t int      reset token validity, hours
//	-m float    biometric match threshold (Euclidean distance)
//	-x string   face extractor endpoint URL
//	-l string   log level
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The token TTL flag is accepted as an integer in hours and then converted
//     to a time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-f", "-d", "-p", "-s", "-t", "-m", "-x", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (sqlite|postgres)")
	fs.StringVar(&config.SQLitePath, "f", config.SQLitePath, "sqlite database file")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MasterPassphrase, "p", config.MasterPassphrase, "master passphrase")
	fs.StringVar(&config.KeySalt, "s", config.KeySalt, "key derivation salt")

	resetTokenTTL := fs.Int("t", int(config.ResetTokenTTL.Hours()), "reset token validity (in hours)")

	fs.Float64Var(&config.BiometricThreshold, "m", config.BiometricThreshold, "biometric match threshold")
	fs.StringVar(&config.ExtractorEndpoint, "x", config.ExtractorEndpoint, "face extractor endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ResetTokenTTL = time.Duration(*resetTokenTTL) * time.Hour
}
