// Package config loads node configuration from environment variables (and
// an optional .env file), the way the teacher's cmd/server/main.go does
// with godotenv.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the tunables of a single ledger node. None of these are
// protocol parameters negotiated with peers — there are no peers (§1).
type Config struct {
	DataFile     string
	Difficulty   int
	BlockReward  int
	HTTPAddr     string
	MetricsAddr  string
	StoreBackend string // "json" or "bbolt"
}

// Default mirrors the spec's default DIFFICULTY=2 and a nominal reward.
func Default() Config {
	return Config{
		DataFile:     "chain.json",
		Difficulty:   2,
		BlockReward:  1000,
		HTTPAddr:     ":8080",
		MetricsAddr:  ":9090",
		StoreBackend: "json",
	}
}

// Load reads a .env file if present (missing is not an error, matching the
// teacher's "No .env file found" handling) and overlays environment
// variables onto Default().
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("LEDGER_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("LEDGER_DIFFICULTY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Difficulty = n
		}
	}
	if v := os.Getenv("LEDGER_BLOCK_REWARD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BlockReward = n
		}
	}
	if v := os.Getenv("LEDGER_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LEDGER_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("LEDGER_STORE"); v != "" {
		cfg.StoreBackend = v
	}
	return cfg
}
