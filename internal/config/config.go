// Package config defines service configuration structures and loading.
package config

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ChainID is the chain a session must be on to count as ready.
	ChainID int64 `koanf:"chain_id"`

	// StoreBackend selects the activity store: memory or sqlite.
	StoreBackend string `koanf:"store_backend"`

	// SQLitePath locates the activity database when StoreBackend is
	// sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// LeaderboardAccounts is the roster the board is built over.
	LeaderboardAccounts []string `koanf:"leaderboard_accounts"`

	// LedgerFailAccounts lists addresses whose simulated reads fail,
	// to exercise degradation paths.
	LedgerFailAccounts []string `koanf:"ledger_fail_accounts"`

	// LedgerLatencyMinMS and LedgerLatencyMaxMS bound the simulated
	// RPC latency.
	LedgerLatencyMinMS int `koanf:"ledger_latency_min_ms"`
	LedgerLatencyMaxMS int `koanf:"ledger_latency_max_ms"`

	// ReadTimeoutMS bounds each ledger read issued by the service.
	ReadTimeoutMS int `koanf:"read_timeout_ms"`

	// GenLatencyMS is the simulated AI generation latency.
	GenLatencyMS int `koanf:"gen_latency_ms"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		ChainID:            88882, // Chiliz Spicy testnet
		StoreBackend:       StoreMemory,
		SQLitePath:         "fancred.db",
		LedgerLatencyMinMS: 20,
		LedgerLatencyMaxMS: 80,
		ReadTimeoutMS:      5000,
		GenLatencyMS:       250,
	}
}
