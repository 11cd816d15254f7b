// Package config defines the outpost node configuration structure.
package config

import (
	"fmt"
	"time"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// NodeConfig is the root configuration for an outpost node.
type NodeConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Auth    AuthSection    `koanf:"auth"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the HTTP endpoint and outpost identity.
type ServerSection struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr"`

	// Fort is the outpost identity (e.g., "fishing_fort").
	Fort string `koanf:"fort"`

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// StorageSection configures the record store.
type StorageSection struct {
	// Backend selects the store implementation (memory, badger).
	Backend string `koanf:"backend"`

	// DataDir is the Badger data directory.
	DataDir string `koanf:"data_dir"`

	// SyncWrites fsyncs every Badger write.
	SyncWrites bool `koanf:"sync_writes"`
}

// AuthSection configures sessions and login throttling.
type AuthSection struct {
	// SessionTTL is the lifetime of issued tokens.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// LoginRate is the allowed login attempts per second per username.
	LoginRate float64 `koanf:"login_rate"`

	// LoginBurst is the burst size for login attempts.
	LoginBurst int `koanf:"login_burst"`

	// Users are the accounts known to this outpost.
	Users []UserEntry `koanf:"users"`
}

// UserEntry is one configured account.
type UserEntry struct {
	Username     string `koanf:"username"`
	PasswordHash string `koanf:"password_hash"`
	Role         string `koanf:"role"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the default node configuration.
func Default() NodeConfig {
	return NodeConfig{
		Server: ServerSection{
			Addr:         "127.0.0.1:8001",
			Fort:         "trading_fort",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Storage: StorageSection{
			Backend: BackendMemory,
			DataDir: "data",
		},
		Auth: AuthSection{
			SessionTTL: 30 * time.Minute,
			LoginRate:  1,
			LoginBurst: 5,
		},
		Log: LogSection{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *NodeConfig) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if c.Server.Fort == "" {
		return fmt.Errorf("config: server.fort is required")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendBadger:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("config: storage.data_dir is required for the badger backend")
		}
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("config: auth.session_ttl must be positive")
	}
	for i, u := range c.Auth.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return fmt.Errorf("config: auth.users[%d] needs username and password_hash", i)
		}
		switch u.Role {
		case "commander", "trader", "observer":
		default:
			return fmt.Errorf("config: auth.users[%d] has unknown role %q", i, u.Role)
		}
	}
	return nil
}
