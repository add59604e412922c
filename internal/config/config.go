// Package config loads the per-network endpoint configuration the engine
// runs against.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultTokenDecimals is the token's atomic-unit factor exponent: one
// display unit is 10^8 atomic units.
const DefaultTokenDecimals = 8

// Network is one selectable network: three node endpoint roles, an
// optional indexer, and the shard the deploys target.
type Network struct {
	Name          string `toml:"name"`
	ValidatorURL  string `toml:"validator_url"`
	ReadOnlyURL   string `toml:"read_only_url"`
	AdminURL      string `toml:"admin_url,omitempty"`
	IndexerURL    string `toml:"indexer_url,omitempty"`
	ShardID       string `toml:"shard_id"`
	TokenDecimals int    `toml:"token_decimals,omitempty"`
}

// Config is the persisted configuration file shape.
type Config struct {
	// DefaultNetwork names the network used when none is selected.
	DefaultNetwork string `toml:"default_network"`

	// PageOrigin is the scheme+host the embedding application is served
	// from. When https, plain-http indexer endpoints are refused as
	// mixed content.
	PageOrigin string `toml:"page_origin,omitempty"`

	Networks []Network `toml:"networks"`
}

// DefaultConfig returns a config pointed at a local node.
func DefaultConfig() *Config {
	return &Config{
		DefaultNetwork: "localnet",
		Networks: []Network{
			{
				Name:          "localnet",
				ValidatorURL:  "http://localhost:40403",
				ReadOnlyURL:   "http://localhost:40413",
				AdminURL:      "http://localhost:40405",
				ShardID:       "root",
				TokenDecimals: DefaultTokenDecimals,
			},
		},
	}
}

// Load reads the config file at path, falling back to defaults when it
// does not exist. A .env file next to the config (or in the working
// directory) plus process environment variables override endpoint fields
// for the default network.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg = &Config{}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config file, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return fmt.Errorf("config defines no networks")
	}
	names := make(map[string]bool, len(c.Networks))
	for i, n := range c.Networks {
		if n.Name == "" {
			return fmt.Errorf("network %d has no name", i)
		}
		if names[n.Name] {
			return fmt.Errorf("duplicate network name %q", n.Name)
		}
		names[n.Name] = true
		if n.ValidatorURL == "" || n.ReadOnlyURL == "" {
			return fmt.Errorf("network %q must set validator_url and read_only_url", n.Name)
		}
	}
	if c.DefaultNetwork != "" && !names[c.DefaultNetwork] {
		return fmt.Errorf("default network %q is not defined", c.DefaultNetwork)
	}
	return nil
}

// Lookup returns the named network, or the default network when name is
// empty.
func (c *Config) Lookup(name string) (Network, error) {
	if name == "" {
		name = c.DefaultNetwork
	}
	for _, n := range c.Networks {
		if n.Name == name {
			if n.TokenDecimals == 0 {
				n.TokenDecimals = DefaultTokenDecimals
			}
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("unknown network %q", name)
}

// applyEnv overrides the default network's endpoints from the environment.
// Priority: default < config file < environment.
func applyEnv(cfg *Config) {
	for i := range cfg.Networks {
		if cfg.Networks[i].Name != cfg.DefaultNetwork {
			continue
		}
		if v := os.Getenv("REVWALLET_VALIDATOR_URL"); v != "" {
			cfg.Networks[i].ValidatorURL = v
		}
		if v := os.Getenv("REVWALLET_READ_ONLY_URL"); v != "" {
			cfg.Networks[i].ReadOnlyURL = v
		}
		if v := os.Getenv("REVWALLET_ADMIN_URL"); v != "" {
			cfg.Networks[i].AdminURL = v
		}
		if v := os.Getenv("REVWALLET_INDEXER_URL"); v != "" {
			cfg.Networks[i].IndexerURL = v
		}
		if v := os.Getenv("REVWALLET_SHARD_ID"); v != "" {
			cfg.Networks[i].ShardID = v
		}
	}
	if v := os.Getenv("REVWALLET_PAGE_ORIGIN"); v != "" {
		cfg.PageOrigin = v
	}
}
