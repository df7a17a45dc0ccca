package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

type ValidatorConfig struct {
	MaxCycleDepth  int  `toml:"max_cycle_depth" validate:"gte=1,lte=100000"`
	AllowSameDate  bool `toml:"allow_same_date"`
	StrictEvidence bool `toml:"strict_evidence"`
}

type CheckpointConfig struct {
	DenyUnknownKinds bool `toml:"deny_unknown_kinds"`
}

type EvidenceConfig struct {
	// PolicyPath overrides the embedded tier table when set.
	PolicyPath string `toml:"policy_path"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type StoreConfig struct {
	Backend    string `toml:"backend" validate:"oneof=memory badger memgraph"`
	BadgerPath string `toml:"badger_path" validate:"required_if=Backend badger"`
}

type ServerConfig struct {
	Port string `toml:"port" validate:"required,numeric"`
	Mode string `toml:"mode" validate:"oneof=debug release test"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

type Config struct {
	Validator  ValidatorConfig  `toml:"validator"`
	Checkpoint CheckpointConfig `toml:"checkpoint"`
	Evidence   EvidenceConfig   `toml:"evidence"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Store      StoreConfig      `toml:"store"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

var validate = validator.New()

func Default() *Config {
	return &Config{
		Validator: ValidatorConfig{
			MaxCycleDepth: 100,
			AllowSameDate: true,
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Store: StoreConfig{
			Backend:    "memory",
			BadgerPath: "data/links",
		},
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides selected values from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MAX_CYCLE_DEPTH"); v != "" {
		if depth, err := strconv.Atoi(v); err == nil {
			c.Validator.MaxCycleDepth = depth
		}
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
