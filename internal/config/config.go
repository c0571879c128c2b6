package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Label store backends
const (
	LabelsBackendFile   = "file"
	LabelsBackendPebble = "pebble"
)

// DefaultLabelsFile is the label file name used when no path is configured.
// It lives next to the configuration file.
const DefaultLabelsFile = "address_labels.json"

// Config represents the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Node   NodeConfig   `yaml:"node"`
	Labels LabelsConfig `yaml:"labels"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// NodeConfig represents the Minima node command endpoint and the managed token
type NodeConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // Command timeout in seconds (default: 15)
	TokenID string `yaml:"token_id"`
}

// LabelsConfig represents the address label store configuration
type LabelsConfig struct {
	Backend    string `yaml:"backend"`     // "file" (default) or "pebble"
	Path       string `yaml:"path"`        // JSON file for the file backend
	PebblePath string `yaml:"pebble_path"` // Database directory for the pebble backend
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// CommandTimeout returns the node command timeout as a duration
func (n NodeConfig) CommandTimeout() time.Duration {
	return time.Duration(n.Timeout) * time.Second
}

// Load loads configuration from a YAML file, an optional .env file and
// environment variables, in that order of precedence (last wins).
func Load(path string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port: 5000,
			Host: "0.0.0.0",
		},
		Node: NodeConfig{
			URL:     "http://127.0.0.1:9005",
			Timeout: 15,
		},
		Labels: LabelsConfig{
			Backend:    LabelsBackendFile,
			PebblePath: "./data/labels",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if cfg.Labels.Path == "" {
		cfg.Labels.Path = filepath.Join(filepath.Dir(path), DefaultLabelsFile)
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Override with environment variables
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration can be used to start the server
func (c Config) Validate() error {
	if c.Node.URL == "" {
		return fmt.Errorf("node url is required")
	}
	if c.Node.TokenID == "" {
		return fmt.Errorf("token id is required")
	}
	if c.Node.Timeout <= 0 {
		return fmt.Errorf("node timeout must be positive, got %d", c.Node.Timeout)
	}
	switch c.Labels.Backend {
	case LabelsBackendFile:
		if c.Labels.Path == "" {
			return fmt.Errorf("labels path is required for the file backend")
		}
	case LabelsBackendPebble:
		if c.Labels.PebblePath == "" {
			return fmt.Errorf("labels pebble_path is required for the pebble backend")
		}
	default:
		return fmt.Errorf("unknown labels backend: %q", c.Labels.Backend)
	}
	return nil
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Node config
	if url := os.Getenv("NODE_URL"); url != "" {
		c.Node.URL = url
	}
	if timeout := os.Getenv("NODE_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.Node.Timeout = t
		}
	}
	if tokenID := os.Getenv("TOKEN_ID"); tokenID != "" {
		c.Node.TokenID = tokenID
	}

	// Labels config
	if backend := os.Getenv("LABELS_BACKEND"); backend != "" {
		c.Labels.Backend = backend
	}
	if path := os.Getenv("LABELS_PATH"); path != "" {
		c.Labels.Path = path
	}
	if path := os.Getenv("LABELS_PEBBLE_PATH"); path != "" {
		c.Labels.PebblePath = path
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}
