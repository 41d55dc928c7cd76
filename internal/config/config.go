// Package config loads and hot-reloads bookforge configuration, layering
// defaults, an optional YAML file, and BOOKFORGE_-prefixed environment
// variables, via a viper-based Manager.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
	v         *viper.Viper
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	v := viper.New()
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
		v:         v,
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	cm.v.SetDefault("digitization", defaults.Digitization)
	cm.v.SetDefault("llm", defaults.LLM)
	cm.v.SetDefault("pipeline", defaults.Pipeline)
	cm.v.SetDefault("paths", defaults.Paths)

	cm.v.SetEnvPrefix("BOOKFORGE")
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("config")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		cm.v.AddConfigPath("$HOME/.bookforge")
	}

	if err := cm.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	resolveEnvInPlace(&cfg)
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration via fsnotify.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// resolveEnvInPlace resolves ${ENV_VAR} references in the secret-bearing
// fields of cfg.
func resolveEnvInPlace(cfg *Config) {
	cfg.Digitization.EndpointURL = ResolveEnvVars(cfg.Digitization.EndpointURL)
	cfg.Digitization.APIKey = ResolveEnvVars(cfg.Digitization.APIKey)
	cfg.LLM.EndpointURL = ResolveEnvVars(cfg.LLM.EndpointURL)
	cfg.LLM.APIKey = ResolveEnvVars(cfg.LLM.APIKey)
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yamlMarshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# bookforge configuration
# API keys and endpoint URLs use ${ENV_VAR} syntax to reference environment variables.
# export BOOKFORGE_DIGITIZATION_API_KEY=xxx BOOKFORGE_LLM_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
