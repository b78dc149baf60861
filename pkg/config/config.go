package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file used by the CLI if none is given.
const DefaultConfigPath = "./config/michelson.yml"

// Version the version of the application, set at build time.
var Version string

// Config top level struct representing the config
// for the application.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	VM                       VM                       `yaml:"VM"`
	Environment              Environment              `yaml:"Environment"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: "info",
			Prometheus: BasicService{
				Addresses: []string{":2112"},
			},
			Pprof: BasicService{
				Addresses: []string{":2113"},
			},
		},
		VM: VM{
			MaxNestingDepth: DefaultMaxNestingDepth,
			ScriptCacheSize: DefaultScriptCacheSize,
		},
		Environment: DefaultEnvironment(),
	}
}

// LoadFile loads config from the provided path, values missing from the file
// keep their defaults.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if err := c.ApplicationConfiguration.Validate(); err != nil {
		return fmt.Errorf("invalid ApplicationConfiguration: %w", err)
	}
	if err := c.VM.Validate(); err != nil {
		return fmt.Errorf("invalid VM configuration: %w", err)
	}
	if err := c.Environment.Validate(); err != nil {
		return fmt.Errorf("invalid Environment: %w", err)
	}
	return nil
}
