package config

import (
	"fmt"
	"github.com/ghjm/showip/pkg/present"
	"github.com/ghjm/showip/pkg/resolve"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

// Config holds the settings that can be given in a config file.  Command line flags override them.
type Config struct {
	Resolver   string        `yaml:"resolver"`
	Server     string        `yaml:"server"`
	Net        string        `yaml:"net"`
	PreferGo   bool          `yaml:"prefer-go"`
	ResolvConf string        `yaml:"resolv-conf"`
	Timeout    time.Duration `yaml:"timeout"`
	Color      string        `yaml:"color"`
	LogLevel   string        `yaml:"log-level"`
}

var (
	resolverKinds = []string{resolve.KindSystem, resolve.KindDNS}
	netTypes      = []string{"udp", "tcp", "tcp-tls"}
	colorModes    = []string{present.ColorAuto, present.ColorAlways, present.ColorNever}
	logLevels     = []string{"error", "warning", "info", "debug"}
)

// Default returns the configuration used when no config file is given
func Default() *Config {
	return &Config{
		Resolver:   resolve.KindSystem,
		Net:        "udp",
		ResolvConf: resolve.DefaultResolvConf,
		Color:      present.ColorAuto,
		LogLevel:   "warning",
	}
}

// LoadConfig reads a YAML config file.  Keys missing from the file keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	err = config.Validate()
	if err != nil {
		return nil, fmt.Errorf("error in %s: %w", filename, err)
	}
	return config, nil
}

func checkOneOf(name string, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q (must be one of %v)", name, value, allowed)
	}
	return nil
}

// Validate checks that all values are in range
func (c *Config) Validate() error {
	if err := checkOneOf("resolver", c.Resolver, resolverKinds); err != nil {
		return err
	}
	if err := checkOneOf("net", c.Net, netTypes); err != nil {
		return err
	}
	if err := checkOneOf("color", c.Color, colorModes); err != nil {
		return err
	}
	if err := checkOneOf("log-level", c.LogLevel, logLevels); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// ResolverOptions returns the options for creating the configured resolver
func (c *Config) ResolverOptions() resolve.Options {
	return resolve.Options{
		Kind:       c.Resolver,
		PreferGo:   c.PreferGo,
		Server:     c.Server,
		Net:        c.Net,
		ResolvConf: c.ResolvConf,
	}
}
