// Package config loads mailwright settings from a YAML file, with sane
// defaults when no file exists. Service profiles declared in config are
// merged after the built-in selector catalogs at registry construction;
// nothing mutates the table afterwards.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mailwright/mailwright/pkg/resolve"
)

// Config is the full application configuration.
type Config struct {
	Browser  BrowserSection                 `yaml:"browser"`
	Server   ServerSection                  `yaml:"server"`
	Profiles map[string]map[string][]string `yaml:"profiles"`
}

// BrowserSection controls the automation surface.
type BrowserSection struct {
	// Headless controls whether browsers run without a visible window.
	// Headed is the default for transparency during demos.
	Headless bool `yaml:"headless"`

	// TimeoutMs is the page default timeout in milliseconds.
	TimeoutMs float64 `yaml:"timeout_ms"`
}

// ServerSection controls the HTTP API.
type ServerSection struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Browser: BrowserSection{
			Headless:  false,
			TimeoutMs: 10000,
		},
		Server: ServerSection{
			Addr: ":8080",
		},
	}
}

// Load reads configuration from path. A missing file yields defaults;
// an unreadable or malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ServiceProfiles converts the config's profile section into the typed
// form the profile registry merges. Entries with unknown field roles are
// dropped.
func (c *Config) ServiceProfiles() map[resolve.ServiceID]map[resolve.FieldRole][]string {
	if len(c.Profiles) == 0 {
		return nil
	}

	out := make(map[resolve.ServiceID]map[resolve.FieldRole][]string, len(c.Profiles))
	for service, roles := range c.Profiles {
		for roleName, locators := range roles {
			role := resolve.FieldRole(roleName)
			if !role.Valid() || len(locators) == 0 {
				continue
			}
			id := resolve.ServiceID(service)
			if out[id] == nil {
				out[id] = make(map[resolve.FieldRole][]string)
			}
			out[id][role] = append([]string(nil), locators...)
		}
	}
	return out
}
