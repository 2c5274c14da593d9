package config

import "time"

// Config represents the complete fleetreport.yaml configuration file.
type Config struct {
	DefaultCredentials Credentials      `yaml:"default_credentials" mapstructure:"default_credentials"`
	Servers            []Server         `yaml:"servers" mapstructure:"servers"`
	Report             ReportConfig     `yaml:"report" mapstructure:"report"`
	Collection         CollectionConfig `yaml:"collection" mapstructure:"collection"`

	// StrictHostKeys enables known_hosts verification. Off by default so
	// freshly provisioned hosts can be polled without a keyscan step.
	StrictHostKeys bool `yaml:"strict_host_keys" mapstructure:"strict_host_keys"`
}

// Credentials holds the connection defaults applied to every server entry
// that doesn't override them.
type Credentials struct {
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Port     int    `yaml:"port" mapstructure:"port"`
}

// Server is one entry under the servers list. Only Host is required; the
// remaining fields override default_credentials when present.
type Server struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Username string `yaml:"username,omitempty" mapstructure:"username"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	Port     int    `yaml:"port,omitempty" mapstructure:"port"`
}

// ReportConfig controls where the xlsx report is written.
type ReportConfig struct {
	// Path is the report destination. Empty means a timestamped default
	// filename in the current directory.
	Path string `yaml:"path" mapstructure:"path"`
}

// CollectionConfig controls per-host collection behavior.
type CollectionConfig struct {
	// Timeout bounds the whole collection for one host, dial included.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// SampleGap is the delay between the two counter readings used for
	// CPU and network rate calculation.
	SampleGap time.Duration `yaml:"sample_gap" mapstructure:"sample_gap"`

	// Retries is how many additional dial attempts are made after a
	// connect-level failure. Auth and command failures are never retried.
	Retries int `yaml:"retries" mapstructure:"retries"`

	// Workers is the number of hosts collected concurrently. 1 keeps the
	// strictly sequential behavior.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// HostProfile is the resolved, immutable connection profile for one server:
// the entry's fields merged over default_credentials at load time.
type HostProfile struct {
	Host     string
	Username string
	Password string
	Port     int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultCredentials: Credentials{
			Port: 22,
		},
		Collection: CollectionConfig{
			Timeout:   30 * time.Second,
			SampleGap: 2 * time.Second,
			Retries:   1,
			Workers:   1,
		},
	}
}
