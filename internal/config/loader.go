package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/fleetreport/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = "fleetreport.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/fleetreport"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'fleetreport init' to create one, or specify a path with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. fleetreport.yaml in current directory
// 3. ~/.config/fleetreport/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults seeds viper so absent keys unmarshal to the documented defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("default_credentials.port", 22)
	v.SetDefault("collection.timeout", "30s")
	v.SetDefault("collection.sample_gap", "2s")
	v.SetDefault("collection.retries", 1)
	v.SetDefault("collection.workers", 1)
	v.SetDefault("strict_host_keys", false)
}

// Profiles resolves every server entry against the default credentials.
// Entry fields win over defaults; resolution happens once here so nothing
// downstream ever consults the defaults again.
func (c *Config) Profiles() []HostProfile {
	profiles := make([]HostProfile, 0, len(c.Servers))
	for _, s := range c.Servers {
		p := HostProfile{
			Host:     s.Host,
			Username: c.DefaultCredentials.Username,
			Password: c.DefaultCredentials.Password,
			Port:     c.DefaultCredentials.Port,
		}
		if s.Username != "" {
			p.Username = s.Username
		}
		if s.Password != "" {
			p.Password = s.Password
		}
		if s.Port != 0 {
			p.Port = s.Port
		}
		if p.Port == 0 {
			p.Port = 22
		}
		profiles = append(profiles, p)
	}
	return profiles
}
