package config

import (
	"fmt"

	"github.com/rileyhilliard/fleetreport/internal/errors"
)

// Validate checks a loaded config for problems that would make a collection
// run meaningless. All validation failures are CONFIG errors and abort
// before any host is contacted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is empty",
			"Run 'fleetreport init' to create a config file")
	}

	if len(cfg.Servers) == 0 {
		return errors.New(errors.ErrConfig,
			"No servers configured",
			"Add at least one entry under 'servers' in the config file")
	}

	seen := make(map[string]int)
	for i, s := range cfg.Servers {
		if s.Host == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Server entry %d is missing 'host'", i+1),
				"Every entry under 'servers' needs a host address")
		}

		if prev, dup := seen[s.Host]; dup {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Server '%s' is listed twice (entries %d and %d)", s.Host, prev+1, i+1),
				"Each host may appear only once; the report has one row per host")
		}
		seen[s.Host] = i

		if err := validatePort(s.Host, s.Port); err != nil {
			return err
		}
	}

	if err := validatePort("default_credentials", cfg.DefaultCredentials.Port); err != nil {
		return err
	}

	if cfg.Collection.Timeout < 0 || cfg.Collection.SampleGap < 0 {
		return errors.New(errors.ErrConfig,
			"Collection timeout and sample_gap must not be negative",
			"Use durations like 30s or 2s")
	}

	if cfg.Collection.Retries < 0 {
		return errors.New(errors.ErrConfig,
			"collection.retries must not be negative",
			"Use 0 to disable retries")
	}

	if cfg.Collection.Workers < 0 {
		return errors.New(errors.ErrConfig,
			"collection.workers must not be negative",
			"Use 1 for sequential collection")
	}

	return nil
}

// validatePort checks a port value; 0 means "inherit" and is allowed.
func validatePort(context string, port int) error {
	if port == 0 {
		return nil
	}
	if port < 1 || port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid port %d for %s", port, context),
			"Ports must be between 1 and 65535")
	}
	return nil
}
