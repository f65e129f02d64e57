package commands

import (
	"errors"
	"fmt"
	"os"
	"smm-wrapper/lib/configutil"
	"smm-wrapper/lib/smm"
	"smm-wrapper/lib/smm/api"
	"smm-wrapper/lib/smm/core"

	"github.com/spf13/pflag"
)

type Config struct {
	Protocol string `json:"protocol"`
	Domain   string `json:"domain"`
	Unit     string `json:"unit"`
	Username string `json:"username"`
	Password string `json:"password"`
	ApiKey   string `json:"api_key"`
	Attempts int    `json:"attempts"`
	IdColumn string `json:"id_column"`
}

func bindConfigFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.StringVar(&cfg.Protocol, "protocol", core.DefaultProtocol, "The protocol used to reach the service.")
	flags.StringVar(&cfg.Domain, "domain", core.DefaultDomain, "The host (and port) of the service.")
	flags.StringVar(&cfg.Unit, "unit", core.DefaultUnit, "The unit to query, politicians or organizations.")
	flags.StringVar(&cfg.Username, "username", "", "The username for basic auth.")
	flags.StringVar(&cfg.Password, "password", "", "The password for basic auth.")
	flags.StringVar(&cfg.ApiKey, "api-key", "", "The api key sent with every request.")
	flags.IntVar(&cfg.Attempts, "attempts", core.DefaultAttempts, "How many times a failed request is retried.")
	flags.StringVar(&cfg.IdColumn, "id-column", "", "Overrides the name of the entity id column.")
}

// readConfig reads the config file if it exists, an absent file yields the
// zero config.
func readConfig(name string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](name)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", name, err)
	}
	return cfg, nil
}

// mergeFlags overrides the fields of cfg with the flags that were explicitly
// set, fields unset in both take the flag defaults.
func mergeFlags(cfg Config, flags *pflag.FlagSet, values Config) Config {
	pick := func(name string, fromFile *string, fromFlag string) {
		if flags.Changed(name) || *fromFile == "" {
			*fromFile = fromFlag
		}
	}
	pick("protocol", &cfg.Protocol, values.Protocol)
	pick("domain", &cfg.Domain, values.Domain)
	pick("unit", &cfg.Unit, values.Unit)
	pick("username", &cfg.Username, values.Username)
	pick("password", &cfg.Password, values.Password)
	pick("api-key", &cfg.ApiKey, values.ApiKey)
	pick("id-column", &cfg.IdColumn, values.IdColumn)
	if flags.Changed("attempts") || cfg.Attempts == 0 {
		cfg.Attempts = values.Attempts
	}
	return cfg
}

func (c Config) validate() error {
	switch c.Unit {
	case api.UnitPoliticians, api.UnitOrganizations:
		return nil
	default:
		return fmt.Errorf("unknown unit %q, expected %s or %s", c.Unit, api.UnitPoliticians, api.UnitOrganizations)
	}
}

func (c Config) options() smm.Options {
	return smm.Options{
		ClientOptions: core.ClientOptions{
			Username: c.Username,
			Password: c.Password,
			ApiKey:   c.ApiKey,
			Protocol: c.Protocol,
			Domain:   c.Domain,
			Unit:     c.Unit,
			Attempts: c.Attempts,
		},
		IdColumn: c.IdColumn,
	}
}
