package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Settings is the optional TOML file passed with --config. Flags and
// environment variables that are set take precedence over it.
//
//	[provider]
//	name = "Acme_B2B"
//	prefix = "prod"
//
//	[output]
//	dir = "./output"
//	retention_days = 14
//	save_json = true
//
//	[roles]
//	strategy = "csv_supplement"
//	mapping_path = "./roles.csv"
//
//	[magento]
//	deployment = "cloud"
//	store_url = "https://shop.example.com"
//	timeout = "30s"
type Settings struct {
	Provider struct {
		Name   string `toml:"name"`
		Prefix string `toml:"prefix"`
	} `toml:"provider"`

	Output struct {
		Dir           string `toml:"dir"`
		RetentionDays *int   `toml:"retention_days"`
		SaveJSON      *bool  `toml:"save_json"`
	} `toml:"output"`

	Roles struct {
		Strategy    string `toml:"strategy"`
		MappingPath string `toml:"mapping_path"`
	} `toml:"roles"`

	Magento struct {
		Deployment string `toml:"deployment"`
		StoreURL   string `toml:"store_url"`
		Timeout    string `toml:"timeout"`
	} `toml:"magento"`
}

// SettingsFile carries the --config flag
type SettingsFile struct {
	path string
}

func (x *SettingsFile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Settings file (TOML)",
			Destination: &x.path,
			Sources:     cli.EnvVars("MAGENTO_OAA_CONFIG"),
		},
	}
}

// Load returns nil when no settings file is given
func (x *SettingsFile) Load() (*Settings, error) {
	if x.path == "" {
		return nil, nil
	}
	return LoadSettings(x.path)
}

// LoadSettings parses a TOML settings file
func LoadSettings(path string) (*Settings, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read settings file", goerr.V(SettingsKey, path))
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, goerr.Wrap(ErrInvalidSettings, err.Error(), goerr.V(SettingsKey, path))
	}
	if s.Magento.Timeout != "" {
		if _, err := time.ParseDuration(s.Magento.Timeout); err != nil {
			return nil, goerr.Wrap(ErrInvalidSettings, "invalid magento timeout",
				goerr.V(SettingsKey, path), goerr.V("timeout", s.Magento.Timeout))
		}
	}
	if s.Output.RetentionDays != nil && *s.Output.RetentionDays < 0 {
		return nil, goerr.Wrap(ErrInvalidSettings, "retention_days must not be negative",
			goerr.V(SettingsKey, path))
	}
	return &s, nil
}

// Targets are the configs a settings file can fill in. Nil targets are skipped.
type Targets struct {
	Magento *Magento
	Veza    *Veza
	Output  *Output
	Roles   *Roles
}

// Apply copies values into targets for every flag isSet reports as unset
func (s *Settings) Apply(isSet func(name string) bool, t Targets) {
	if s == nil {
		return
	}
	setString := func(flag string, dst *string, v string) {
		if v != "" && !isSet(flag) {
			*dst = v
		}
	}

	if m := t.Magento; m != nil {
		setString("deployment", &m.deployment, s.Magento.Deployment)
		setString("store-url", &m.storeURL, s.Magento.StoreURL)
		if s.Magento.Timeout != "" && !isSet("magento-timeout") {
			if d, err := time.ParseDuration(s.Magento.Timeout); err == nil {
				m.timeout = d
			}
		}
	}

	if v := t.Veza; v != nil {
		setString("provider-name", &v.providerName, s.Provider.Name)
		setString("provider-prefix", &v.providerPrefix, s.Provider.Prefix)
	}

	if o := t.Output; o != nil {
		setString("output-dir", &o.dir, s.Output.Dir)
		if s.Output.RetentionDays != nil && !isSet("output-retention-days") {
			o.retentionDays = *s.Output.RetentionDays
		}
		if s.Output.SaveJSON != nil && !isSet("save-json") {
			o.saveJSON = *s.Output.SaveJSON
		}
	}

	if r := t.Roles; r != nil {
		setString("strategy", &r.strategy, s.Roles.Strategy)
		setString("role-mapping", &r.mappingPath, s.Roles.MappingPath)
	}
}
