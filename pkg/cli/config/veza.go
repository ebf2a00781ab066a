package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/service/veza"
	"github.com/urfave/cli/v3"
)

type Veza struct {
	url            string
	apiKey         string
	providerName   string
	providerPrefix string
}

func (x *Veza) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "veza-url",
			Usage:       "Veza tenant URL",
			Category:    "Veza",
			Destination: &x.url,
			Sources:     cli.EnvVars("VEZA_URL"),
		},
		&cli.StringFlag{
			Name:        "veza-api-key",
			Usage:       "Veza API key",
			Category:    "Veza",
			Destination: &x.apiKey,
			Sources:     cli.EnvVars("VEZA_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "provider-name",
			Usage:       "Override the Veza provider name of the connector",
			Category:    "Veza",
			Destination: &x.providerName,
			Sources:     cli.EnvVars("PROVIDER_NAME"),
		},
		&cli.StringFlag{
			Name:        "provider-prefix",
			Usage:       "Prefix joined to the provider name, e.g. per environment",
			Category:    "Veza",
			Destination: &x.providerPrefix,
			Sources:     cli.EnvVars("PROVIDER_PREFIX"),
		},
	}
}

func (x Veza) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.url),
		slog.Int("api_key.len", len(x.apiKey)),
		slog.String("provider_name", x.providerName),
		slog.String("provider_prefix", x.providerPrefix),
	)
}

// ProviderName returns the provider name override, empty when unset
func (x *Veza) ProviderName() string {
	return x.providerName
}

// ProviderPrefix returns the provider prefix, empty when unset
func (x *Veza) ProviderPrefix() string {
	return x.providerPrefix
}

// IsConfigured reports whether both the URL and the API key are set
func (x *Veza) IsConfigured() bool {
	return x.url != "" && x.apiKey != ""
}

// Validate requires the Veza credentials only when a push is requested
func (x *Veza) Validate(push bool) error {
	if !push {
		return nil
	}
	var missing []string
	if x.url == "" {
		missing = append(missing, "VEZA_URL")
	}
	if x.apiKey == "" {
		missing = append(missing, "VEZA_API_KEY")
	}
	if len(missing) > 0 {
		return goerr.Wrap(ErrMissingCredential, "veza configuration is incomplete", goerr.V(MissingKey, missing))
	}
	return nil
}

// Configure returns nil without error when Veza is not configured
func (x *Veza) Configure() (veza.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	svc, err := veza.New(x.url, x.apiKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create veza client")
	}
	return svc, nil
}
