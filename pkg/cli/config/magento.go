package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/urfave/cli/v3"
)

type Magento struct {
	deployment      string
	storeURL        string
	username        string
	password        string
	imsClientID     string
	imsClientSecret string
	imsScopes       string
	imsTokenURL     string
	timeout         time.Duration
}

func (x *Magento) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "deployment",
			Usage:       "Deployment type [onprem|cloud]",
			Category:    "Magento",
			Value:       types.DeploymentOnPrem.String(),
			Destination: &x.deployment,
			Sources:     cli.EnvVars("MAGENTO_DEPLOYMENT"),
		},
		&cli.StringFlag{
			Name:        "store-url",
			Usage:       "Magento store base URL",
			Category:    "Magento",
			Destination: &x.storeURL,
			Sources:     cli.EnvVars("MAGENTO_STORE_URL"),
		},
		&cli.StringFlag{
			Name:        "username",
			Usage:       "Company user email (onprem)",
			Category:    "Magento",
			Destination: &x.username,
			Sources:     cli.EnvVars("MAGENTO_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "Company user password (onprem)",
			Category:    "Magento",
			Destination: &x.password,
			Sources:     cli.EnvVars("MAGENTO_PASSWORD"),
		},
		&cli.StringFlag{
			Name:        "ims-client-id",
			Usage:       "Adobe IMS client ID (cloud)",
			Category:    "Magento",
			Destination: &x.imsClientID,
			Sources:     cli.EnvVars("ADOBE_IMS_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "ims-client-secret",
			Usage:       "Adobe IMS client secret (cloud)",
			Category:    "Magento",
			Destination: &x.imsClientSecret,
			Sources:     cli.EnvVars("ADOBE_IMS_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "ims-scopes",
			Usage:       "Adobe IMS scopes (cloud)",
			Category:    "Magento",
			Value:       magento.DefaultIMSScopes,
			Destination: &x.imsScopes,
			Sources:     cli.EnvVars("ADOBE_IMS_SCOPES"),
		},
		&cli.StringFlag{
			Name:        "ims-token-url",
			Usage:       "Adobe IMS token endpoint (cloud)",
			Category:    "Magento",
			Value:       magento.DefaultIMSTokenURL,
			Destination: &x.imsTokenURL,
			Sources:     cli.EnvVars("ADOBE_IMS_TOKEN_URL"),
		},
		&cli.DurationFlag{
			Name:        "magento-timeout",
			Usage:       "Timeout of each Magento request",
			Category:    "Magento",
			Value:       60 * time.Second,
			Destination: &x.timeout,
			Sources:     cli.EnvVars("MAGENTO_TIMEOUT"),
		},
	}
}

func (x Magento) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("deployment", x.deployment),
		slog.String("store_url", x.storeURL),
		slog.String("username", x.username),
		slog.Int("password.len", len(x.password)),
		slog.String("ims_client_id", x.imsClientID),
		slog.Int("ims_client_secret.len", len(x.imsClientSecret)),
		slog.Duration("timeout", x.timeout),
	)
}

// Deployment returns the parsed deployment type
func (x *Magento) Deployment() (types.Deployment, error) {
	d, err := types.ParseDeployment(x.deployment)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidDeployment, err.Error(), goerr.V(DeploymentKey, x.deployment))
	}
	return d, nil
}

// StoreURL returns the configured store URL
func (x *Magento) StoreURL() string {
	return x.storeURL
}

// Validate reports every missing value of the selected deployment at once
func (x *Magento) Validate() error {
	d, err := x.Deployment()
	if err != nil {
		return err
	}

	var missing []string
	if x.storeURL == "" {
		missing = append(missing, "MAGENTO_STORE_URL")
	}
	switch d {
	case types.DeploymentOnPrem:
		if x.username == "" {
			missing = append(missing, "MAGENTO_USERNAME")
		}
		if x.password == "" {
			missing = append(missing, "MAGENTO_PASSWORD")
		}
	case types.DeploymentCloud:
		if x.imsClientID == "" {
			missing = append(missing, "ADOBE_IMS_CLIENT_ID")
		}
		if x.imsClientSecret == "" {
			missing = append(missing, "ADOBE_IMS_CLIENT_SECRET")
		}
	}

	if len(missing) > 0 {
		return goerr.Wrap(ErrMissingCredential, "magento configuration is incomplete",
			goerr.V(DeploymentKey, d), goerr.V(MissingKey, missing))
	}
	return nil
}

func (x *Magento) credentials(d types.Deployment) magento.Credentials {
	if d == types.DeploymentCloud {
		return magento.IMSClientCredentials(x.imsClientID, x.imsClientSecret, x.imsScopes, x.imsTokenURL)
	}
	return magento.CustomerToken(x.username, x.password)
}

// Configure validates the settings and creates the Magento service
func (x *Magento) Configure(ctx context.Context) (magento.Service, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}
	d, err := x.Deployment()
	if err != nil {
		return nil, err
	}

	svc, err := magento.New(ctx, x.storeURL, x.credentials(d), magento.WithTimeout(x.timeout))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create magento client")
	}
	return svc, nil
}
