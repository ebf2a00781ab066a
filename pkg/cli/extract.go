package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/cli/config"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/usecase"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ErrConflictingMode is returned when --dry-run and --push are both given
var ErrConflictingMode = goerr.New("--dry-run and --push are mutually exclusive")

type beforeFunc = func(ctx context.Context, c *cli.Command) (context.Context, error)

func cmdExtract(api types.API, args []string, before beforeFunc) *cli.Command {
	var (
		magentoCfg   config.Magento
		vezaCfg      config.Veza
		outputCfg    config.Output
		rolesCfg     config.Roles
		settingsFile config.SettingsFile
		dryRun       bool
		push         bool
		supplement   bool
		noREST       bool
	)

	var flags []cli.Flag
	flags = append(flags, magentoCfg.Flags()...)
	flags = append(flags, vezaCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)
	flags = append(flags, settingsFile.Flags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Build and save the payload without pushing to Veza",
			Value:       true,
			Destination: &dryRun,
			Sources:     cli.EnvVars("DRY_RUN"),
		},
		&cli.BoolFlag{
			Name:        "push",
			Usage:       "Push the payload to Veza",
			Destination: &push,
		},
	)

	usage := "Extract a company through the REST API"
	switch api {
	case types.APIGraphQL:
		usage = "Extract a company through the GraphQL API"
		flags = append(flags,
			&cli.BoolFlag{
				Name:        "rest-supplement",
				Usage:       "Fetch explicit role permissions over REST",
				Value:       true,
				Destination: &supplement,
				Sources:     cli.EnvVars("USE_REST_ROLE_SUPPLEMENT"),
			},
			&cli.BoolFlag{
				Name:        "no-rest",
				Usage:       "Skip the REST role permission supplement",
				Destination: &noREST,
			},
		)
	case types.APIREST:
		flags = append(flags, rolesCfg.Flags()...)
	}

	return &cli.Command{
		Name:   api.String(),
		Usage:  usage,
		Flags:  flags,
		Before: before,
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, err := settingsFile.Load()
			if err != nil {
				return err
			}
			targets := config.Targets{Magento: &magentoCfg, Veza: &vezaCfg, Output: &outputCfg}
			if api == types.APIREST {
				targets.Roles = &rolesCfg
			}
			settings.Apply(c.IsSet, targets)

			// DRY_RUN from the environment yields to --push; only the two flags together conflict
			if dryRun && push && flagGiven(args, "dry-run") {
				return ErrConflictingMode
			}
			doPush := push || !dryRun

			logger := logging.Default()
			logger.Info("Extract configuration",
				"api", api,
				"magento", magentoCfg,
				"veza", vezaCfg,
				"output", outputCfg,
				"push", doPush,
			)

			// report every configuration problem before touching the network
			var errs []error
			if err := magentoCfg.Validate(); err != nil {
				errs = append(errs, err)
			}
			if err := vezaCfg.Validate(doPush); err != nil {
				errs = append(errs, err)
			}
			var roleGap *usecase.RoleGapHandler
			if api == types.APIREST {
				h, err := rolesCfg.Configure()
				if err != nil {
					errs = append(errs, err)
				}
				roleGap = h
			}
			if len(errs) > 0 {
				for _, e := range errs {
					logger.Error("invalid configuration", "error", e)
				}
				return errors.Join(errs...)
			}

			deployment, err := magentoCfg.Deployment()
			if err != nil {
				return err
			}
			profile, err := model.LookupConnector(api, deployment)
			if err != nil {
				return err
			}

			output := outputCfg.Configure()
			if _, err := usecase.Cleanup(ctx, output, time.Now()); err != nil {
				logger.Warn("output cleanup failed", "error", err)
			}

			svc, err := magentoCfg.Configure(ctx)
			if err != nil {
				return err
			}

			opts := []usecase.Option{
				usecase.WithPush(doPush),
				usecase.WithSaveJSON(outputCfg.SaveJSON()),
				usecase.WithProviderName(vezaCfg.ProviderName()),
			}
			switch api {
			case types.APIGraphQL:
				opts = append(opts, usecase.WithRESTSupplement(supplement && !noREST))
			case types.APIREST:
				opts = append(opts, usecase.WithRoleGapHandler(roleGap))
			}

			vezaSvc, err := vezaCfg.Configure()
			if err != nil {
				return err
			}
			if vezaSvc != nil {
				publisher := usecase.NewPublisher(vezaSvc, outputCfg.Registry(), vezaCfg.ProviderPrefix())
				opts = append(opts, usecase.WithPublisher(publisher))
			}

			pipeline := usecase.NewPipeline(profile, magentoCfg.StoreURL(), svc, output, opts...)
			result, runErr := pipeline.Run(ctx)
			printSummary(writerOf(c), result)
			return runErr
		},
	}
}

func writerOf(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
