package cli

import (
	"context"

	"github.com/secmon-lab/magento-oaa/pkg/cli/config"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/utils/errutil"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var envFile string
	var closers []func()

	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// .env values feed the flag sources, so they are loaded before parsing
	if err := loadEnvFile(args); err != nil {
		return errutil.Handle(ctx, err, "failed to load env file")
	}

	// flags of the subcommand are parsed after the root Before hook, so
	// logging is set up per subcommand where --debug is already known
	setup := func(ctx context.Context, c *cli.Command) (context.Context, error) {
		closeLog, err := loggerCfg.Configure()
		if err != nil {
			return ctx, err
		}
		closers = append(closers, closeLog)

		flush, err := sentryCfg.Configure(version)
		if err != nil {
			return ctx, err
		}
		closers = append(closers, flush)

		logging.Default().Debug("Starting magento-oaa",
			"version", version,
			"command", c.Name,
			"logger", loggerCfg,
			"sentry", sentryCfg,
		)
		return ctx, nil
	}

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        envFlagName,
		Usage:       "Credentials file loaded before flags are read; existing environment variables win",
		Value:       defaultEnvFile,
		Destination: &envFile,
	})

	app := &cli.Command{
		Name:    "magento-oaa",
		Usage:   "Extract Adobe Commerce B2B company access into Veza OAA",
		Version: version,
		Flags:   flags,
		Commands: []*cli.Command{
			cmdExtract(types.APIGraphQL, args, setup),
			cmdExtract(types.APIREST, args, setup),
			cmdCleanup(setup),
			cmdPermissions(setup),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run app")
	}

	return nil
}
