package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/secmon-lab/magento-oaa/pkg/cli/config"
	"github.com/secmon-lab/magento-oaa/pkg/usecase"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdCleanup(before beforeFunc) *cli.Command {
	var outputCfg config.Output
	var settingsFile config.SettingsFile

	var flags []cli.Flag
	flags = append(flags, outputCfg.Flags()...)
	flags = append(flags, settingsFile.Flags()...)

	return &cli.Command{
		Name:   "cleanup",
		Usage:  "Delete run folders older than the retention period",
		Flags:  flags,
		Before: before,
		Action: func(ctx context.Context, c *cli.Command) error {
			settings, err := settingsFile.Load()
			if err != nil {
				return err
			}
			settings.Apply(c.IsSet, config.Targets{Output: &outputCfg})

			logging.Default().Info("Cleanup configuration", "output", outputCfg)

			removed, err := usecase.Cleanup(ctx, outputCfg.Configure(), time.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(writerOf(c), "removed %d run folder(s) from %s\n", removed, outputCfg.Dir())
			return nil
		},
	}
}
