package config

import (
	"log/slog"

	"github.com/secmon-lab/magento-oaa/pkg/repository/filesystem"
	"github.com/urfave/cli/v3"
)

const (
	defaultOutputDir     = "./output"
	defaultRetentionDays = 30
)

type Output struct {
	dir           string
	retentionDays int
	saveJSON      bool
}

func (x *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output-dir",
			Usage:       "Directory of run folders and the provider registry",
			Category:    "Output",
			Value:       defaultOutputDir,
			Destination: &x.dir,
			Sources:     cli.EnvVars("OUTPUT_DIR"),
		},
		&cli.IntFlag{
			Name:        "output-retention-days",
			Usage:       "Delete run folders older than this many days (0 keeps everything)",
			Category:    "Output",
			Value:       defaultRetentionDays,
			Destination: &x.retentionDays,
			Sources:     cli.EnvVars("OUTPUT_RETENTION_DAYS"),
		},
		&cli.BoolFlag{
			Name:        "save-json",
			Usage:       "Save the OAA payload into the run folder",
			Category:    "Output",
			Value:       true,
			Destination: &x.saveJSON,
			Sources:     cli.EnvVars("SAVE_JSON"),
		},
	}
}

func (x Output) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dir", x.dir),
		slog.Int("retention_days", x.retentionDays),
		slog.Bool("save_json", x.saveJSON),
	)
}

// SaveJSON reports whether the payload file is written
func (x *Output) SaveJSON() bool {
	return x.saveJSON
}

// Dir returns the output base directory
func (x *Output) Dir() string {
	return x.dir
}

// Configure returns the run folder store
func (x *Output) Configure() *filesystem.Output {
	return filesystem.NewOutput(x.dir, x.retentionDays)
}

// Registry returns the provider registry stored in the output directory
func (x *Output) Registry() *filesystem.Registry {
	return filesystem.NewRegistry(x.dir)
}
