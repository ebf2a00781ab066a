package config

import (
	"log/slog"

	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Roles selects how REST runs fill the missing user to role link
type Roles struct {
	strategy    string
	mappingPath string
}

func (x *Roles) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "strategy",
			Usage:       "Role gap strategy [default_role|csv_supplement|all_roles|skip]",
			Category:    "Roles",
			Value:       types.RoleStrategyDefaultRole.String(),
			Destination: &x.strategy,
			Sources:     cli.EnvVars("USER_ROLE_STRATEGY"),
		},
		&cli.StringFlag{
			Name:        "role-mapping",
			Usage:       "CSV with email,role_name columns for csv_supplement",
			Category:    "Roles",
			Destination: &x.mappingPath,
			Sources:     cli.EnvVars("USER_ROLE_MAPPING_PATH"),
		},
	}
}

func (x Roles) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("strategy", x.strategy),
		slog.String("mapping_path", x.mappingPath),
	)
}

// Configure creates the role gap handler. An unknown strategy fails before any request is made.
func (x *Roles) Configure() (*usecase.RoleGapHandler, error) {
	return usecase.NewRoleGapHandler(types.RoleStrategy(x.strategy), x.mappingPath)
}
