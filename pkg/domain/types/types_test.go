package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
)

func TestRoleStrategy_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		strategy types.RoleStrategy
		want     bool
	}{
		{name: "default role", strategy: types.RoleStrategyDefaultRole, want: true},
		{name: "csv supplement", strategy: types.RoleStrategyCSVSupplement, want: true},
		{name: "all roles", strategy: types.RoleStrategyAllRoles, want: true},
		{name: "skip", strategy: types.RoleStrategySkip, want: true},
		{name: "unknown", strategy: types.RoleStrategy("random"), want: false},
		{name: "empty", strategy: types.RoleStrategy(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.strategy.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseRoleStrategy(t *testing.T) {
	s, err := types.ParseRoleStrategy("csv_supplement")
	gt.NoError(t, err).Required()
	gt.Value(t, s).Equal(types.RoleStrategyCSVSupplement)

	_, err = types.ParseRoleStrategy("CSV")
	gt.Value(t, err).NotNil()
}

func TestAllRoleStrategies(t *testing.T) {
	all := types.AllRoleStrategies()
	gt.Array(t, all).Length(4)
	for _, s := range all {
		gt.Bool(t, s.IsValid()).True()
	}
}

func TestParseRESTEntityType(t *testing.T) {
	e, err := types.ParseRESTEntityType("customer")
	gt.NoError(t, err).Required()
	gt.Value(t, e).Equal(types.EntityCustomer)

	e, err = types.ParseRESTEntityType("team")
	gt.NoError(t, err).Required()
	gt.Value(t, e).Equal(types.EntityCompanyTeam)

	_, err = types.ParseRESTEntityType("Customer")
	gt.Value(t, err).NotNil()
}

func TestParsePermissionEffect(t *testing.T) {
	p, err := types.ParsePermissionEffect("allow")
	gt.NoError(t, err).Required()
	gt.Value(t, p).Equal(types.PermissionAllow)

	_, err = types.ParsePermissionEffect("ALLOW")
	gt.Value(t, err).NotNil()
}

func TestParseDeployment(t *testing.T) {
	d, err := types.ParseDeployment("cloud")
	gt.NoError(t, err).Required()
	gt.Value(t, d).Equal(types.DeploymentCloud)
	gt.Bool(t, types.DeploymentOnPrem.IsValid()).True()

	_, err = types.ParseDeployment("saas")
	gt.Value(t, err).NotNil()
}
