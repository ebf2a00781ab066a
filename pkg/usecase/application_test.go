package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model/oaa"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/usecase"
)

var syncTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("JST", 9*60*60))

func graphqlProfile(t *testing.T) model.ConnectorProfile {
	t.Helper()
	p, err := model.LookupConnector(types.APIGraphQL, types.DeploymentOnPrem)
	gt.NoError(t, err).Required()
	return p
}

func sampleEntities(t *testing.T) *model.Entities {
	t.Helper()
	entities, err := usecase.ExtractGraphQL(context.Background(), sampleGraphQLData())
	gt.NoError(t, err).Required()
	return entities
}

func buildSampleApp(t *testing.T) (*oaa.Application, *model.Entities) {
	t.Helper()
	entities := sampleEntities(t)
	app, err := usecase.BuildApplication(context.Background(), graphqlProfile(t), "https://shop.acme.com", entities, syncTime)
	gt.NoError(t, err).Required()
	return app, entities
}

func TestBuildApplicationNaming(t *testing.T) {
	app, _ := buildSampleApp(t)

	gt.Value(t, app.Name).Equal("magento_onprem_graphql_1")
	gt.Value(t, app.ApplicationType).Equal("Magento B2B On-Prem (GraphQL)")
	gt.Value(t, app.Description).Equal("Adobe Commerce B2B - Acme Corp (On-Prem, GraphQL connector)")

	v, ok := app.Property("sync_timestamp")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal("2026-03-03T20:06:07Z")

	v, ok = app.Property("store_url")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal("https://shop.acme.com")
}

func TestBuildApplicationEntities(t *testing.T) {
	app, _ := buildSampleApp(t)

	t.Run("every catalog permission is registered", func(t *testing.T) {
		gt.Array(t, app.CustomPermissions()).Length(len(model.ACLCatalog()))
		for _, p := range app.CustomPermissions() {
			acl, ok := model.LookupACL(p.Name)
			gt.Bool(t, ok).True()
			gt.Value(t, p.Permissions).Equal([]types.OAAPermission{acl.Category.OAAPermission()})
		}
	})

	t.Run("company and team groups", func(t *testing.T) {
		gt.Array(t, app.LocalGroups()).Length(2)

		company, ok := app.LocalGroup("company_1")
		gt.Bool(t, ok).True()
		gt.Value(t, company.GroupType).Equal(usecase.GroupTypeCompany)
		v, _ := company.Property("admin_email")
		gt.Value(t, v).Equal("admin@acme.com")

		team, ok := app.LocalGroup("team_1")
		gt.Bool(t, ok).True()
		gt.Value(t, team.Name).Equal("Engineering")
		gt.Value(t, team.GroupType).Equal(usecase.GroupTypeTeam)
		v, _ = team.Property("parent_company_id")
		gt.Value(t, v).Equal("1")
	})

	t.Run("roles are scoped by company", func(t *testing.T) {
		gt.Array(t, app.LocalRoles()).Length(2)
		r, ok := app.LocalRole("role_1_2")
		gt.Bool(t, ok).True()
		gt.Value(t, r.Name).Equal("Default User")
	})

	t.Run("users are keyed by email", func(t *testing.T) {
		gt.Array(t, app.LocalUsers()).Length(3)
		u, ok := app.LocalUser("admin@acme.com")
		gt.Bool(t, ok).True()
		gt.Value(t, u.Email).Equal("admin@acme.com")
		gt.Value(t, u.FirstName).Equal("First MQ==")
		gt.Bool(t, u.IsActive).True()

		v, _ := u.Property("is_company_admin")
		gt.Value(t, v).Equal(true)
		_, ok = u.Property("job_title")
		gt.Bool(t, ok).False()
	})
}

func TestBuildApplicationPayloadDefinitions(t *testing.T) {
	app, _ := buildSampleApp(t)
	p := app.Payload()

	gt.Array(t, p.CustomPropertyDefinition.Applications).Length(1).Required()
	def := p.CustomPropertyDefinition.Applications[0]
	gt.Value(t, def.LocalUserProperties["is_company_admin"]).Equal("BOOLEAN")
	gt.Value(t, def.LocalUserProperties["reports_to"]).Equal("STRING")
	gt.Value(t, def.LocalGroupProperties["magento_team_id"]).Equal("STRING")
	gt.Value(t, def.LocalRoleProperties["magento_role_id"]).Equal("STRING")
	gt.Value(t, def.ApplicationProperties["company_name"]).Equal("STRING")
}

func TestBuildApplicationNilInput(t *testing.T) {
	_, err := usecase.BuildApplication(context.Background(), graphqlProfile(t), "", &model.Entities{}, syncTime)
	gt.Error(t, err).Is(usecase.ErrNilInput)
}

func TestUniqueIDs(t *testing.T) {
	gt.Value(t, usecase.CompanyGroupID("2")).Equal("company_2")
	gt.Value(t, usecase.TeamGroupID("5")).Equal("team_5")
	gt.Value(t, usecase.RoleUniqueID("2", "7")).Equal("role_2_7")
}
