package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/secmon-lab/magento-oaa/pkg/usecase"
)

func TestBuildRelationships(t *testing.T) {
	app, entities := buildSampleApp(t)
	usecase.MergeRolePermissions(context.Background(), entities, []magento.Role{
		{ID: "2", Permissions: []magento.Permission{
			{ResourceID: "Magento_Company::index", Permission: "allow"},
			{ResourceID: "Custom_Module::thing", Permission: "allow"},
			{ResourceID: "Magento_Sales::all", Permission: "deny"},
		}},
	})

	stats, err := usecase.BuildRelationships(context.Background(), app, entities)
	gt.NoError(t, err).Required()

	gt.Value(t, *stats).Equal(usecase.RelationshipStats{
		UserCompany:    3,
		UserTeam:       1,
		UserRole:       3,
		RolePermission: 1,
		TeamCompany:    1,
		ReportsTo:      1,
	})

	t.Run("users belong to the company and their team", func(t *testing.T) {
		dev, _ := app.LocalUser("dev@acme.com")
		gt.Value(t, dev.Groups()).Equal([]string{"company_1", "team_1"})
		admin, _ := app.LocalUser("admin@acme.com")
		gt.Value(t, admin.Groups()).Equal([]string{"company_1"})
	})

	t.Run("roles are assigned", func(t *testing.T) {
		admin, _ := app.LocalUser("admin@acme.com")
		gt.Value(t, admin.Roles()).Equal([]string{"role_1_1"})
		buyer, _ := app.LocalUser("buyer@acme.com")
		gt.Value(t, buyer.Roles()).Equal([]string{"role_1_2"})
	})

	t.Run("only allowed catalog resources are granted", func(t *testing.T) {
		r, _ := app.LocalRole("role_1_2")
		gt.Value(t, r.Permissions()).Equal([]string{"Magento_Company::index"})
		admin, _ := app.LocalRole("role_1_1")
		gt.Array(t, admin.Permissions()).Length(0)
	})

	t.Run("team is nested in company", func(t *testing.T) {
		team, _ := app.LocalGroup("team_1")
		gt.Value(t, team.ParentGroups()).Equal([]string{"company_1"})
	})

	t.Run("reports_to follows customer links only", func(t *testing.T) {
		buyer, _ := app.LocalUser("buyer@acme.com")
		v, ok := buyer.Property("reports_to")
		gt.Bool(t, ok).True()
		gt.Value(t, v).Equal("admin@acme.com")

		dev, _ := app.LocalUser("dev@acme.com")
		_, ok = dev.Property("reports_to")
		gt.Bool(t, ok).False()
	})
}

func TestBuildRelationshipsSkipsUnknownTeamAndRole(t *testing.T) {
	entities := &model.Entities{
		Company: &model.Company{ID: "2", Name: "Acme"},
		Users: []*model.User{
			{Email: "a@acme.com", CompanyID: "2", TeamID: "99", RoleID: "42"},
		},
	}
	app, err := usecase.BuildApplication(context.Background(), graphqlProfile(t), "", entities, syncTime)
	gt.NoError(t, err).Required()

	stats, err := usecase.BuildRelationships(context.Background(), app, entities)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.UserCompany).Equal(1)
	gt.Value(t, stats.UserTeam).Equal(0)
	gt.Value(t, stats.UserRole).Equal(0)
	gt.Value(t, stats.Failed).Equal(0)
}

func TestBuildRelationshipsIgnoresSelfReport(t *testing.T) {
	u := &model.User{Email: "a@acme.com", CompanyID: "2"}
	same := &model.User{Email: "A@acme.com", CompanyID: "2"}
	entities := &model.Entities{
		Company: &model.Company{ID: "2", Name: "Acme"},
		Users:   []*model.User{u},
		Hierarchy: []model.HierarchyLink{{
			Child:  model.HierarchyNode{Type: types.EntityCustomer, User: same},
			Parent: model.HierarchyNode{Type: types.EntityCustomer, User: u},
		}},
	}
	app, err := usecase.BuildApplication(context.Background(), graphqlProfile(t), "", entities, syncTime)
	gt.NoError(t, err).Required()

	stats, err := usecase.BuildRelationships(context.Background(), app, entities)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.ReportsTo).Equal(0)
}

func TestBuildRelationshipsNilInput(t *testing.T) {
	_, err := usecase.BuildRelationships(context.Background(), nil, &model.Entities{})
	gt.Error(t, err).Is(usecase.ErrNilInput)
}
