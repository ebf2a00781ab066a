package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
)

func TestRoleSetFirstWins(t *testing.T) {
	s := model.NewRoleSet()
	gt.Bool(t, s.Add(&model.Role{ID: "5", Name: "Buyer", CompanyID: "2"})).True()
	gt.Bool(t, s.Add(&model.Role{ID: "5", Name: "Renamed", CompanyID: "2"})).False()
	gt.Bool(t, s.Add(&model.Role{ID: "5", Name: "Other company", CompanyID: "3"})).True()

	roles := s.Roles()
	gt.Array(t, roles).Length(2)
	gt.Value(t, roles[0].Name).Equal("Buyer")
}

func TestRoleAllowedResources(t *testing.T) {
	r := &model.Role{Permissions: []model.RolePermission{
		{ResourceID: "Magento_Sales::all", Effect: types.PermissionAllow},
		{ResourceID: "Magento_Company::users_edit", Effect: types.PermissionDeny},
		{ResourceID: "Magento_Company::view", Effect: types.PermissionAllow},
	}}
	gt.Value(t, r.AllowedResources()).Equal([]string{"Magento_Sales::all", "Magento_Company::view"})
}

func TestUserRoleMutation(t *testing.T) {
	u := &model.User{Email: "a@x.com"}
	gt.Bool(t, u.HasRole()).False()

	u.AssignRole(&model.Role{ID: "9", Name: "Approver"})
	gt.Value(t, u.RoleID).Equal("9")
	gt.Value(t, u.RoleName).Equal("Approver")

	u.ClearRole()
	gt.Bool(t, u.HasRole()).False()
	gt.Value(t, u.DisplayName()).Equal("a@x.com")
}

func TestHierarchyNodeKey(t *testing.T) {
	n := model.HierarchyNode{Type: types.EntityCustomer, User: &model.User{Email: "b@x.com"}}
	gt.Value(t, n.Key()).Equal("b@x.com")

	n = model.HierarchyNode{Type: types.EntityCompanyTeam, Team: &model.Team{ID: "7"}}
	gt.Value(t, n.Key()).Equal("7")

	gt.Value(t, model.HierarchyNode{}.Key()).Equal("")
}

func TestEntitiesLookup(t *testing.T) {
	e := &model.Entities{
		Users: []*model.User{{Email: "Alice@X.com"}},
		Teams: []*model.Team{{ID: "t1"}},
		Roles: []*model.Role{{ID: "r1"}},
	}
	gt.Value(t, e.UserByEmail("alice@x.com")).NotNil()
	gt.Value(t, e.TeamByID("t1")).NotNil()
	gt.Value(t, e.RoleByID("missing")).Nil()
}
