package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model/oaa"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

// RelationshipStats counts the edges wired by BuildRelationships
type RelationshipStats struct {
	UserCompany    int `json:"user_company"`
	UserTeam       int `json:"user_team"`
	UserRole       int `json:"user_role"`
	RolePermission int `json:"role_permission"`
	TeamCompany    int `json:"team_company"`
	ReportsTo      int `json:"reports_to"`
	Failed         int `json:"failed"`
}

// BuildRelationships wires user to company, user to team, user to role, role
// to permission, team to company and user reports_to edges onto app. A failing
// edge is logged and skipped.
func BuildRelationships(ctx context.Context, app *oaa.Application, entities *model.Entities) (*RelationshipStats, error) {
	if app == nil || entities == nil || entities.Company == nil {
		return nil, goerr.Wrap(ErrNilInput, "application or entities are missing")
	}

	b := &relationshipBuilder{
		logger:    logging.From(ctx),
		app:       app,
		entities:  entities,
		companyID: entities.Company.ID,
		stats:     &RelationshipStats{},
	}

	b.userCompany()
	b.userTeam()
	b.userRole()
	b.rolePermissions()
	b.teamCompany()
	b.reportsTo()

	b.logger.Debug("built relationships",
		"user_company", b.stats.UserCompany,
		"user_team", b.stats.UserTeam,
		"user_role", b.stats.UserRole,
		"role_permission", b.stats.RolePermission,
		"team_company", b.stats.TeamCompany,
		"reports_to", b.stats.ReportsTo,
		"failed", b.stats.Failed,
	)
	return b.stats, nil
}

type relationshipBuilder struct {
	logger    *slog.Logger
	app       *oaa.Application
	entities  *model.Entities
	companyID string
	stats     *RelationshipStats
}

func (b *relationshipBuilder) fail(msg string, err error, args ...any) {
	b.stats.Failed++
	b.logger.Warn(msg, append(args, "error", err)...)
}

func (b *relationshipBuilder) userCompany() {
	groupID := CompanyGroupID(b.companyID)
	for _, u := range b.entities.Users {
		if err := b.app.AddUserToGroup(u.Email, groupID); err != nil {
			b.fail("could not add user to company", err, "email", u.Email)
			continue
		}
		b.stats.UserCompany++
	}
}

// teamOf returns the team of the user, falling back to a Customer to CompanyTeam structure link
func (b *relationshipBuilder) teamOf(u *model.User) string {
	if u.TeamID != "" {
		return u.TeamID
	}
	for _, l := range b.entities.Hierarchy {
		if l.Child.Type != types.EntityCustomer || l.Parent.Type != types.EntityCompanyTeam {
			continue
		}
		if l.Child.User == u && l.Parent.Team != nil {
			return l.Parent.Team.ID
		}
	}
	return ""
}

func (b *relationshipBuilder) userTeam() {
	for _, u := range b.entities.Users {
		teamID := b.teamOf(u)
		if teamID == "" {
			continue
		}
		groupID := TeamGroupID(teamID)
		if _, ok := b.app.LocalGroup(groupID); !ok {
			b.logger.Debug("team group is not registered", "email", u.Email, "team_id", teamID)
			continue
		}
		if err := b.app.AddUserToGroup(u.Email, groupID); err != nil {
			b.fail("could not add user to team", err, "email", u.Email, "team_id", teamID)
			continue
		}
		b.stats.UserTeam++
	}
}

func (b *relationshipBuilder) userRole() {
	for _, u := range b.entities.Users {
		if !u.HasRole() {
			continue
		}
		roleID := RoleUniqueID(b.companyID, u.RoleID)
		if _, ok := b.app.LocalRole(roleID); !ok {
			b.logger.Debug("role is not registered", "email", u.Email, "role_id", u.RoleID)
			continue
		}
		if err := b.app.AssignRole(u.Email, roleID); err != nil {
			b.fail("could not assign role", err, "email", u.Email, "role_id", u.RoleID)
			continue
		}
		b.stats.UserRole++
	}
}

func (b *relationshipBuilder) rolePermissions() {
	for _, r := range b.entities.Roles {
		if r.Permissions == nil {
			continue
		}
		roleID := RoleUniqueID(r.CompanyID, r.ID)
		if _, ok := b.app.LocalRole(roleID); !ok {
			continue
		}

		var granted int
		for _, resource := range r.AllowedResources() {
			if _, ok := model.LookupACL(resource); !ok {
				b.logger.Debug("skip resource outside the ACL catalog", "role_id", r.ID, "resource_id", resource)
				continue
			}
			if err := b.app.GrantPermission(roleID, resource); err != nil {
				b.fail("could not grant permission", err, "role_id", r.ID, "resource_id", resource)
				continue
			}
			granted++
		}
		b.stats.RolePermission += granted
		b.logger.Debug("granted role permissions", "role", r.Name, "count", granted)
	}
}

func (b *relationshipBuilder) teamCompany() {
	companyGroup := CompanyGroupID(b.companyID)
	if _, ok := b.app.LocalGroup(companyGroup); !ok {
		return
	}
	for _, t := range b.entities.Teams {
		if err := b.app.NestGroup(TeamGroupID(t.ID), companyGroup); err != nil {
			b.fail("could not nest team in company", err, "team_id", t.ID)
			continue
		}
		b.stats.TeamCompany++
	}
}

// reportsTo only follows Customer to Customer links; team mediated links never produce an edge
func (b *relationshipBuilder) reportsTo() {
	for _, l := range b.entities.Hierarchy {
		if l.Child.Type != types.EntityCustomer || l.Parent.Type != types.EntityCustomer {
			continue
		}
		if l.Child.User == nil || l.Parent.User == nil {
			continue
		}
		child, parent := l.Child.User.Email, l.Parent.User.Email
		if child == "" || parent == "" || strings.EqualFold(child, parent) {
			continue
		}

		lu, ok := b.app.LocalUser(child)
		if !ok {
			continue
		}
		if _, ok := b.app.LocalUser(parent); !ok {
			continue
		}
		if err := lu.SetProperty("reports_to", parent); err != nil {
			b.fail("could not set reports_to", err, "email", child)
			continue
		}
		b.stats.ReportsTo++
	}
}
