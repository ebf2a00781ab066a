package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model/oaa"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

// Group types of the local groups
const (
	GroupTypeCompany = "company"
	GroupTypeTeam    = "team"
)

// CompanyGroupID returns the local group unique id of a company
func CompanyGroupID(companyID string) string {
	return "company_" + companyID
}

// TeamGroupID returns the local group unique id of a team
func TeamGroupID(teamID string) string {
	return "team_" + teamID
}

// RoleUniqueID returns the local role unique id of a company role
func RoleUniqueID(companyID, roleID string) string {
	return "role_" + companyID + "_" + roleID
}

// BuildApplication maps extracted entities onto an OAA custom application
func BuildApplication(ctx context.Context, profile model.ConnectorProfile, storeURL string, entities *model.Entities, now time.Time) (*oaa.Application, error) {
	if entities == nil || entities.Company == nil {
		return nil, goerr.Wrap(ErrNilInput, "entities have no company")
	}
	company := entities.Company

	app := oaa.NewApplication(
		profile.AppPrefix+"_"+company.ID,
		profile.AppType,
		"Adobe Commerce B2B - "+company.Name+" ("+profile.Suffix+")",
	)
	defineProperties(app)

	if err := setProperties(app,
		"store_url", storeURL,
		"sync_timestamp", now.UTC().Format(time.RFC3339),
		"company_name", company.Name,
	); err != nil {
		return nil, goerr.Wrap(err, "failed to set application property")
	}

	for _, p := range model.ACLCatalog() {
		app.AddCustomPermission(p.ResourceID, p.Category.OAAPermission())
	}

	if err := addCompanyGroup(app, company); err != nil {
		return nil, err
	}
	for _, t := range entities.Teams {
		if err := addTeamGroup(app, t); err != nil {
			return nil, err
		}
	}
	for _, r := range entities.Roles {
		if err := addRole(app, r); err != nil {
			return nil, err
		}
	}
	for _, u := range entities.Users {
		if err := addUser(app, u); err != nil {
			return nil, err
		}
	}

	logging.From(ctx).Debug("built application",
		"name", app.Name,
		"users", len(app.LocalUsers()),
		"groups", len(app.LocalGroups()),
		"roles", len(app.LocalRoles()),
	)
	return app, nil
}

func defineProperties(app *oaa.Application) {
	for _, name := range []string{"store_url", "sync_timestamp", "company_name"} {
		app.DefineApplicationProperty(name, oaa.PropertyString)
	}

	app.DefineLocalUserProperty("job_title", oaa.PropertyString)
	app.DefineLocalUserProperty("telephone", oaa.PropertyString)
	app.DefineLocalUserProperty("is_company_admin", oaa.PropertyBoolean)
	app.DefineLocalUserProperty("magento_customer_id", oaa.PropertyString)
	app.DefineLocalUserProperty("company_id", oaa.PropertyString)
	app.DefineLocalUserProperty("reports_to", oaa.PropertyString)

	for _, name := range []string{
		"legal_name",
		"company_email",
		"admin_email",
		"magento_company_id",
		"description",
		"magento_team_id",
		"parent_company_id",
	} {
		app.DefineLocalGroupProperty(name, oaa.PropertyString)
	}

	app.DefineLocalRoleProperty("magento_role_id", oaa.PropertyString)
	app.DefineLocalRoleProperty("company_id", oaa.PropertyString)
}

type propertySetter interface {
	SetProperty(name string, v any) error
}

// setProperties applies name/value pairs in order, stopping at the first failure
func setProperties(target propertySetter, kv ...any) error {
	for i := 0; i+1 < len(kv); i += 2 {
		name, _ := kv[i].(string)
		if err := target.SetProperty(name, kv[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func addCompanyGroup(app *oaa.Application, c *model.Company) error {
	g, err := app.AddLocalGroup(c.Name, CompanyGroupID(c.ID))
	if err != nil {
		return goerr.Wrap(err, "failed to add company group", goerr.V(CompanyIDKey, c.ID))
	}
	g.GroupType = GroupTypeCompany

	if err := setProperties(g,
		"legal_name", c.LegalName,
		"company_email", c.Email,
		"admin_email", c.AdminEmail,
		"magento_company_id", c.ID,
	); err != nil {
		return goerr.Wrap(err, "failed to set company group property", goerr.V(CompanyIDKey, c.ID))
	}
	return nil
}

func addTeamGroup(app *oaa.Application, t *model.Team) error {
	g, err := app.AddLocalGroup(t.Name, TeamGroupID(t.ID))
	if err != nil {
		return goerr.Wrap(err, "failed to add team group", goerr.V(TeamIDKey, t.ID))
	}
	g.GroupType = GroupTypeTeam

	if err := setProperties(g,
		"description", t.Description,
		"magento_team_id", t.ID,
		"parent_company_id", t.CompanyID,
	); err != nil {
		return goerr.Wrap(err, "failed to set team group property", goerr.V(TeamIDKey, t.ID))
	}
	return nil
}

func addRole(app *oaa.Application, r *model.Role) error {
	role, err := app.AddLocalRole(r.Name, RoleUniqueID(r.CompanyID, r.ID))
	if err != nil {
		return goerr.Wrap(err, "failed to add role", goerr.V(RoleIDKey, r.ID))
	}

	if err := setProperties(role,
		"magento_role_id", r.ID,
		"company_id", r.CompanyID,
	); err != nil {
		return goerr.Wrap(err, "failed to set role property", goerr.V(RoleIDKey, r.ID))
	}
	return nil
}

func addUser(app *oaa.Application, u *model.User) error {
	lu, err := app.AddLocalUser(u.Email, u.Email)
	if err != nil {
		return goerr.Wrap(err, "failed to add user", goerr.V(EmailKey, u.Email))
	}
	lu.Email = u.Email
	lu.FirstName = u.Firstname
	lu.LastName = u.Lastname
	lu.IsActive = u.IsActive
	lu.AddIdentity(u.Email)

	kv := []any{
		"is_company_admin", u.IsCompanyAdmin,
		"company_id", u.CompanyID,
	}
	if u.JobTitle != "" {
		kv = append(kv, "job_title", u.JobTitle)
	}
	if u.Telephone != "" {
		kv = append(kv, "telephone", u.Telephone)
	}
	if u.CustomerID != "" {
		kv = append(kv, "magento_customer_id", u.CustomerID)
	}

	if err := setProperties(lu, kv...); err != nil {
		return goerr.Wrap(err, "failed to set user property", goerr.V(EmailKey, u.Email))
	}
	return nil
}
