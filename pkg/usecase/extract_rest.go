package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

// RESTData is the raw input of ExtractREST
type RESTData struct {
	CurrentUser *magento.Customer
	Company     *magento.Company
	Roles       []magento.Role
	// Hierarchy holds the root nodes of the company structure tree
	Hierarchy []*magento.HierarchyNode
	// TeamDetails is keyed by team entity id
	TeamDetails map[string]*magento.TeamDetail
}

// FetchREST calls the REST endpoints needed by ExtractREST. A team whose
// detail cannot be fetched is logged and left to the "Team {id}" fallback.
func FetchREST(ctx context.Context, svc magento.Service) (*RESTData, error) {
	logger := logging.From(ctx)

	me, err := svc.CurrentUser(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get current customer")
	}

	companyID := me.CompanyAttributes().CompanyID.String()
	if companyID == "" || companyID == "0" {
		return nil, goerr.Wrap(ErrNoCompany, "current customer has no company",
			goerr.V(EmailKey, me.Email))
	}

	company, err := svc.Company(ctx, companyID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get company", goerr.V(CompanyIDKey, companyID))
	}

	roles, err := svc.CompanyRoles(ctx, companyID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get company roles", goerr.V(CompanyIDKey, companyID))
	}

	hierarchy, err := svc.Hierarchy(ctx, companyID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get company hierarchy", goerr.V(CompanyIDKey, companyID))
	}

	details := make(map[string]*magento.TeamDetail)
	for _, node := range flattenHierarchy(hierarchy) {
		if strings.ToLower(node.EntityType) != "team" {
			continue
		}
		id := node.EntityID.String()
		if id == "" {
			continue
		}
		if _, ok := details[id]; ok {
			continue
		}
		team, err := svc.Team(ctx, id)
		if err != nil {
			logger.Warn("failed to get team detail", "team_id", id, "error", err)
			continue
		}
		details[id] = team
	}

	logger.Info("fetched company data via REST",
		"company_id", companyID,
		"roles", len(roles),
		"teams", len(details),
	)

	return &RESTData{
		CurrentUser: me,
		Company:     company,
		Roles:       roles,
		Hierarchy:   hierarchy,
		TeamDetails: details,
	}, nil
}

// flattenHierarchy walks the trees in pre-order with an explicit stack
func flattenHierarchy(roots []*magento.HierarchyNode) []*magento.HierarchyNode {
	var flat []*magento.HierarchyNode
	stack := make([]*magento.HierarchyNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil {
			stack = append(stack, roots[i])
		}
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		flat = append(flat, cur)

		children := cur.Children
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, children[i])
			}
		}
	}
	return flat
}

// ExtractREST normalizes the REST responses into entities. Only the
// authenticated customer is known in full; other customers become placeholders.
func ExtractREST(ctx context.Context, data *RESTData) (*model.Entities, error) {
	if data == nil || data.CurrentUser == nil || data.Company == nil {
		return nil, goerr.Wrap(ErrNilInput, "rest data is incomplete")
	}
	logger := logging.From(ctx)

	companyID := data.Company.ID.String()
	superUserID := data.Company.SuperUserID.String()
	me := data.CurrentUser
	meID := me.ID.String()

	company := &model.Company{
		ID:          companyID,
		Name:        data.Company.CompanyName,
		LegalName:   data.Company.LegalName,
		Email:       data.Company.CompanyEmail,
		SuperUserID: superUserID,
	}

	var (
		users    []*model.User
		teams    []*model.Team
		byCustID = make(map[string]*model.User)
		byTeamID = make(map[string]*model.Team)
		index    = make(map[string]model.HierarchyNode)
		byNode   = make(map[*magento.HierarchyNode]model.HierarchyNode)
	)

	flat := flattenHierarchy(data.Hierarchy)
	for _, node := range flat {
		entityID := node.EntityID.String()
		structureID := node.StructureID.String()

		var hn model.HierarchyNode
		switch strings.ToLower(node.EntityType) {
		case "customer":
			if entityID == "" {
				continue
			}
			u, ok := byCustID[entityID]
			if !ok {
				if entityID == meID {
					u = restUser(me, companyID, superUserID)
				} else {
					u = placeholderUser(entityID, companyID, superUserID)
				}
				byCustID[entityID] = u
				users = append(users, u)
			}
			hn = model.HierarchyNode{Type: types.EntityCustomer, User: u}

		case "team":
			if entityID == "" {
				continue
			}
			t, ok := byTeamID[entityID]
			if !ok {
				t = restTeam(entityID, companyID, data.TeamDetails[entityID])
				byTeamID[entityID] = t
				teams = append(teams, t)
			}
			hn = model.HierarchyNode{Type: types.EntityCompanyTeam, Team: t}

		default:
			// company root and unknown node types do not become entities
			continue
		}

		byNode[node] = hn
		if structureID != "" {
			index[structureID] = hn
		}
	}

	if _, ok := byCustID[meID]; !ok && meID != "" {
		u := restUser(me, companyID, superUserID)
		byCustID[meID] = u
		users = append(users, u)
	}

	roles := model.NewRoleSet()
	for _, r := range data.Roles {
		role := &model.Role{
			ID:        r.ID.String(),
			Name:      r.RoleName,
			CompanyID: companyID,
		}
		if rc := r.CompanyID.String(); rc != "" {
			role.CompanyID = rc
		}
		role.Permissions = rolePermissions(ctx, r.Permissions)
		roles.Add(role)
	}

	var adminEmail string
	if superUserID != "" {
		if u, ok := byCustID[superUserID]; ok {
			adminEmail = u.Email
		}
	}
	company.AdminEmail = adminEmail

	hierarchy := resolveTreeLinks(ctx, flat, index, byNode)

	logger.Debug("extracted rest entities",
		"company_id", companyID,
		"users", len(users),
		"teams", len(teams),
		"roles", len(roles.Roles()),
		"links", len(hierarchy),
	)

	return &model.Entities{
		Company:    company,
		Users:      users,
		Teams:      teams,
		Roles:      roles.Roles(),
		Hierarchy:  hierarchy,
		AdminEmail: adminEmail,
	}, nil
}

// resolveTreeLinks links extracted nodes to the entity their
// structure_parent_id points at. Nodes without a resolvable parent id, or whose
// parent is not a customer or team, produce no link.
func resolveTreeLinks(ctx context.Context, flat []*magento.HierarchyNode, index map[string]model.HierarchyNode, byNode map[*magento.HierarchyNode]model.HierarchyNode) []model.HierarchyLink {
	var links []model.HierarchyLink
	for _, node := range flat {
		child, ok := byNode[node]
		if !ok {
			continue
		}

		pid := node.StructureParentID.String()
		if pid == "" || pid == "0" {
			continue
		}
		parent, found := index[pid]
		if !found {
			logging.From(ctx).Debug("drop unresolved hierarchy link",
				"structure_id", node.StructureID.String(),
				"parent_id", pid)
			continue
		}
		if parent.Key() == child.Key() && parent.Type == child.Type {
			continue
		}
		links = append(links, model.HierarchyLink{Child: child, Parent: parent})
	}
	return links
}

func restUser(c *magento.Customer, companyID, superUserID string) *model.User {
	attrs := c.CompanyAttributes()
	id := c.ID.String()
	return &model.User{
		Email:          c.Email,
		Firstname:      c.Firstname,
		Lastname:       c.Lastname,
		JobTitle:       attrs.JobTitle,
		Telephone:      attrs.Telephone,
		IsActive:       attrs.Status != nil && *attrs.Status == 1,
		IsCompanyAdmin: superUserID != "" && id == superUserID,
		CompanyID:      companyID,
		CustomerID:     id,
	}
}

// placeholderUser stands in for a customer the caller cannot read
func placeholderUser(customerID, companyID, superUserID string) *model.User {
	return &model.User{
		Email:          fmt.Sprintf("customer_%s@unknown", customerID),
		IsActive:       true,
		IsCompanyAdmin: superUserID != "" && customerID == superUserID,
		CompanyID:      companyID,
		CustomerID:     customerID,
	}
}

func restTeam(teamID, companyID string, detail *magento.TeamDetail) *model.Team {
	t := &model.Team{
		ID:        teamID,
		Name:      "Team " + teamID,
		CompanyID: companyID,
	}
	if detail != nil {
		if detail.Name != "" {
			t.Name = detail.Name
		}
		t.Description = detail.Description
	}
	return t
}

func rolePermissions(ctx context.Context, perms []magento.Permission) []model.RolePermission {
	if perms == nil {
		return nil
	}
	out := make([]model.RolePermission, 0, len(perms))
	for _, p := range perms {
		effect, err := types.ParsePermissionEffect(p.Permission)
		if err != nil {
			logging.From(ctx).Debug("ignore permission with unknown effect",
				"resource_id", p.ResourceID, "permission", p.Permission)
			continue
		}
		out = append(out, model.RolePermission{ResourceID: p.ResourceID, Effect: effect})
	}
	return out
}
