package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

type rawLink struct {
	child  string
	parent string
}

// ExtractGraphQL normalizes the company structure query result into entities.
// Structure ids are matched as received; only entity ids are decoded.
func ExtractGraphQL(ctx context.Context, data *magento.GraphQLData) (*model.Entities, error) {
	if data == nil {
		return nil, goerr.Wrap(ErrNilInput, "graphql data is nil")
	}
	logger := logging.From(ctx)

	src := data.Company
	companyID := model.DecodeID(src.ID).Value
	adminEmail := src.CompanyAdmin.Email

	company := &model.Company{
		ID:         companyID,
		Name:       src.Name,
		LegalName:  src.LegalName,
		Email:      src.Email,
		AdminEmail: adminEmail,
	}

	var (
		users   []*model.User
		teams   []*model.Team
		roles   = model.NewRoleSet()
		byEmail = make(map[string]*model.User)
		byTeam  = make(map[string]*model.Team)
		index   = make(map[string]model.HierarchyNode)
		links   []rawLink
	)

	for _, item := range src.Items {
		var node model.HierarchyNode

		switch item.Typename {
		case types.EntityCustomer.String():
			if item.Customer == nil {
				continue
			}
			u := graphqlUser(item.Customer, companyID, adminEmail)
			if u.Email == "" {
				logger.Warn("skip customer without email", "structure_id", item.ID)
				continue
			}

			key := strings.ToLower(u.Email)
			if existing, ok := byEmail[key]; ok {
				logger.Warn("duplicate customer email in structure", "email", u.Email, "structure_id", item.ID)
				u = existing
			} else {
				byEmail[key] = u
				users = append(users, u)
			}

			if role := item.Customer.Role; role != nil && role.ID != "" {
				roles.Add(&model.Role{
					ID:        model.DecodeID(role.ID).Value,
					Name:      role.Name,
					CompanyID: companyID,
				})
			}
			node = model.HierarchyNode{Type: types.EntityCustomer, User: u}

		case types.EntityCompanyTeam.String():
			if item.Team == nil {
				continue
			}
			t := &model.Team{
				ID:          model.DecodeID(item.Team.ID).Value,
				Name:        item.Team.Name,
				Description: item.Team.Description,
				CompanyID:   companyID,
			}
			if existing, ok := byTeam[t.ID]; ok {
				t = existing
			} else {
				byTeam[t.ID] = t
				teams = append(teams, t)
			}
			node = model.HierarchyNode{Type: types.EntityCompanyTeam, Team: t}

		default:
			logger.Debug("ignore structure item", "typename", item.Typename, "structure_id", item.ID)
			continue
		}

		index[item.ID] = node
		if item.ParentID != "" {
			links = append(links, rawLink{child: item.ID, parent: item.ParentID})
		}
	}

	hierarchy := resolveLinks(ctx, links, index)

	logger.Debug("extracted graphql entities",
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

func graphqlUser(c *magento.StructureCustomer, companyID, adminEmail string) *model.User {
	u := &model.User{
		Email:          c.Email,
		Firstname:      c.Firstname,
		Lastname:       c.Lastname,
		JobTitle:       c.JobTitle,
		Telephone:      c.Telephone,
		IsActive:       c.Status == nil || *c.Status == "" || *c.Status == "ACTIVE",
		IsCompanyAdmin: adminEmail != "" && strings.EqualFold(c.Email, adminEmail),
		CompanyID:      companyID,
	}
	if c.Team != nil && c.Team.ID != "" {
		u.TeamID = model.DecodeID(c.Team.ID).Value
	}
	if c.Role != nil && c.Role.ID != "" {
		u.RoleID = model.DecodeID(c.Role.ID).Value
		u.RoleName = c.Role.Name
	}
	return u
}

// resolveLinks maps raw structure id pairs to entity nodes. Pairs with an unknown side are dropped.
func resolveLinks(ctx context.Context, links []rawLink, index map[string]model.HierarchyNode) []model.HierarchyLink {
	var resolved []model.HierarchyLink
	for _, l := range links {
		child, ok := index[l.child]
		if !ok {
			logging.From(ctx).Debug("drop link with unknown child", "child", l.child, "parent", l.parent)
			continue
		}
		parent, ok := index[l.parent]
		if !ok {
			logging.From(ctx).Debug("drop link with unknown parent", "child", l.child, "parent", l.parent)
			continue
		}
		resolved = append(resolved, model.HierarchyLink{Child: child, Parent: parent})
	}
	return resolved
}
