package oaa

// Payload is the JSON document accepted by the Veza OAA custom application push API
type Payload struct {
	CustomPropertyDefinition PropertyDefinitionPayload `json:"custom_property_definition"`
	Applications             []ApplicationPayload      `json:"applications"`
	Permissions              []PermissionPayload       `json:"permissions"`
	IdentityToPermissions    []IdentityPayload         `json:"identity_to_permissions"`
}

type PropertyDefinitionPayload struct {
	Applications []ApplicationPropertyDefinition `json:"applications"`
}

type ApplicationPropertyDefinition struct {
	ApplicationType       string            `json:"application_type"`
	ApplicationProperties map[string]string `json:"application_properties"`
	LocalUserProperties   map[string]string `json:"local_user_properties"`
	LocalGroupProperties  map[string]string `json:"local_group_properties"`
	LocalRoleProperties   map[string]string `json:"local_role_properties"`
	Resources             []any             `json:"resources"`
}

type ApplicationPayload struct {
	Name             string              `json:"name"`
	ApplicationType  string              `json:"application_type"`
	Description      string              `json:"description"`
	LocalUsers       []LocalUserPayload  `json:"local_users"`
	LocalGroups      []LocalGroupPayload `json:"local_groups"`
	LocalRoles       []LocalRolePayload  `json:"local_roles"`
	Tags             []any               `json:"tags"`
	CustomProperties map[string]any      `json:"custom_properties"`
	Resources        []any               `json:"resources"`
}

type LocalUserPayload struct {
	Name             string         `json:"name"`
	UniqueID         string         `json:"unique_id"`
	Identities       []string       `json:"identities"`
	Groups           []string       `json:"groups"`
	IsActive         bool           `json:"is_active"`
	Email            string         `json:"email,omitempty"`
	FirstName        string         `json:"first_name,omitempty"`
	LastName         string         `json:"last_name,omitempty"`
	Tags             []any          `json:"tags"`
	CustomProperties map[string]any `json:"custom_properties"`
}

type LocalGroupPayload struct {
	Name             string         `json:"name"`
	UniqueID         string         `json:"unique_id"`
	GroupType        string         `json:"group_type,omitempty"`
	Identities       []string       `json:"identities"`
	Groups           []string       `json:"groups"`
	Tags             []any          `json:"tags"`
	CustomProperties map[string]any `json:"custom_properties"`
}

type LocalRolePayload struct {
	Name             string         `json:"name"`
	UniqueID         string         `json:"unique_id"`
	Permissions      []string       `json:"permissions"`
	Tags             []any          `json:"tags"`
	CustomProperties map[string]any `json:"custom_properties"`
}

type PermissionPayload struct {
	Name                string   `json:"name"`
	PermissionType      []string `json:"permission_type"`
	ApplyToSubResources bool     `json:"apply_to_sub_resources"`
	ResourceTypes       []string `json:"resource_types"`
}

type IdentityPayload struct {
	Identity               string                  `json:"identity"`
	IdentityType           string                  `json:"identity_type"`
	ApplicationPermissions []any                   `json:"application_permissions"`
	RoleAssignments        []RoleAssignmentPayload `json:"role_assignments"`
}

type RoleAssignmentPayload struct {
	Application        string `json:"application"`
	Role               string `json:"role"`
	ApplyToApplication bool   `json:"apply_to_application"`
	Resources          []any  `json:"resources"`
}

// Payload renders the application. Entities appear in registration order.
func (a *Application) Payload() *Payload {
	p := &Payload{
		CustomPropertyDefinition: PropertyDefinitionPayload{
			Applications: []ApplicationPropertyDefinition{{
				ApplicationType:       a.ApplicationType,
				ApplicationProperties: a.appDefs.payload(),
				LocalUserProperties:   a.userDefs.payload(),
				LocalGroupProperties:  a.groupDefs.payload(),
				LocalRoleProperties:   a.roleDefs.payload(),
				Resources:             []any{},
			}},
		},
		Permissions:           make([]PermissionPayload, 0, len(a.permissions)),
		IdentityToPermissions: []IdentityPayload{},
	}

	app := ApplicationPayload{
		Name:             a.Name,
		ApplicationType:  a.ApplicationType,
		Description:      a.Description,
		LocalUsers:       make([]LocalUserPayload, 0, len(a.users)),
		LocalGroups:      make([]LocalGroupPayload, 0, len(a.groups)),
		LocalRoles:       make([]LocalRolePayload, 0, len(a.roles)),
		Tags:             []any{},
		CustomProperties: a.props.payload(),
		Resources:        []any{},
	}

	for _, u := range a.users {
		app.LocalUsers = append(app.LocalUsers, LocalUserPayload{
			Name:             u.Name,
			UniqueID:         u.UniqueID,
			Identities:       nonNil(u.identities),
			Groups:           nonNil(u.groups),
			IsActive:         u.IsActive,
			Email:            u.Email,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			Tags:             []any{},
			CustomProperties: u.props.payload(),
		})

		if len(u.roles) == 0 {
			continue
		}
		assignments := make([]RoleAssignmentPayload, 0, len(u.roles))
		for _, r := range u.roles {
			assignments = append(assignments, RoleAssignmentPayload{
				Application:        a.Name,
				Role:               r,
				ApplyToApplication: true,
				Resources:          []any{},
			})
		}
		p.IdentityToPermissions = append(p.IdentityToPermissions, IdentityPayload{
			Identity:               u.UniqueID,
			IdentityType:           "local_user",
			ApplicationPermissions: []any{},
			RoleAssignments:        assignments,
		})
	}

	for _, g := range a.groups {
		app.LocalGroups = append(app.LocalGroups, LocalGroupPayload{
			Name:             g.Name,
			UniqueID:         g.UniqueID,
			GroupType:        g.GroupType,
			Identities:       []string{},
			Groups:           nonNil(g.parents),
			Tags:             []any{},
			CustomProperties: g.props.payload(),
		})
	}

	for _, r := range a.roles {
		app.LocalRoles = append(app.LocalRoles, LocalRolePayload{
			Name:             r.Name,
			UniqueID:         r.UniqueID,
			Permissions:      nonNil(r.permissions),
			Tags:             []any{},
			CustomProperties: r.props.payload(),
		})
	}

	for _, perm := range a.permissions {
		names := make([]string, 0, len(perm.Permissions))
		for _, t := range perm.Permissions {
			names = append(names, t.String())
		}
		p.Permissions = append(p.Permissions, PermissionPayload{
			Name:           perm.Name,
			PermissionType: names,
			ResourceTypes:  []string{},
		})
	}

	p.Applications = []ApplicationPayload{app}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}
