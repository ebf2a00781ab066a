package oaa

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
)

// CustomPermission is an application permission mapped to canonical OAA permission types
type CustomPermission struct {
	Name        string
	Permissions []types.OAAPermission
}

// LocalGroup is a group local to the application
type LocalGroup struct {
	Name      string
	UniqueID  string
	GroupType string
	parents   []string
	props     properties
}

// SetProperty sets a custom property defined for local groups
func (g *LocalGroup) SetProperty(name string, v any) error {
	return g.props.set(name, v)
}

// Property returns a custom property value
func (g *LocalGroup) Property(name string) (any, bool) {
	return g.props.get(name)
}

// ParentGroups returns the unique ids of the groups g is nested in
func (g *LocalGroup) ParentGroups() []string {
	return append([]string(nil), g.parents...)
}

// LocalRole is a role local to the application
type LocalRole struct {
	Name        string
	UniqueID    string
	permissions []string
	props       properties
}

func (r *LocalRole) SetProperty(name string, v any) error {
	return r.props.set(name, v)
}

func (r *LocalRole) Property(name string) (any, bool) {
	return r.props.get(name)
}

// Permissions returns the permission names granted by the role
func (r *LocalRole) Permissions() []string {
	return append([]string(nil), r.permissions...)
}

// LocalUser is a user local to the application
type LocalUser struct {
	Name       string
	UniqueID   string
	Email      string
	FirstName  string
	LastName   string
	IsActive   bool
	identities []string
	groups     []string
	roles      []string
	props      properties
}

func (u *LocalUser) SetProperty(name string, v any) error {
	return u.props.set(name, v)
}

func (u *LocalUser) Property(name string) (any, bool) {
	return u.props.get(name)
}

// AddIdentity links an IdP identity (typically an email) to the user
func (u *LocalUser) AddIdentity(identity string) {
	u.identities = appendUnique(u.identities, identity)
}

// Groups returns the unique ids of the groups the user belongs to
func (u *LocalUser) Groups() []string {
	return append([]string(nil), u.groups...)
}

// Roles returns the unique ids of the roles assigned to the user
func (u *LocalUser) Roles() []string {
	return append([]string(nil), u.roles...)
}

// Application is an in-memory OAA custom application
type Application struct {
	Name            string
	ApplicationType string
	Description     string

	appDefs   propertyDefs
	userDefs  propertyDefs
	groupDefs propertyDefs
	roleDefs  propertyDefs
	props     properties

	permissions     []*CustomPermission
	permissionIndex map[string]*CustomPermission

	users      []*LocalUser
	userIndex  map[string]*LocalUser
	groups     []*LocalGroup
	groupIndex map[string]*LocalGroup
	roles      []*LocalRole
	roleIndex  map[string]*LocalRole
}

// NewApplication creates an empty application
func NewApplication(name, applicationType, description string) *Application {
	app := &Application{
		Name:            name,
		ApplicationType: applicationType,
		Description:     description,
		permissionIndex: make(map[string]*CustomPermission),
		userIndex:       make(map[string]*LocalUser),
		groupIndex:      make(map[string]*LocalGroup),
		roleIndex:       make(map[string]*LocalRole),
	}
	app.props.defs = &app.appDefs
	return app
}

func (a *Application) DefineApplicationProperty(name string, t PropertyType) {
	a.appDefs.define(name, t)
}

func (a *Application) DefineLocalUserProperty(name string, t PropertyType) {
	a.userDefs.define(name, t)
}

func (a *Application) DefineLocalGroupProperty(name string, t PropertyType) {
	a.groupDefs.define(name, t)
}

func (a *Application) DefineLocalRoleProperty(name string, t PropertyType) {
	a.roleDefs.define(name, t)
}

// SetProperty sets an application-level custom property
func (a *Application) SetProperty(name string, v any) error {
	return a.props.set(name, v)
}

func (a *Application) Property(name string) (any, bool) {
	return a.props.get(name)
}

// AddCustomPermission registers a permission. Re-adding a name replaces its permission types.
func (a *Application) AddCustomPermission(name string, perms ...types.OAAPermission) *CustomPermission {
	if p, ok := a.permissionIndex[name]; ok {
		p.Permissions = perms
		return p
	}
	p := &CustomPermission{Name: name, Permissions: perms}
	a.permissions = append(a.permissions, p)
	a.permissionIndex[name] = p
	return p
}

// AddLocalGroup registers a group keyed by uniqueID
func (a *Application) AddLocalGroup(name, uniqueID string) (*LocalGroup, error) {
	if _, ok := a.groupIndex[uniqueID]; ok {
		return nil, goerr.Wrap(ErrDuplicateIdentifier, "local group exists", goerr.V(UniqueIDKey, uniqueID))
	}
	g := &LocalGroup{Name: name, UniqueID: uniqueID, props: properties{defs: &a.groupDefs}}
	a.groups = append(a.groups, g)
	a.groupIndex[uniqueID] = g
	return g, nil
}

// AddLocalRole registers a role keyed by uniqueID
func (a *Application) AddLocalRole(name, uniqueID string) (*LocalRole, error) {
	if _, ok := a.roleIndex[uniqueID]; ok {
		return nil, goerr.Wrap(ErrDuplicateIdentifier, "local role exists", goerr.V(UniqueIDKey, uniqueID))
	}
	r := &LocalRole{Name: name, UniqueID: uniqueID, props: properties{defs: &a.roleDefs}}
	a.roles = append(a.roles, r)
	a.roleIndex[uniqueID] = r
	return r, nil
}

// AddLocalUser registers a user keyed by uniqueID
func (a *Application) AddLocalUser(name, uniqueID string) (*LocalUser, error) {
	if _, ok := a.userIndex[uniqueID]; ok {
		return nil, goerr.Wrap(ErrDuplicateIdentifier, "local user exists", goerr.V(UniqueIDKey, uniqueID))
	}
	u := &LocalUser{Name: name, UniqueID: uniqueID, IsActive: true, props: properties{defs: &a.userDefs}}
	a.users = append(a.users, u)
	a.userIndex[uniqueID] = u
	return u, nil
}

func (a *Application) LocalUser(uniqueID string) (*LocalUser, bool) {
	u, ok := a.userIndex[uniqueID]
	return u, ok
}

func (a *Application) LocalGroup(uniqueID string) (*LocalGroup, bool) {
	g, ok := a.groupIndex[uniqueID]
	return g, ok
}

func (a *Application) LocalRole(uniqueID string) (*LocalRole, bool) {
	r, ok := a.roleIndex[uniqueID]
	return r, ok
}

func (a *Application) LocalUsers() []*LocalUser {
	return a.users
}

func (a *Application) LocalGroups() []*LocalGroup {
	return a.groups
}

func (a *Application) LocalRoles() []*LocalRole {
	return a.roles
}

func (a *Application) CustomPermissions() []*CustomPermission {
	return a.permissions
}

// AddUserToGroup makes the user a member of the group
func (a *Application) AddUserToGroup(userID, groupID string) error {
	u, ok := a.userIndex[userID]
	if !ok {
		return goerr.New("local user not found", goerr.V(UniqueIDKey, userID))
	}
	if _, ok := a.groupIndex[groupID]; !ok {
		return goerr.Wrap(ErrUnknownGroup, "cannot add user to group",
			goerr.V(UniqueIDKey, groupID), goerr.V("user", userID))
	}
	u.groups = appendUnique(u.groups, groupID)
	return nil
}

// NestGroup makes child a member of parent
func (a *Application) NestGroup(childID, parentID string) error {
	child, ok := a.groupIndex[childID]
	if !ok {
		return goerr.Wrap(ErrUnknownGroup, "cannot nest group", goerr.V(UniqueIDKey, childID))
	}
	if _, ok := a.groupIndex[parentID]; !ok {
		return goerr.Wrap(ErrUnknownGroup, "cannot nest group", goerr.V(UniqueIDKey, parentID))
	}
	if childID == parentID {
		return goerr.New("group cannot contain itself", goerr.V(UniqueIDKey, childID))
	}
	child.parents = appendUnique(child.parents, parentID)
	return nil
}

// AssignRole assigns a role to the user on the whole application
func (a *Application) AssignRole(userID, roleID string) error {
	u, ok := a.userIndex[userID]
	if !ok {
		return goerr.New("local user not found", goerr.V(UniqueIDKey, userID))
	}
	if _, ok := a.roleIndex[roleID]; !ok {
		return goerr.Wrap(ErrUnknownRole, "cannot assign role",
			goerr.V(UniqueIDKey, roleID), goerr.V("user", userID))
	}
	u.roles = appendUnique(u.roles, roleID)
	return nil
}

// GrantPermission adds a registered permission to a role
func (a *Application) GrantPermission(roleID, permission string) error {
	r, ok := a.roleIndex[roleID]
	if !ok {
		return goerr.Wrap(ErrUnknownRole, "cannot grant permission", goerr.V(UniqueIDKey, roleID))
	}
	if _, ok := a.permissionIndex[permission]; !ok {
		return goerr.Wrap(ErrUnknownPermission, "cannot grant permission",
			goerr.V(PermissionKey, permission), goerr.V(UniqueIDKey, roleID))
	}
	r.permissions = appendUnique(r.permissions, permission)
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
