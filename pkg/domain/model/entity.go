package model

import (
	"strings"

	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
)

// Company is the single B2B company a run extracts
type Company struct {
	ID         string
	Name       string
	LegalName  string
	Email      string
	AdminEmail string
	// SuperUserID is the Magento customer id of the company administrator (REST only)
	SuperUserID string
}

// User is a company member. Email is the identity key.
type User struct {
	Email          string
	Firstname      string
	Lastname       string
	JobTitle       string
	Telephone      string
	IsActive       bool
	IsCompanyAdmin bool
	CompanyID      string
	TeamID         string
	RoleID         string
	RoleName       string
	// CustomerID is the numeric Magento customer id when the source exposes it
	CustomerID string
}

// HasRole reports whether a role is assigned
func (u *User) HasRole() bool {
	return u.RoleID != ""
}

// AssignRole sets the role of the user
func (u *User) AssignRole(r *Role) {
	if r == nil {
		return
	}
	u.RoleID = r.ID
	u.RoleName = r.Name
}

// ClearRole removes the role of the user
func (u *User) ClearRole() {
	u.RoleID = ""
	u.RoleName = ""
}

// DisplayName returns "first last" or the email when both names are empty
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.Firstname + " " + u.Lastname)
	if name == "" {
		return u.Email
	}
	return name
}

// Team is a company team
type Team struct {
	ID          string
	Name        string
	Description string
	CompanyID   string
}

// RolePermission is one ACL entry of a role
type RolePermission struct {
	ResourceID string
	Effect     types.PermissionEffect
}

// Role is a company role. Permissions is nil when the source carries none.
type Role struct {
	ID          string
	Name        string
	CompanyID   string
	Permissions []RolePermission
}

// AllowedResources returns the resource ids granted by the role, in source order
func (r *Role) AllowedResources() []string {
	var resources []string
	for _, p := range r.Permissions {
		if p.Effect == types.PermissionAllow {
			resources = append(resources, p.ResourceID)
		}
	}
	return resources
}

// HierarchyNode is one side of a structure link
type HierarchyNode struct {
	Type types.EntityType
	User *User
	Team *Team
}

// Key returns the email for a customer node and the team id for a team node
func (n HierarchyNode) Key() string {
	switch n.Type {
	case types.EntityCustomer:
		if n.User != nil {
			return n.User.Email
		}
	case types.EntityCompanyTeam:
		if n.Team != nil {
			return n.Team.ID
		}
	}
	return ""
}

// HierarchyLink is a resolved parent/child edge of the company structure
type HierarchyLink struct {
	Child  HierarchyNode
	Parent HierarchyNode
}

// Entities is the typed output of an extractor
type Entities struct {
	Company    *Company
	Users      []*User
	Teams      []*Team
	Roles      []*Role
	Hierarchy  []HierarchyLink
	AdminEmail string
}

// UserByEmail finds a user by case-insensitive email
func (e *Entities) UserByEmail(email string) *User {
	for _, u := range e.Users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// RoleByID finds a role by id
func (e *Entities) RoleByID(id string) *Role {
	for _, r := range e.Roles {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// TeamByID finds a team by id
func (e *Entities) TeamByID(id string) *Team {
	for _, t := range e.Teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// RoleSet deduplicates roles by (company, id). The first occurrence wins.
type RoleSet struct {
	roles []*Role
	seen  map[string]struct{}
}

func NewRoleSet() *RoleSet {
	return &RoleSet{seen: make(map[string]struct{})}
}

// Add inserts r unless a role with the same key is already present. It returns true when inserted.
func (s *RoleSet) Add(r *Role) bool {
	key := r.CompanyID + "\x00" + r.ID
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.roles = append(s.roles, r)
	return true
}

// Roles returns the roles in insertion order
func (s *RoleSet) Roles() []*Role {
	return s.roles
}
