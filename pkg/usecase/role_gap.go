package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
	"github.com/secmon-lab/magento-oaa/pkg/utils/safe"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultUserRoleName is the role given to non-admin users by the default_role strategy
const DefaultUserRoleName = "Default User"

// RoleGapHandler assigns roles to users extracted over REST, which never exposes the user to role link
type RoleGapHandler struct {
	strategy types.RoleStrategy
	csvPath  string
}

// NewRoleGapHandler validates the strategy before any data is touched
func NewRoleGapHandler(strategy types.RoleStrategy, csvPath string) (*RoleGapHandler, error) {
	if !strategy.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStrategy, "unsupported role strategy",
			goerr.V(StrategyKey, string(strategy)))
	}
	return &RoleGapHandler{strategy: strategy, csvPath: csvPath}, nil
}

// Strategy returns the configured strategy
func (h *RoleGapHandler) Strategy() types.RoleStrategy {
	return h.strategy
}

// Resolve patches role assignments of the users in place
func (h *RoleGapHandler) Resolve(ctx context.Context, users []*model.User, roles []*model.Role) {
	logger := logging.From(ctx)

	switch h.strategy {
	case types.RoleStrategySkip:
		for _, u := range users {
			u.ClearRole()
		}

	case types.RoleStrategyAllRoles:
		logger.Debug("roles are published without user assignment", "roles", len(roles))

	case types.RoleStrategyCSVSupplement:
		mapping, err := loadRoleMapping(ctx, h.csvPath)
		if err != nil {
			logger.Warn("role mapping is unavailable, falling back to default_role",
				"path", h.csvPath, "error", err)
			assignDefaultRoles(users, roles)
			return
		}
		assignMappedRoles(ctx, users, roles, mapping)

	case types.RoleStrategyDefaultRole:
		assignDefaultRoles(users, roles)
	}
}

func assignDefaultRoles(users []*model.User, roles []*model.Role) {
	if len(roles) == 0 {
		return
	}

	var adminRole, defaultRole *model.Role
	for _, r := range roles {
		if adminRole == nil && strings.Contains(strings.ToLower(r.Name), "admin") {
			adminRole = r
		}
		if defaultRole == nil && strings.EqualFold(r.Name, DefaultUserRoleName) {
			defaultRole = r
		}
	}
	if defaultRole == nil {
		defaultRole = roles[0]
	}

	for _, u := range users {
		if u.HasRole() {
			continue
		}
		// admins only ever receive an admin-named role
		if u.IsCompanyAdmin {
			if adminRole != nil {
				u.AssignRole(adminRole)
			}
			continue
		}
		u.AssignRole(defaultRole)
	}
}

func assignMappedRoles(ctx context.Context, users []*model.User, roles []*model.Role, mapping map[string]string) {
	byName := make(map[string]*model.Role, len(roles))
	for _, r := range roles {
		key := strings.ToLower(r.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = r
		}
	}

	for _, u := range users {
		if u.HasRole() {
			continue
		}
		name, ok := mapping[strings.ToLower(u.Email)]
		if !ok {
			continue
		}
		role, ok := byName[strings.ToLower(name)]
		if !ok {
			logging.From(ctx).Warn("role in mapping does not exist", "email", u.Email, "role_name", name)
			continue
		}
		u.AssignRole(role)
	}
}

// loadRoleMapping reads an email,role_name CSV. A UTF-8 BOM is accepted and
// emails are lowercased. Rows with an empty column are ignored.
func loadRoleMapping(ctx context.Context, path string) (map[string]string, error) {
	if path == "" {
		return nil, goerr.New("role mapping path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open role mapping", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	r := csv.NewReader(transform.NewReader(f, decoder))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read role mapping header", goerr.V("path", path))
	}
	emailCol, roleCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email":
			emailCol = i
		case "role_name":
			roleCol = i
		}
	}
	if emailCol < 0 || roleCol < 0 {
		return nil, goerr.New("role mapping needs email and role_name columns",
			goerr.V("path", path), goerr.V("header", header))
	}

	mapping := make(map[string]string)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read role mapping", goerr.V("path", path))
		}
		if emailCol >= len(rec) || roleCol >= len(rec) {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(rec[emailCol]))
		role := strings.TrimSpace(rec[roleCol])
		if email == "" || role == "" {
			continue
		}
		mapping[email] = role
	}

	logging.From(ctx).Debug("loaded role mapping", "path", path, "entries", len(mapping))
	return mapping, nil
}
