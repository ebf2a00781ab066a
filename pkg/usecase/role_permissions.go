package usecase

import (
	"context"

	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

// MergeRolePermissions copies the explicit ACL entries of REST roles onto the
// extracted roles with the same id. REST roles unknown to the extraction are
// ignored. It returns the number of roles updated.
func MergeRolePermissions(ctx context.Context, entities *model.Entities, restRoles []magento.Role) int {
	if entities == nil {
		return 0
	}

	var merged int
	for _, r := range restRoles {
		role := entities.RoleByID(r.ID.String())
		if role == nil {
			logging.From(ctx).Debug("no extracted role for REST role", "role_id", r.ID.String(), "name", r.RoleName)
			continue
		}
		role.Permissions = rolePermissions(ctx, r.Permissions)
		merged++
	}
	return merged
}
