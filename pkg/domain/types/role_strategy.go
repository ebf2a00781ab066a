package types

import "fmt"

// RoleStrategy decides how users without a role get one before the payload is built
type RoleStrategy string

const (
	RoleStrategyDefaultRole   RoleStrategy = "default_role"
	RoleStrategyCSVSupplement RoleStrategy = "csv_supplement"
	RoleStrategyAllRoles      RoleStrategy = "all_roles"
	RoleStrategySkip          RoleStrategy = "skip"
)

// AllRoleStrategies returns all valid role strategies
func AllRoleStrategies() []RoleStrategy {
	return []RoleStrategy{
		RoleStrategyDefaultRole,
		RoleStrategyCSVSupplement,
		RoleStrategyAllRoles,
		RoleStrategySkip,
	}
}

// IsValid checks if the role strategy is valid
func (s RoleStrategy) IsValid() bool {
	switch s {
	case RoleStrategyDefaultRole,
		RoleStrategyCSVSupplement,
		RoleStrategyAllRoles,
		RoleStrategySkip:
		return true
	default:
		return false
	}
}

func (s RoleStrategy) String() string {
	return string(s)
}

// ParseRoleStrategy parses a string into a RoleStrategy
func ParseRoleStrategy(s string) (RoleStrategy, error) {
	strategy := RoleStrategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("invalid role strategy: %s", s)
	}
	return strategy, nil
}
