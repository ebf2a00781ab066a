package types

import "fmt"

// EntityType is the discriminator of a node in a company structure
type EntityType string

const (
	EntityCustomer    EntityType = "Customer"
	EntityCompanyTeam EntityType = "CompanyTeam"
)

// IsValid checks if the entity type is valid
func (e EntityType) IsValid() bool {
	switch e {
	case EntityCustomer, EntityCompanyTeam:
		return true
	default:
		return false
	}
}

func (e EntityType) String() string {
	return string(e)
}

// ParseRESTEntityType maps the lower-case REST entity_type ("customer", "team") to an EntityType
func ParseRESTEntityType(s string) (EntityType, error) {
	switch s {
	case "customer":
		return EntityCustomer, nil
	case "team":
		return EntityCompanyTeam, nil
	default:
		return "", fmt.Errorf("unknown entity type: %s", s)
	}
}
