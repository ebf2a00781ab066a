package magento

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Service provides access to the Magento B2B storefront APIs as the authenticated company user
type Service interface {
	// FetchCompany runs the company structure GraphQL query
	FetchCompany(ctx context.Context) (*GraphQLData, error)

	// CurrentUser returns GET /rest/V1/customers/me
	CurrentUser(ctx context.Context) (*Customer, error)

	// Company returns GET /rest/V1/company/{id}
	Company(ctx context.Context, companyID string) (*Company, error)

	// CompanyRoles returns the roles of a company with their ACL permissions
	CompanyRoles(ctx context.Context, companyID string) ([]Role, error)

	// Hierarchy returns the root nodes of GET /rest/V1/hierarchy/{companyId}
	Hierarchy(ctx context.Context, companyID string) ([]*HierarchyNode, error)

	// Team returns GET /rest/V1/team/{id}
	Team(ctx context.Context, teamID string) (*TeamDetail, error)
}

// GraphQLData is the decoded result of the company structure query. IDs are still base64 encoded.
type GraphQLData struct {
	Customer GraphQLCustomer
	Company  GraphQLCompany
}

type GraphQLCustomer struct {
	Email     string
	Firstname string
	Lastname  string
}

type GraphQLCompany struct {
	ID           string
	Name         string
	LegalName    string
	Email        string
	CompanyAdmin GraphQLCustomer
	Items        []StructureItem
}

// StructureItem is one flat entry of company.structure.items
type StructureItem struct {
	ID       string
	ParentID string
	// Typename is "Customer" or "CompanyTeam"
	Typename string
	Customer *StructureCustomer
	Team     *StructureTeam
}

type StructureCustomer struct {
	Email     string
	Firstname string
	Lastname  string
	JobTitle  string
	Telephone string
	// Status is nil when the field is absent
	Status *string
	Role   *StructureRole
	Team   *StructureTeam
}

type StructureRole struct {
	ID   string
	Name string
}

type StructureTeam struct {
	ID          string
	Name        string
	Description string
	StructureID string
}

// ID accepts both JSON numbers and strings
type ID string

func (x *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*x = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return goerr.Wrap(err, "invalid id string")
		}
		*x = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return goerr.Wrap(err, "invalid id", goerr.V("raw", string(data)))
	}
	*x = ID(n.String())
	return nil
}

func (x ID) String() string {
	return string(x)
}

// Customer is the body of GET /rest/V1/customers/me
type Customer struct {
	ID                  ID     `json:"id"`
	Email               string `json:"email"`
	Firstname           string `json:"firstname"`
	Lastname            string `json:"lastname"`
	ExtensionAttributes struct {
		CompanyAttributes *CompanyAttributes `json:"company_attributes"`
	} `json:"extension_attributes"`
}

// CompanyAttributes returns the company attributes, never nil
func (c *Customer) CompanyAttributes() CompanyAttributes {
	if c.ExtensionAttributes.CompanyAttributes == nil {
		return CompanyAttributes{}
	}
	return *c.ExtensionAttributes.CompanyAttributes
}

type CompanyAttributes struct {
	CompanyID ID     `json:"company_id"`
	Status    *int   `json:"status"`
	JobTitle  string `json:"job_title"`
	Telephone string `json:"telephone"`
}

// Company is the body of GET /rest/V1/company/{id}
type Company struct {
	ID           ID     `json:"id"`
	CompanyName  string `json:"company_name"`
	LegalName    string `json:"legal_name"`
	CompanyEmail string `json:"company_email"`
	SuperUserID  ID     `json:"super_user_id"`
}

type Role struct {
	ID          ID           `json:"id"`
	RoleName    string       `json:"role_name"`
	Permissions []Permission `json:"permissions"`
	CompanyID   ID           `json:"company_id"`
}

type Permission struct {
	ResourceID string `json:"resource_id"`
	Permission string `json:"permission"`
}

type HierarchyNode struct {
	StructureID       ID               `json:"structure_id"`
	EntityID          ID               `json:"entity_id"`
	EntityType        string           `json:"entity_type"`
	StructureParentID ID               `json:"structure_parent_id"`
	Children          []*HierarchyNode `json:"children"`
}

type TeamDetail struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
