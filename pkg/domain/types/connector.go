package types

import "fmt"

// API is the Magento interface a connector reads from
type API string

const (
	APIGraphQL API = "graphql"
	APIREST    API = "rest"
)

func (a API) IsValid() bool {
	return a == APIGraphQL || a == APIREST
}

func (a API) String() string {
	return string(a)
}

// Deployment selects the authentication flow
type Deployment string

const (
	// DeploymentOnPrem authenticates with a customer token
	DeploymentOnPrem Deployment = "onprem"
	// DeploymentCloud authenticates with Adobe IMS client credentials
	DeploymentCloud Deployment = "cloud"
)

func (d Deployment) IsValid() bool {
	return d == DeploymentOnPrem || d == DeploymentCloud
}

func (d Deployment) String() string {
	return string(d)
}

// ParseDeployment parses a string into a Deployment
func ParseDeployment(s string) (Deployment, error) {
	d := Deployment(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid deployment: %s", s)
	}
	return d, nil
}
