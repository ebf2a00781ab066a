package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/types"
)

// ConnectorProfile carries the naming of one connector variant
type ConnectorProfile struct {
	API        types.API
	Deployment types.Deployment
	// ProviderName is the default Veza provider name
	ProviderName string
	// AppPrefix prefixes the application name, as in "{AppPrefix}_{company id}"
	AppPrefix string
	// AppType is the OAA application type
	AppType string
	// Suffix ends the application description
	Suffix string
}

// Name identifies the variant in logs and result files
func (p ConnectorProfile) Name() string {
	return p.Deployment.String() + "-" + p.API.String()
}

var connectorProfiles = []ConnectorProfile{
	{
		API:          types.APIGraphQL,
		Deployment:   types.DeploymentOnPrem,
		ProviderName: "Magento_OnPrem_GraphQL",
		AppPrefix:    "magento_onprem_graphql",
		AppType:      "Magento B2B On-Prem (GraphQL)",
		Suffix:       "On-Prem, GraphQL connector",
	},
	{
		API:          types.APIREST,
		Deployment:   types.DeploymentOnPrem,
		ProviderName: "Magento_OnPrem_REST",
		AppPrefix:    "magento_onprem_rest",
		AppType:      "Magento B2B On-Prem (REST)",
		Suffix:       "On-Prem, REST connector",
	},
	{
		API:          types.APIGraphQL,
		Deployment:   types.DeploymentCloud,
		ProviderName: "Commerce_Cloud_GraphQL",
		AppPrefix:    "commerce_cloud_graphql",
		AppType:      "Magento B2B Commerce Cloud (GraphQL)",
		Suffix:       "Commerce Cloud, GraphQL connector",
	},
	{
		API:          types.APIREST,
		Deployment:   types.DeploymentCloud,
		ProviderName: "Commerce_Cloud_REST",
		AppPrefix:    "commerce_cloud_rest",
		AppType:      "Magento B2B Commerce Cloud (REST)",
		Suffix:       "Commerce Cloud, REST connector",
	},
}

// ErrUnknownConnector is returned for an unsupported (api, deployment) pair
var ErrUnknownConnector = goerr.New("unknown connector")

// LookupConnector returns the profile of the given variant
func LookupConnector(api types.API, deployment types.Deployment) (ConnectorProfile, error) {
	for _, p := range connectorProfiles {
		if p.API == api && p.Deployment == deployment {
			return p, nil
		}
	}
	return ConnectorProfile{}, goerr.Wrap(ErrUnknownConnector, "no connector profile",
		goerr.V("api", api), goerr.V("deployment", deployment))
}
