package veza

import "context"

// Service is the subset of the Veza OAA API used to publish a custom application
type Service interface {
	// GetProvider returns the custom provider with the given name, or nil when none exists
	GetProvider(ctx context.Context, name string) (*Provider, error)

	// CreateProvider creates a custom provider using the application template
	CreateProvider(ctx context.Context, name string) (*Provider, error)

	// ListDataSources returns the data sources of a provider
	ListDataSources(ctx context.Context, providerID string) ([]DataSource, error)

	// CreateDataSource creates a data source under a provider
	CreateDataSource(ctx context.Context, providerID, name string) (*DataSource, error)

	// Push uploads an OAA payload into a data source
	Push(ctx context.Context, providerID, dataSourceID string, payload any) (*PushResponse, error)

	// URL returns the Veza tenant URL
	URL() string
}

type Provider struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CustomTemplate string `json:"custom_template,omitempty"`
	State          string `json:"state,omitempty"`
}

type DataSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PushResponse keeps the raw response body alongside the warnings Veza reports
type PushResponse struct {
	Warnings []Warning      `json:"warnings,omitempty"`
	Raw      map[string]any `json:"raw,omitempty"`
}

type Warning struct {
	Message string `json:"message"`
}

type valueEnvelope[T any] struct {
	Value T `json:"value"`
}

type valuesEnvelope[T any] struct {
	Values []T `json:"values"`
}

type pushRequest struct {
	ID           string `json:"id"`
	DataSourceID string `json:"data_source_id"`
	JSONData     string `json:"json_data"`
}

type createProviderRequest struct {
	Name           string `json:"name"`
	CustomTemplate string `json:"custom_template"`
}

type createDataSourceRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
