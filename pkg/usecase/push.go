package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/interfaces"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/service/veza"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

// Conflict is a provider with our name that a previous run did not create
type Conflict struct {
	ProviderName string `json:"provider_name"`
	ExistingID   string `json:"existing_id"`
	Reason       string `json:"reason"`
}

// PreflightResult decides between overriding our own provider and creating one
type PreflightResult struct {
	Override             bool       `json:"override_provider"`
	ExistingProviderID   string     `json:"existing_provider_id,omitempty"`
	ExistingDataSourceID string     `json:"existing_data_source_id,omitempty"`
	Conflicts            []Conflict `json:"conflicts,omitempty"`
}

// HasConflicts reports whether an external provider already uses the name
func (r *PreflightResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// PushResult describes where a payload was published
type PushResult struct {
	ProviderName string             `json:"provider_name"`
	ProviderID   string             `json:"provider_id"`
	DataSourceID string             `json:"data_source_id"`
	Overridden   bool               `json:"overridden"`
	Preflight    *PreflightResult   `json:"-"`
	Response     *veza.PushResponse `json:"veza_response,omitempty"`
}

// Publisher pushes payloads to Veza and keeps the provider registry current
type Publisher struct {
	veza     veza.Service
	registry interfaces.ProviderRegistry
	prefix   string
	now      func() time.Time
}

// NewPublisher creates a Publisher. svc may be nil when Veza is not configured.
func NewPublisher(svc veza.Service, registry interfaces.ProviderRegistry, prefix string) *Publisher {
	return &Publisher{
		veza:     svc,
		registry: registry,
		prefix:   prefix,
		now:      time.Now,
	}
}

// ProviderName returns the full provider name including the prefix
func (p *Publisher) ProviderName(name string) string {
	return veza.ProviderName(name, p.prefix)
}

// Preflight looks up the provider and tells whether it belongs to us.
// Lookup failures are logged and treated as "no provider".
func (p *Publisher) Preflight(ctx context.Context, providerName string) *PreflightResult {
	logger := logging.From(ctx)
	result := &PreflightResult{}

	if p.veza == nil {
		logger.Debug("preflight skipped, veza is not configured")
		return result
	}

	fullName := p.ProviderName(providerName)
	existing, err := p.veza.GetProvider(ctx, fullName)
	if err != nil {
		logger.Warn("preflight could not check provider", "provider", fullName, "error", err)
		return result
	}
	if existing == nil {
		return result
	}

	reg, err := p.registry.Load(ctx)
	if err != nil {
		logger.Warn("failed to load provider registry", "error", err)
	}

	if !reg.IsOurs(fullName, existing.ID) {
		result.Conflicts = append(result.Conflicts, Conflict{
			ProviderName: fullName,
			ExistingID:   existing.ID,
			Reason:       "Provider exists but was not created by this connector",
		})
		logger.Warn("provider already exists and was not created by this connector, set PROVIDER_PREFIX to avoid conflicts",
			"provider", fullName, "id", existing.ID)
		return result
	}

	result.Override = true
	result.ExistingProviderID = existing.ID
	sources, err := p.veza.ListDataSources(ctx, existing.ID)
	if err != nil {
		logger.Warn("failed to list data sources", "provider", fullName, "error", err)
	} else if len(sources) > 0 {
		result.ExistingDataSourceID = sources[0].ID
	}
	logger.Info("will override own provider", "provider", fullName, "id", existing.ID)
	return result
}

// Push publishes payload under the provider, creating the provider and a data
// source named after the company when needed, then records the ids.
func (p *Publisher) Push(ctx context.Context, providerName, companyName string, payload any) (*PushResult, error) {
	if p.veza == nil {
		return nil, goerr.Wrap(ErrVezaNotSet, "cannot push")
	}
	logger := logging.From(ctx)

	preflight := p.Preflight(ctx, providerName)
	for _, c := range preflight.Conflicts {
		logger.Warn("provider conflict", "provider", c.ProviderName, "reason", c.Reason)
	}

	fullName := p.ProviderName(providerName)
	result := &PushResult{ProviderName: fullName, Preflight: preflight}

	if preflight.Override && preflight.ExistingProviderID != "" && preflight.ExistingDataSourceID != "" {
		result.ProviderID = preflight.ExistingProviderID
		result.DataSourceID = preflight.ExistingDataSourceID
		result.Overridden = true
	} else {
		provider, err := p.ensureProvider(ctx, fullName)
		if err != nil {
			return nil, err
		}
		ds, err := p.ensureDataSource(ctx, provider.ID, companyName)
		if err != nil {
			return nil, err
		}
		result.ProviderID = provider.ID
		result.DataSourceID = ds.ID
	}

	resp, err := p.veza.Push(ctx, result.ProviderID, result.DataSourceID, payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to push payload",
			goerr.V(ProviderKey, fullName), goerr.V("data_source_id", result.DataSourceID))
	}
	result.Response = resp
	if resp != nil {
		for _, w := range resp.Warnings {
			logger.Warn("veza push warning", "message", w.Message)
		}
	}
	logger.Info("pushed to Veza", "provider", fullName, "data_source_id", result.DataSourceID)

	if err := p.saveProvider(ctx, fullName, result.ProviderID, companyName); err != nil {
		logger.Warn("could not save provider ids", "provider", fullName, "error", err)
	}
	return result, nil
}

func (p *Publisher) ensureProvider(ctx context.Context, name string) (*veza.Provider, error) {
	provider, err := p.veza.GetProvider(ctx, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get provider", goerr.V(ProviderKey, name))
	}
	if provider != nil {
		return provider, nil
	}

	provider, err = p.veza.CreateProvider(ctx, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create provider", goerr.V(ProviderKey, name))
	}
	logging.From(ctx).Info("created provider", "provider", name, "id", provider.ID)
	return provider, nil
}

func (p *Publisher) ensureDataSource(ctx context.Context, providerID, name string) (*veza.DataSource, error) {
	sources, err := p.veza.ListDataSources(ctx, providerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list data sources", goerr.V("provider_id", providerID))
	}
	for i := range sources {
		if sources[i].Name == name {
			return &sources[i], nil
		}
	}

	ds, err := p.veza.CreateDataSource(ctx, providerID, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create data source",
			goerr.V("provider_id", providerID), goerr.V("name", name))
	}
	return ds, nil
}

func (p *Publisher) saveProvider(ctx context.Context, name, providerID, appName string) error {
	reg, err := p.registry.Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load provider registry")
	}

	entry := model.RegisteredProvider{
		Name:        name,
		ID:          providerID,
		AppName:     appName,
		DataSources: []model.RegisteredDataSource{},
	}
	sources, err := p.veza.ListDataSources(ctx, providerID)
	if err != nil {
		logging.From(ctx).Warn("failed to list data sources for registry", "provider", name, "error", err)
	}
	for _, ds := range sources {
		entry.DataSources = append(entry.DataSources, model.RegisteredDataSource{Name: ds.Name, ID: ds.ID})
	}

	reg.GeneratedAt = p.now().UTC()
	reg.VezaURL = p.veza.URL()
	reg.ProviderPrefix = p.prefix
	reg.Upsert(entry)

	if err := p.registry.Save(ctx, reg); err != nil {
		return goerr.Wrap(err, "failed to save provider registry")
	}
	return nil
}
