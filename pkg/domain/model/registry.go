package model

import "time"

// RegisteredDataSource is a Veza data source recorded in the registry
type RegisteredDataSource struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// RegisteredProvider is a Veza provider created or reused by a push
type RegisteredProvider struct {
	Name        string                 `json:"name"`
	ID          string                 `json:"id"`
	AppName     string                 `json:"app_name"`
	DataSources []RegisteredDataSource `json:"data_sources"`
}

// ProviderRegistry is the on-disk record of providers owned by this tool
type ProviderRegistry struct {
	GeneratedAt    time.Time            `json:"generated_at"`
	VezaURL        string               `json:"veza_url"`
	ProviderPrefix string               `json:"provider_prefix"`
	Providers      []RegisteredProvider `json:"providers"`
}

// Provider returns the registered provider with the given name
func (r *ProviderRegistry) Provider(name string) (*RegisteredProvider, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Providers {
		if r.Providers[i].Name == name {
			return &r.Providers[i], true
		}
	}
	return nil, false
}

// IsOurs reports whether a provider with this name and id was recorded by a previous push
func (r *ProviderRegistry) IsOurs(name, id string) bool {
	p, ok := r.Provider(name)
	return ok && p.ID == id
}

// ProviderIDs maps provider name to id
func (r *ProviderRegistry) ProviderIDs() map[string]string {
	ids := make(map[string]string)
	if r == nil {
		return ids
	}
	for _, p := range r.Providers {
		ids[p.Name] = p.ID
	}
	return ids
}

// Upsert records p, replacing any entry with the same name
func (r *ProviderRegistry) Upsert(p RegisteredProvider) {
	for i := range r.Providers {
		if r.Providers[i].Name == p.Name {
			r.Providers[i] = p
			return
		}
	}
	r.Providers = append(r.Providers, p)
}
