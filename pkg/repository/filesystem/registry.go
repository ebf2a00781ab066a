package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
)

const RegistryFile = "oaa_provider_ids.json"

// Registry keeps the provider registry in {dir}/oaa_provider_ids.json
type Registry struct {
	path string
}

func NewRegistry(dir string) *Registry {
	return &Registry{path: filepath.Join(dir, RegistryFile)}
}

// Path returns the registry file path
func (x *Registry) Path() string {
	return x.path
}

// Load returns an empty registry when the file is missing or unreadable
func (x *Registry) Load(ctx context.Context) (*model.ProviderRegistry, error) {
	data, err := os.ReadFile(x.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.From(ctx).Warn("Could not read provider registry", "path", x.path, "error", err)
		}
		return &model.ProviderRegistry{}, nil
	}

	var reg model.ProviderRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		logging.From(ctx).Warn("Could not parse provider registry", "path", x.path, "error", err)
		return &model.ProviderRegistry{}, nil
	}

	// entries without a name or id are ignored
	valid := reg.Providers[:0]
	for _, p := range reg.Providers {
		if p.Name != "" && p.ID != "" {
			valid = append(valid, p)
		}
	}
	reg.Providers = valid

	logging.From(ctx).Debug("Loaded provider registry", "path", x.path, "providers", len(reg.Providers))
	return &reg, nil
}

func (x *Registry) Save(ctx context.Context, reg *model.ProviderRegistry) error {
	if err := os.MkdirAll(filepath.Dir(x.path), 0o750); err != nil {
		return goerr.Wrap(err, "failed to create registry directory", goerr.V("path", x.path))
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal provider registry")
	}
	if err := os.WriteFile(x.path, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write provider registry", goerr.V("path", x.path))
	}

	logging.From(ctx).Debug("Saved provider registry", "path", x.path, "providers", len(reg.Providers))
	return nil
}
