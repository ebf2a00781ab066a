package memory

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
)

// Output keeps run artifacts in memory. Files are stored as marshaled JSON keyed by "dir/name".
type Output struct {
	mu       sync.RWMutex
	dirs     []string
	files    map[string][]byte
	cleanups int
}

func NewOutput() *Output {
	return &Output{files: make(map[string][]byte)}
}

func (x *Output) CreateRunDir(ctx context.Context, providerName string, at time.Time) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	dir := at.Format("20060102_1504") + "_" + providerName
	x.dirs = append(x.dirs, dir)
	return dir, nil
}

func (x *Output) WriteJSON(ctx context.Context, dir, name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal output", goerr.V("name", name))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	p := path.Join(dir, name)
	x.files[p] = data
	return p, nil
}

func (x *Output) Cleanup(ctx context.Context, now time.Time) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.cleanups++
	return 0, nil
}

// File returns a stored file
func (x *Output) File(p string) ([]byte, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	data, ok := x.files[p]
	return data, ok
}

// Dirs returns the run directories created so far
func (x *Output) Dirs() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]string(nil), x.dirs...)
}

// Cleanups returns how many times Cleanup was called
func (x *Output) Cleanups() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.cleanups
}

// Registry keeps the provider registry in memory
type Registry struct {
	mu  sync.RWMutex
	reg *model.ProviderRegistry
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (x *Registry) Load(ctx context.Context) (*model.ProviderRegistry, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.reg == nil {
		return &model.ProviderRegistry{}, nil
	}
	return copyRegistry(x.reg), nil
}

func (x *Registry) Save(ctx context.Context, reg *model.ProviderRegistry) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.reg = copyRegistry(reg)
	return nil
}

// copyRegistry creates a deep copy of a registry
func copyRegistry(reg *model.ProviderRegistry) *model.ProviderRegistry {
	copied := &model.ProviderRegistry{
		GeneratedAt:    reg.GeneratedAt,
		VezaURL:        reg.VezaURL,
		ProviderPrefix: reg.ProviderPrefix,
	}
	for _, p := range reg.Providers {
		cp := p
		cp.DataSources = append([]model.RegisteredDataSource(nil), p.DataSources...)
		copied.Providers = append(copied.Providers, cp)
	}
	return copied
}
