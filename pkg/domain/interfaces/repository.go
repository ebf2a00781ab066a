package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
)

// OutputRepository persists run artifacts under timestamped folders
type OutputRepository interface {
	// CreateRunDir creates the folder of one run and returns its path
	CreateRunDir(ctx context.Context, providerName string, at time.Time) (string, error)

	// WriteJSON writes v as indented JSON to dir/name and returns the file path
	WriteJSON(ctx context.Context, dir, name string, v any) (string, error)

	// Cleanup deletes run folders older than the retention period and returns how many were removed
	Cleanup(ctx context.Context, now time.Time) (int, error)
}

// ProviderRegistry persists the Veza provider ids created by this tool
type ProviderRegistry interface {
	Load(ctx context.Context) (*model.ProviderRegistry, error)
	Save(ctx context.Context, reg *model.ProviderRegistry) error
}
