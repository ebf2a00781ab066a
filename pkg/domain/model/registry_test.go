package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
)

func TestProviderRegistry(t *testing.T) {
	reg := &model.ProviderRegistry{}
	gt.Bool(t, reg.IsOurs("Magento_OnPrem_REST", "p-1")).False()

	reg.Upsert(model.RegisteredProvider{Name: "Magento_OnPrem_REST", ID: "p-1"})
	reg.Upsert(model.RegisteredProvider{Name: "Commerce_Cloud_REST", ID: "p-2"})
	reg.Upsert(model.RegisteredProvider{Name: "Magento_OnPrem_REST", ID: "p-3",
		DataSources: []model.RegisteredDataSource{{Name: "Acme", ID: "ds-1"}}})

	gt.Array(t, reg.Providers).Length(2)
	gt.Bool(t, reg.IsOurs("Magento_OnPrem_REST", "p-3")).True()
	gt.Bool(t, reg.IsOurs("Magento_OnPrem_REST", "p-1")).False()
	gt.Value(t, reg.ProviderIDs()).Equal(map[string]string{
		"Magento_OnPrem_REST": "p-3",
		"Commerce_Cloud_REST": "p-2",
	})

	var empty *model.ProviderRegistry
	gt.Bool(t, empty.IsOurs("x", "y")).False()
	gt.Value(t, len(empty.ProviderIDs())).Equal(0)
}
