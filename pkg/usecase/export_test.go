package usecase

import (
	"time"

	"github.com/secmon-lab/magento-oaa/pkg/service/magento"
)

// FlattenHierarchyIDs returns the entity ids of the tree in walk order
func FlattenHierarchyIDs(roots []*magento.HierarchyNode) []string {
	var ids []string
	for _, node := range flattenHierarchy(roots) {
		ids = append(ids, node.EntityID.String())
	}
	return ids
}

// SetPublisherClock replaces the clock used to stamp the registry
func SetPublisherClock(p *Publisher, now func() time.Time) {
	p.now = now
}
