// Package runstore persists campaign history across invocations.
package runstore

import (
	"sync"

	"github.com/alchm-kitchen/typesweep/internal/contract"
)

// HistoryStoreManager manages the campaign history store.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	campaign     contract.CampaignStore
}

var _ contract.HistoryManager = &HistoryStoreManager{} // Compile-time check

// GetCampaignStore returns the campaign CampaignStore.
func (mgr *HistoryStoreManager) GetCampaignStore() contract.CampaignStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.campaign
}
