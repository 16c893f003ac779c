package setup

import (
	"context"
	"sync"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

// MemoryRepository keeps the farm configuration in process. It is used when
// no database is configured.
type MemoryRepository struct {
	mu  sync.RWMutex
	cfg *models.FarmConfig
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) LoadFarmConfig(context.Context) (models.FarmConfig, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cfg == nil {
		return models.FarmConfig{}, false, nil
	}
	return *r.cfg, true, nil
}

func (r *MemoryRepository) CreateFarmConfig(_ context.Context, cfg models.FarmConfig) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg != nil {
		return false, nil
	}
	r.cfg = &cfg
	return true, nil
}

func (r *MemoryRepository) SaveFarmConfig(_ context.Context, cfg models.FarmConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = &cfg
	return nil
}
