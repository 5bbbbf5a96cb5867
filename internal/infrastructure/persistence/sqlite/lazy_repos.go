package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/dimmer/internal/application/port"
)

// LazyPreferenceRepository wraps the preference repository with lazy
// database initialization.
type LazyPreferenceRepository struct {
	provider port.DatabaseProvider
	repo     port.KeyValueStore
	once     sync.Once
	initErr  error
}

// NewLazyPreferenceRepository creates a lazy-loading preference store.
func NewLazyPreferenceRepository(provider port.DatabaseProvider) port.KeyValueStore {
	return &LazyPreferenceRepository{provider: provider}
}

func (r *LazyPreferenceRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewPreferenceRepository(db)
	})
	return r.initErr
}

func (r *LazyPreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := r.init(ctx); err != nil {
		return "", false, err
	}
	return r.repo.Get(ctx, key)
}

func (r *LazyPreferenceRepository) Set(ctx context.Context, key, value string) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Set(ctx, key, value)
}
