package memory

import (
	"context"
	"sort"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	store *Store
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(store *Store) *AssetRepository {
	return &AssetRepository{store: store}
}

// ListEligible returns eligible assets ordered by asset number.
func (r *AssetRepository) ListEligible(ctx context.Context, businessID string) ([]*domain.Asset, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	assets := make([]*domain.Asset, 0)
	for _, a := range r.store.assets {
		if a.BusinessID != businessID || !a.IsEligible() {
			continue
		}
		asset := a
		assets = append(assets, &asset)
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].AssetNumber < assets[j].AssetNumber })

	return assets, nil
}

// GetByIDForUpdate returns a copy of the asset.
func (r *AssetRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Asset, error) {
	if err := r.store.check(tx); err != nil {
		return nil, err
	}

	a, ok := r.store.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	return &a, nil
}

// UpdateDepreciation writes the aggregate depreciation fields.
func (r *AssetRepository) UpdateDepreciation(ctx context.Context, tx usecase.Transaction, update usecase.AssetDepreciationUpdate) error {
	if err := r.store.check(tx); err != nil {
		return err
	}

	a, ok := r.store.assets[update.AssetID]
	if !ok {
		return domain.ErrAssetNotFound
	}

	a.AccumulatedDepreciation = update.AccumulatedDepreciation
	a.BookValue = update.BookValue
	a.LastDepreciationDate = update.LastDepreciationDate
	a.UpdatedAt = update.UpdatedAt
	r.store.assets[a.ID] = a

	return nil
}
