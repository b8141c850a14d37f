package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/infrastructure/postgres/generated"
	"github.com/iho/goasset/internal/usecase"
)

// AssetRepository implements usecase.AssetRepository over the assets table
// shared with the asset register.
type AssetRepository struct {
	queries *generated.Queries
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db generated.DBTX) *AssetRepository {
	return &AssetRepository{queries: generated.New(db)}
}

// ListEligible returns active, non-deleted assets with a positive book value
// ordered by asset number.
func (r *AssetRepository) ListEligible(ctx context.Context, businessID string) ([]*domain.Asset, error) {
	rows, err := r.queries.ListEligibleAssets(ctx, businessID)
	if err != nil {
		return nil, err
	}

	assets := make([]*domain.Asset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, rowToAsset(generated.GetAssetForUpdateRow(row)))
	}

	return assets, nil
}

// GetByIDForUpdate retrieves an asset with a FOR UPDATE lock.
func (r *AssetRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Asset, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetAssetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}

		return nil, err
	}

	return rowToAsset(row), nil
}

// UpdateDepreciation writes the aggregate depreciation fields.
func (r *AssetRepository) UpdateDepreciation(ctx context.Context, tx usecase.Transaction, update usecase.AssetDepreciationUpdate) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	affected, err := queries.UpdateAssetDepreciation(ctx, generated.UpdateAssetDepreciationParams{
		ID:                      update.AssetID,
		AccumulatedDepreciation: decimalToNumeric(update.AccumulatedDepreciation),
		BookValue:               decimalToNumeric(update.BookValue),
		LastDepreciationDate:    timePtrToPgDate(update.LastDepreciationDate),
		UpdatedAt:               timeToPgTimestamptz(update.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("update asset %s: %w", update.AssetID, domain.ErrAssetNotFound)
	}

	return nil
}

func rowToAsset(row generated.GetAssetForUpdateRow) *domain.Asset {
	return &domain.Asset{
		ID:                      row.ID,
		BusinessID:              row.BusinessID,
		AssetNumber:             row.AssetNumber,
		Name:                    row.Name,
		CategoryID:              row.CategoryID.String,
		CategoryName:            row.CategoryName,
		Status:                  domain.AssetStatus(row.Status),
		IsDeleted:               row.IsDeleted,
		AcquisitionCost:         numericToDecimal(row.PurchasePrice),
		SalvageValue:            numericToDecimal(row.SalvageValue),
		UsefulLifeYears:         int(row.UsefulLifeYears),
		DepreciationMethod:      domain.DepreciationMethod(row.DepreciationMethod),
		AccelerationFactor:      numericToDecimal(row.DecliningBalanceFactor),
		AcquisitionDate:         pgDateToTimePtr(row.AcquisitionDate),
		BookValue:               numericToDecimal(row.BookValue),
		AccumulatedDepreciation: numericToDecimal(row.AccumulatedDepreciation),
		LastDepreciationDate:    pgDateToTimePtr(row.LastDepreciationDate),
		UpdatedAt:               row.UpdatedAt.Time,
	}
}
