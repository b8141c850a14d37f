package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iho/goasset/internal/domain"
)

// SeedAsset is the JSON shape of an asset in a seed file.
type SeedAsset struct {
	ID                      string           `json:"id"`
	BusinessID              string           `json:"business_id"`
	AssetNumber             string           `json:"asset_number"`
	Name                    string           `json:"name"`
	CategoryID              string           `json:"category_id"`
	CategoryName            string           `json:"category_name"`
	Status                  string           `json:"status"`
	PurchasePrice           decimal.Decimal  `json:"purchase_price"`
	SalvageValue            decimal.Decimal  `json:"salvage_value"`
	UsefulLifeYears         int              `json:"useful_life_years"`
	DepreciationMethod      string           `json:"depreciation_method"`
	DecliningBalanceFactor  decimal.Decimal  `json:"declining_balance_factor"`
	AcquisitionDate         string           `json:"acquisition_date"`
	BookValue               *decimal.Decimal `json:"book_value"`
	AccumulatedDepreciation decimal.Decimal  `json:"accumulated_depreciation"`
}

// LoadAssets reads a JSON array of assets into the store. A missing book
// value defaults to purchase price minus accumulated depreciation.
func (s *Store) LoadAssets(r io.Reader) (int, error) {
	var seeds []SeedAsset
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("decode seed assets: %w", err)
	}

	for i, seed := range seeds {
		asset, err := seed.toAsset()
		if err != nil {
			return i, fmt.Errorf("seed asset %d (%s): %w", i, seed.AssetNumber, err)
		}
		s.PutAsset(asset)
	}

	return len(seeds), nil
}

// LoadAssetsYAML reads the same register written as a YAML sequence, using
// the JSON field names as keys.
func (s *Store) LoadAssetsYAML(r io.Reader) (int, error) {
	var doc []map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode seed assets: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("decode seed assets: %w", err)
	}
	return s.LoadAssets(bytes.NewReader(raw))
}

func (seed SeedAsset) toAsset() (domain.Asset, error) {
	if seed.ID == "" || seed.BusinessID == "" {
		return domain.Asset{}, fmt.Errorf("id and business_id are required: %w", domain.ErrInvalidAsset)
	}

	status := domain.AssetStatus(seed.Status)
	if status == "" {
		status = domain.AssetStatusActive
	}

	bookValue := seed.PurchasePrice.Sub(seed.AccumulatedDepreciation)
	if seed.BookValue != nil {
		bookValue = *seed.BookValue
	}

	asset := domain.Asset{
		ID:                      seed.ID,
		BusinessID:              seed.BusinessID,
		AssetNumber:             seed.AssetNumber,
		Name:                    seed.Name,
		CategoryID:              seed.CategoryID,
		CategoryName:            seed.CategoryName,
		Status:                  status,
		AcquisitionCost:         seed.PurchasePrice,
		SalvageValue:            seed.SalvageValue,
		UsefulLifeYears:         seed.UsefulLifeYears,
		DepreciationMethod:      domain.DepreciationMethod(seed.DepreciationMethod),
		AccelerationFactor:      seed.DecliningBalanceFactor,
		BookValue:               bookValue,
		AccumulatedDepreciation: seed.AccumulatedDepreciation,
		UpdatedAt:               time.Now().UTC(),
	}

	if seed.AcquisitionDate != "" {
		t, err := time.Parse(domain.DateLayout, seed.AcquisitionDate)
		if err != nil {
			return domain.Asset{}, fmt.Errorf("acquisition_date: %w", err)
		}
		asset.AcquisitionDate = &t
	}

	if err := asset.Validate(); err != nil {
		return domain.Asset{}, err
	}

	return asset, nil
}
