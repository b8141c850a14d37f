package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept for monetary amounts.
const MoneyPlaces = 2

var (
	monthsPerYear = decimal.NewFromInt(12)

	// DefaultAccelerationFactor makes declining-balance double-declining.
	DefaultAccelerationFactor = decimal.NewFromInt(2)
)

// RoundMoney rounds half away from zero to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// StraightLineAmount returns the constant monthly amount
// (cost - salvage) / (life * 12).
func StraightLineAmount(cost, salvage decimal.Decimal, lifeYears int) decimal.Decimal {
	if lifeYears <= 0 {
		return decimal.Zero
	}

	months := decimal.NewFromInt(int64(lifeYears)).Mul(monthsPerYear)
	amount := RoundMoney(cost.Sub(salvage).Div(months))
	if amount.IsNegative() {
		return decimal.Zero
	}

	return amount
}

// DecliningBalanceAmount returns bookValue * (factor / life) / 12,
// clamped so the book value never drops below salvage.
func DecliningBalanceAmount(bookValue, salvage decimal.Decimal, lifeYears int, factor decimal.Decimal) decimal.Decimal {
	if lifeYears <= 0 {
		return decimal.Zero
	}
	if !factor.IsPositive() {
		factor = DefaultAccelerationFactor
	}

	months := decimal.NewFromInt(int64(lifeYears)).Mul(monthsPerYear)
	amount := RoundMoney(bookValue.Mul(factor).Div(months))

	if bookValue.Sub(amount).LessThan(salvage) {
		amount = decimal.Max(decimal.Zero, bookValue.Sub(salvage))
	}

	return amount
}

// ClampToSalvage limits amount so that bookValue - amount >= salvage.
func ClampToSalvage(amount, bookValue, salvage decimal.Decimal) decimal.Decimal {
	headroom := bookValue.Sub(salvage)
	if amount.GreaterThan(headroom) {
		amount = headroom
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Calculation is the outcome of computing one period for one asset.
type Calculation struct {
	Method DepreciationMethod
	Amount decimal.Decimal
}

// Calculator computes monthly depreciation. It holds no state besides the
// acceleration factor used when an asset does not carry its own.
type Calculator struct {
	defaultFactor decimal.Decimal
}

// NewCalculator creates a Calculator. A non-positive factor falls back to 2.
func NewCalculator(defaultFactor decimal.Decimal) *Calculator {
	if !defaultFactor.IsPositive() {
		defaultFactor = DefaultAccelerationFactor
	}
	return &Calculator{defaultFactor: defaultFactor}
}

// Compute dispatches on the asset's method and applies the salvage clamp.
// A zero amount means the asset is fully depreciated.
func (c *Calculator) Compute(asset *Asset) (Calculation, error) {
	if err := asset.Validate(); err != nil {
		return Calculation{}, err
	}

	method := asset.DepreciationMethod.Normalize()

	var amount decimal.Decimal
	switch method {
	case MethodDecliningBalance:
		factor := asset.AccelerationFactor
		if !factor.IsPositive() {
			factor = c.defaultFactor
		}
		amount = DecliningBalanceAmount(asset.BookValue, asset.SalvageValue, asset.UsefulLifeYears, factor)
	default:
		amount = StraightLineAmount(asset.AcquisitionCost, asset.SalvageValue, asset.UsefulLifeYears)
	}

	return Calculation{
		Method: method,
		Amount: ClampToSalvage(amount, asset.BookValue, asset.SalvageValue),
	}, nil
}
