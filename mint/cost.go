package mint

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Cost struct {
	UnitPrice decimal.Decimal
	Quantity  int
	UnitTotal decimal.Decimal
	Fee       decimal.Decimal
	Total     decimal.Decimal
}

// ComputeCost prices one mint action. The platform fee is a flat fiat
// amount per action, not per unit, converted at the current XIN/USD price.
// It applies to free-mint collections too, so a zero unit price still
// produces a non-zero total.
func ComputeCost(unitPrice decimal.Decimal, quantity int, feeUSD, xinUSD decimal.Decimal) (*Cost, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("invalid quantity %d", quantity)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("invalid unit price %s", unitPrice)
	}
	if !xinUSD.IsPositive() {
		return nil, fmt.Errorf("invalid exchange rate %s", xinUSD)
	}
	unitTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	fee := feeUSD.Div(xinUSD)
	return &Cost{
		UnitPrice: unitPrice,
		Quantity:  quantity,
		UnitTotal: unitTotal,
		Fee:       fee,
		Total:     unitTotal.Add(fee),
	}, nil
}
