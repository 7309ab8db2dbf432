package coupon

import "github.com/shopspring/decimal"

// Catalog returns the fixed, ordered list of simulated promotions. Each call
// returns a fresh slice.
func Catalog() []Rule {
	return []Rule{
		{
			ID:                 "c1",
			Code:               CodeWelcome10,
			Description:        "10% off on first order over 50 USD",
			DiscountType:       DiscountPercentage,
			Value:              decimal.NewFromInt(10),
			MinOrderAmount:     decimal.NewFromInt(50),
			ValidFrom:          "2025-01-01",
			ValidTo:            "2025-12-31",
			MaxUsesPerCustomer: 1,
			Active:             true,
		},
		{
			ID:                 "c2",
			Code:               CodeWelcome20,
			Description:        "20% off on first order over 200 USD",
			DiscountType:       DiscountPercentage,
			Value:              decimal.NewFromInt(20),
			MinOrderAmount:     decimal.NewFromInt(200),
			ValidFrom:          "2025-01-01",
			ValidTo:            "2025-12-31",
			MaxUsesPerCustomer: 1,
			Active:             true,
		},
	}
}
