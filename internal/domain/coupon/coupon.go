// Package coupon holds the simulated promotion catalog and the rule that
// picks at most one promotion for an order subtotal.
package coupon

import (
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage takes Value percent off the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFlat takes Value currency units off the subtotal.
	DiscountFlat DiscountType = "flat"
)

// Codes of the simulated promotions.
const (
	CodeWelcome10 = "WELCOME10"
	CodeWelcome20 = "WELCOME20"
)

// SourceSystem names the origin of coupon and coupon usage rows.
const SourceSystem = "Simulated"

// Rule defines a promotion as it is landed in the raw zone.
type Rule struct {
	ID                 string
	Code               string
	Description        string
	DiscountType       DiscountType
	Value              decimal.Decimal
	MinOrderAmount     decimal.Decimal
	ValidFrom          string
	ValidTo            string
	MaxUsesPerCustomer int
	Active             bool
}

// Result holds order totals after resolving a coupon. All amounts are
// rounded to 2 decimal places.
type Result struct {
	Code     string
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Applied reports whether a coupon contributed to r.
func (r Result) Applied() bool {
	return r.Code != ""
}
