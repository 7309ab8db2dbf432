package coupon

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// eligibility lists subtotal thresholds in precedence order. The first entry
// whose threshold is met and whose code is available wins.
//
// These thresholds are independent of Rule.MinOrderAmount, which is landed
// as-is and never consulted here.
var eligibility = []struct {
	code string
	min  decimal.Decimal
}{
	{code: CodeWelcome20, min: decimal.NewFromInt(400)},
	{code: CodeWelcome10, min: decimal.NewFromInt(200)},
}

// Choose picks the coupon to apply to an order subtotal. It returns false
// when rules is empty or the subtotal is below every threshold.
func Choose(subtotal decimal.Decimal, rules []Rule) (Rule, bool) {
	if len(rules) == 0 {
		return Rule{}, false
	}

	byCode := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if _, ok := byCode[r.Code]; !ok {
			byCode[r.Code] = r
		}
	}

	for _, e := range eligibility {
		if subtotal.LessThan(e.min) {
			continue
		}
		if r, ok := byCode[e.code]; ok {
			return r, true
		}
	}

	return Rule{}, false
}

// NoDiscount returns the totals of an order without a coupon.
func NoDiscount(subtotal decimal.Decimal) Result {
	s := subtotal.Round(2)
	return Result{
		Subtotal: s,
		Discount: decimal.Zero,
		Total:    s,
	}
}

// Apply computes the discount of rule on subtotal. The discount and both
// totals are rounded independently to 2 decimal places; the total after
// discount is derived from the unrounded amounts.
func Apply(rule Rule, subtotal decimal.Decimal) (Result, error) {
	var amount decimal.Decimal

	switch rule.DiscountType {
	case DiscountPercentage:
		amount = subtotal.Mul(rule.Value).Div(hundred)
	case DiscountFlat:
		amount = rule.Value
	default:
		return Result{}, errors.Errorf("unsupported discount type: %q", rule.DiscountType)
	}

	return Result{
		Code:     rule.Code,
		Subtotal: subtotal.Round(2),
		Discount: amount.Round(2),
		Total:    subtotal.Sub(amount).Round(2),
	}, nil
}

// Resolve chooses a coupon for subtotal and applies it.
func Resolve(subtotal decimal.Decimal, rules []Rule) (Result, *Rule, error) {
	rule, ok := Choose(subtotal, rules)
	if !ok {
		return NoDiscount(subtotal), nil, nil
	}

	res, err := Apply(rule, subtotal)
	if err != nil {
		return Result{}, nil, errors.Wrapf(err, "apply coupon %s", rule.Code)
	}
	return res, &rule, nil
}
