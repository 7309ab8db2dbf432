package ingest

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/fakestore-raw-loader/internal/domain/coupon"
	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
)

// loadCoupons lands the simulated promotions and returns them for discount
// resolution in the same run.
func (s *Service) loadCoupons(ctx context.Context, res *Result) ([]coupon.Rule, error) {
	lg := zctx.From(ctx)
	lg.Info("Loading simulated coupons")

	rules := s.coupons()
	for _, r := range rules {
		if err := s.writer.InsertCoupon(ctx, couponRow(s.lineage(res, coupon.SourceSystem, nil), r)); err != nil {
			return nil, errors.Wrapf(err, "load coupon %s", r.Code)
		}
		s.written(ctx, res, raw.TableCoupons)
	}

	lg.Info("Coupons loaded", zap.Int("coupons", len(rules)))
	return rules, nil
}

func couponRow(l raw.Lineage, r coupon.Rule) *raw.Coupon {
	c := &raw.Coupon{
		SourceCouponID:     r.ID,
		CouponCode:         r.Code,
		Description:        r.Description,
		DiscountType:       string(r.DiscountType),
		DiscountValue:      r.Value.String(),
		MinOrderAmount:     r.MinOrderAmount.String(),
		ValidFrom:          r.ValidFrom,
		ValidTo:            r.ValidTo,
		MaxUsesPerCustomer: strconv.Itoa(r.MaxUsesPerCustomer),
		IsActive:           strconv.FormatBool(r.Active),
	}

	l.Payload = encodeObject(
		field{"source_coupon_id", c.SourceCouponID},
		field{"coupon_code", c.CouponCode},
		field{"description", c.Description},
		field{"discount_type", c.DiscountType},
		field{"discount_value", c.DiscountValue},
		field{"min_order_amount", c.MinOrderAmount},
		field{"valid_from", c.ValidFrom},
		field{"valid_to", c.ValidTo},
		field{"max_uses_per_customer", c.MaxUsesPerCustomer},
		field{"is_active", c.IsActive},
	)
	c.Lineage = l
	return c
}
