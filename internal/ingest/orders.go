package ingest

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/fakestore-raw-loader/internal/domain/coupon"
	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
	"github.com/xenking/fakestore-raw-loader/internal/source"
)

const (
	orderStatusPaid   = "paid"
	paymentMethodCard = "card"
)

// moneyPlaces is the scale of every stored amount.
const moneyPlaces = 2

// order is a cart valued against the price book with its coupon resolved.
type order struct {
	cart   source.Cart
	totals coupon.Result
	rule   *coupon.Rule
}

// priceCart values a cart and resolves at most one coupon for it. Products
// missing from the price book are valued at zero.
func priceCart(c source.Cart, prices source.PriceBook, rules []coupon.Rule) (order, error) {
	subtotal := decimal.Zero
	for _, it := range c.Items {
		subtotal = subtotal.Add(prices.Price(it.ProductID).Mul(decimal.NewFromInt(it.Quantity)))
	}

	totals, rule, err := coupon.Resolve(subtotal, rules)
	if err != nil {
		return order{}, err
	}
	return order{cart: c, totals: totals, rule: rule}, nil
}

// loadOrders lands every cart as an order with its items and, when a coupon
// applied, one coupon usage.
func (s *Service) loadOrders(ctx context.Context, res *Result, prices source.PriceBook, rules []coupon.Rule) error {
	lg := zctx.From(ctx)
	lg.Info("Loading orders")

	carts, err := s.source.Carts(ctx)
	if err != nil {
		return errors.Wrap(err, "load orders")
	}

	var discounted int
	for _, c := range carts {
		o, err := priceCart(c, prices, rules)
		if err != nil {
			return errors.Wrapf(err, "price order %s", c.ID)
		}

		l := s.lineage(res, source.SourceSystem, c.Raw)
		if err := s.writer.InsertOrder(ctx, orderRow(l, o)); err != nil {
			return errors.Wrapf(err, "load order %s", c.ID)
		}
		s.written(ctx, res, raw.TableOrders)

		for _, it := range c.Items {
			l.Payload = it.Raw
			if err := s.writer.InsertOrderItem(ctx, orderItemRow(l, c.ID, it, prices)); err != nil {
				return errors.Wrapf(err, "load order item %s-%s", c.ID, it.ProductID)
			}
			s.written(ctx, res, raw.TableOrderItems)
		}

		if o.rule == nil {
			continue
		}
		l.SourceSystem = coupon.SourceSystem
		if err := s.writer.InsertCouponUsage(ctx, couponUsageRow(l, o)); err != nil {
			return errors.Wrapf(err, "load coupon usage of order %s", c.ID)
		}
		s.written(ctx, res, raw.TableCouponUsages)
		discounted++
	}

	lg.Info("Orders loaded",
		zap.Int("orders", len(carts)),
		zap.Int("discounted", discounted),
	)
	return nil
}

func orderRow(l raw.Lineage, o order) *raw.Order {
	return &raw.Order{
		Lineage:             l,
		SourceOrderID:       o.cart.ID,
		SourceCustomerID:    o.cart.UserID,
		OrderStatus:         orderStatusPaid,
		OrderDate:           o.cart.Date,
		PaymentMethod:       paymentMethodCard,
		TotalBeforeDiscount: o.totals.Subtotal.Round(moneyPlaces),
		DiscountCodeApplied: raw.StrPtr(o.totals.Code),
		DiscountAmount:      o.totals.Discount.Round(moneyPlaces),
		TotalAfterDiscount:  o.totals.Total.Round(moneyPlaces),
		CurrencyCode:        currencyUSD,
	}
}

func orderItemRow(l raw.Lineage, orderID string, it source.CartItem, prices source.PriceBook) *raw.OrderItem {
	return &raw.OrderItem{
		Lineage:           l,
		SourceOrderItemID: orderID + "-" + it.ProductID,
		SourceOrderID:     orderID,
		SourceProductID:   it.ProductID,
		Quantity:          strconv.FormatInt(it.Quantity, 10),
		UnitPrice:         prices.Price(it.ProductID).Round(moneyPlaces),
		DiscountAmount:    decimal.Zero,
		CurrencyCode:      currencyUSD,
	}
}

// couponUsageRow links the applied coupon to the order and its customer.
// The order must carry a resolved rule.
func couponUsageRow(l raw.Lineage, o order) *raw.CouponUsage {
	l.Payload = encodeObject(
		field{"cart_id", o.cart.ID},
		field{"user_id", o.cart.UserID},
		field{"coupon_code", o.rule.Code},
	)
	return &raw.CouponUsage{
		Lineage:             l,
		SourceCouponUsageID: "usage-" + o.cart.ID + "-" + o.rule.ID,
		SourceCouponID:      o.rule.ID,
		SourceCustomerID:    o.cart.UserID,
		SourceOrderID:       o.cart.ID,
		UsedAt:              o.cart.Date,
	}
}
