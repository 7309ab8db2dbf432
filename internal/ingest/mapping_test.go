package ingest

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/fakestore-raw-loader/internal/domain/coupon"
	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
	"github.com/xenking/fakestore-raw-loader/internal/source"
)

func TestCustomerRows(t *testing.T) {
	l := raw.Lineage{BatchID: "b1", SourceSystem: source.SourceSystem, LoadedAt: t0}

	t.Run("with address", func(t *testing.T) {
		c, a := customerRows(l, testUsers()[0])

		assert.Equal(t, "1", c.SourceCustomerID)
		assert.Equal(t, "john doe", c.FullName)
		assert.Equal(t, strp("john@gmail.com"), c.Email)
		assert.Equal(t, strp("1-570-236-7033"), c.PhoneNumber)
		assert.Nil(t, c.DateOfBirth)
		assert.Nil(t, c.SignupDate)
		assert.Equal(t, "unknown", c.MarketingOptIn)

		assert.Equal(t, "1", a.SourceCustomerID)
		assert.Nil(t, a.SourceAddressID)
		assert.Equal(t, "shipping", a.AddressType)
		assert.Equal(t, "7682 new road", a.Street)
		assert.Equal(t, strp("kilcoole"), a.City)
		assert.Equal(t, strp("12926-3874"), a.Zipcode)
		assert.Equal(t, strp("-37.3159"), a.Latitude)
		assert.Equal(t, strp("81.1496"), a.Longitude)
		assert.Nil(t, a.StateRegion)
		assert.Nil(t, a.Country)
		assert.JSONEq(t, `{"city":"kilcoole","street":"new road","number":7682}`, string(a.Payload))
		assert.Equal(t, "b1", a.BatchID)
	})

	t.Run("without address", func(t *testing.T) {
		c, a := customerRows(l, testUsers()[1])

		assert.Equal(t, "david", c.FullName)
		assert.Nil(t, c.Email)
		assert.Equal(t, "2", a.SourceCustomerID)
		assert.Empty(t, a.Street)
		assert.Nil(t, a.City)
		assert.JSONEq(t, `{}`, string(a.Payload))
	})
}

func TestProductRow(t *testing.T) {
	p := source.Product{
		ID:    "7",
		Title: strp("White Gold Plated Princess"),
		Price: decimal.RequireFromString("9.99"),
		Raw:   jx.Raw(`{"id":7}`),
	}
	r := productRow(raw.Lineage{Payload: p.Raw}, p)

	assert.Equal(t, "7", r.SourceProductID)
	assert.Equal(t, "SKU-7", r.SKU)
	assert.Equal(t, p.Title, r.ProductName)
	assert.Nil(t, r.ProductDescription)
	assert.Nil(t, r.CategoryCode)
	assert.Nil(t, r.BrandName)
	assert.Equal(t, "9.99", r.BasePrice)
	assert.Equal(t, "USD", r.CurrencyCode)
	assert.Equal(t, "true", r.IsActive)
}

func TestCouponRow(t *testing.T) {
	r := couponRow(raw.Lineage{BatchID: "b1", SourceSystem: coupon.SourceSystem}, coupon.Catalog()[0])

	assert.Equal(t, "c1", r.SourceCouponID)
	assert.Equal(t, "WELCOME10", r.CouponCode)
	assert.Equal(t, "percentage", r.DiscountType)
	assert.Equal(t, "10", r.DiscountValue)
	assert.Equal(t, "50", r.MinOrderAmount)
	assert.Equal(t, "1", r.MaxUsesPerCustomer)
	assert.Equal(t, "true", r.IsActive)
	assert.JSONEq(t, `{
		"source_coupon_id": "c1",
		"coupon_code": "WELCOME10",
		"description": "10% off on first order over 50 USD",
		"discount_type": "percentage",
		"discount_value": "10",
		"min_order_amount": "50",
		"valid_from": "2025-01-01",
		"valid_to": "2025-12-31",
		"max_uses_per_customer": "1",
		"is_active": "true"
	}`, string(r.Payload))
}

func TestPriceCart(t *testing.T) {
	_, prices := testProducts()
	rules := coupon.Catalog()

	tests := []struct {
		name     string
		items    []source.CartItem
		code     string
		subtotal string
		discount string
		total    string
	}{
		{name: "empty cart", subtotal: "0.00", discount: "0.00", total: "0.00"},
		{name: "exactly 500", items: []source.CartItem{item("1", 2)}, code: "WELCOME20", subtotal: "500.00", discount: "100.00", total: "400.00"},
		{name: "exactly 200", items: []source.CartItem{item("2", 4)}, code: "WELCOME10", subtotal: "200.00", discount: "20.00", total: "180.00"},
		{name: "below thresholds", items: []source.CartItem{item("4", 1)}, subtotal: "9.99", discount: "0.00", total: "9.99"},
		{name: "unknown product", items: []source.CartItem{item("404", 100)}, subtotal: "0.00", discount: "0.00", total: "0.00"},
		{name: "decimal prices", items: []source.CartItem{item("3", 10)}, subtotal: "223.00", code: "WELCOME10", discount: "22.30", total: "200.70"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := priceCart(source.Cart{ID: "1", Items: tt.items}, prices, rules)
			require.NoError(t, err)

			assert.Equal(t, tt.code, o.totals.Code)
			assert.Equal(t, tt.code != "", o.rule != nil)
			assert.Equal(t, tt.subtotal, o.totals.Subtotal.StringFixed(2))
			assert.Equal(t, tt.discount, o.totals.Discount.StringFixed(2))
			assert.Equal(t, tt.total, o.totals.Total.StringFixed(2))
		})
	}
}

func TestEncodeObject(t *testing.T) {
	got := encodeObject(field{"a", `quote " and \ slash`}, field{"b", ""})
	assert.JSONEq(t, `{"a":"quote \" and \\ slash","b":""}`, string(got))
	assert.Equal(t, `{}`, string(encodeObject()))
}
