// Package raw defines the rows landed in the raw zone. Values stay as source
// text, except computed money amounts which are exact decimals. Typing and
// validation belong to the downstream transform stage.
package raw

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Lineage is carried by every raw row.
type Lineage struct {
	BatchID      string
	SourceSystem string
	// Payload is the JSON document the row was mapped from.
	Payload  []byte
	LoadedAt time.Time
}

// Customer is a row of raw.customers_raw.
type Customer struct {
	Lineage
	SourceCustomerID string
	Email            *string
	PhoneNumber      *string
	FullName         string
	DateOfBirth      *string
	SignupDate       *string
	MarketingOptIn   string
}

// Address is a row of raw.addresses_raw.
type Address struct {
	Lineage
	SourceAddressID  *string
	SourceCustomerID string
	AddressType      string
	Street           string
	City             *string
	StateRegion      *string
	Zipcode          *string
	Country          *string
	Latitude         *string
	Longitude        *string
}

// Product is a row of raw.products_raw.
type Product struct {
	Lineage
	SourceProductID    string
	SKU                string
	ProductName        *string
	ProductDescription *string
	CategoryCode       *string
	BrandName          *string
	BasePrice          string
	CurrencyCode       string
	IsActive           string
}

// Category is a row of raw.categories_raw.
type Category struct {
	Lineage
	SourceCategoryID string
	CategoryName     string
	ParentCategoryID *string
}

// Coupon is a row of raw.coupons_raw.
type Coupon struct {
	Lineage
	SourceCouponID     string
	CouponCode         string
	Description        string
	DiscountType       string
	DiscountValue      string
	MinOrderAmount     string
	ValidFrom          string
	ValidTo            string
	MaxUsesPerCustomer string
	IsActive           string
}

// Order is a row of raw.orders_raw.
type Order struct {
	Lineage
	SourceOrderID       string
	SourceCustomerID    string
	OrderStatus         string
	OrderDate           *string
	PaymentMethod       string
	TotalBeforeDiscount decimal.Decimal
	DiscountCodeApplied *string
	DiscountAmount      decimal.Decimal
	TotalAfterDiscount  decimal.Decimal
	CurrencyCode        string
}

// OrderItem is a row of raw.order_items_raw.
type OrderItem struct {
	Lineage
	SourceOrderItemID string
	SourceOrderID     string
	SourceProductID   string
	Quantity          string
	UnitPrice         decimal.Decimal
	DiscountAmount    decimal.Decimal
	CurrencyCode      string
}

// CouponUsage is a row of raw.coupon_usage_raw.
type CouponUsage struct {
	Lineage
	SourceCouponUsageID string
	SourceCouponID      string
	SourceCustomerID    string
	SourceOrderID       string
	UsedAt              *string
}

// Writer appends rows to the raw zone. Each call is committed on its own.
type Writer interface {
	InsertCustomer(ctx context.Context, c *Customer) error
	InsertAddress(ctx context.Context, a *Address) error
	InsertProduct(ctx context.Context, p *Product) error
	InsertCategory(ctx context.Context, c *Category) error
	InsertCoupon(ctx context.Context, c *Coupon) error
	InsertOrder(ctx context.Context, o *Order) error
	InsertOrderItem(ctx context.Context, i *OrderItem) error
	InsertCouponUsage(ctx context.Context, u *CouponUsage) error
}
