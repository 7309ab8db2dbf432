package postgres

import (
	"context"

	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
)

const (
	insertCustomerSQL = `INSERT INTO raw.customers_raw (
		batch_id, source_system, source_customer_id, email, phone_number, full_name,
		date_of_birth, signup_date, marketing_opt_in, raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	insertAddressSQL = `INSERT INTO raw.addresses_raw (
		batch_id, source_system, source_address_id, source_customer_id, address_type, street,
		city, state_region, zipcode, country, latitude, longitude, raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertProductSQL = `INSERT INTO raw.products_raw (
		batch_id, source_system, source_product_id, sku, product_name, product_description,
		category_code, brand_name, base_price, currency_code, is_active, raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	insertCategorySQL = `INSERT INTO raw.categories_raw (
		batch_id, source_system, source_category_id, category_name, parent_category_id,
		raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertCouponSQL = `INSERT INTO raw.coupons_raw (
		batch_id, source_system, source_coupon_id, coupon_code, description, discount_type,
		discount_value, min_order_amount, valid_from, valid_to, max_uses_per_customer,
		is_active, raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertOrderSQL = `INSERT INTO raw.orders_raw (
		batch_id, source_system, source_order_id, source_customer_id, order_status, order_date,
		payment_method, total_before_discount, discount_code_applied, discount_amount,
		total_after_discount, currency_code, raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertOrderItemSQL = `INSERT INTO raw.order_items_raw (
		batch_id, source_system, source_order_item_id, source_order_id, source_product_id,
		quantity, unit_price, discount_amount, currency_code, raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	insertCouponUsageSQL = `INSERT INTO raw.coupon_usage_raw (
		batch_id, source_system, source_coupon_usage_id, source_coupon_id, source_customer_id,
		source_order_id, used_at, raw_payload, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

var _ raw.Writer = (*RawWriter)(nil)

// RawWriter implements raw.Writer with one INSERT per row. Rows are never
// updated or deleted.
type RawWriter struct {
	db DB
}

// NewRawWriter returns a RawWriter that uses the given connection.
func NewRawWriter(conn DB) *RawWriter {
	return &RawWriter{db: conn}
}

func (w *RawWriter) exec(ctx context.Context, table, sql string, args ...any) error {
	if _, err := w.db.Exec(ctx, sql, args...); err != nil {
		return writeError(table, err)
	}
	return nil
}

// payload renders the lineage payload for a JSONB column.
func payload(l raw.Lineage) string {
	if len(l.Payload) == 0 {
		return "{}"
	}
	return string(l.Payload)
}

// InsertCustomer appends a customer row.
func (w *RawWriter) InsertCustomer(ctx context.Context, c *raw.Customer) error {
	return w.exec(ctx, raw.TableCustomers, insertCustomerSQL,
		c.BatchID, c.SourceSystem, c.SourceCustomerID, c.Email, c.PhoneNumber, c.FullName,
		c.DateOfBirth, c.SignupDate, c.MarketingOptIn, payload(c.Lineage), c.LoadedAt,
	)
}

// InsertAddress appends an address row.
func (w *RawWriter) InsertAddress(ctx context.Context, a *raw.Address) error {
	return w.exec(ctx, raw.TableAddresses, insertAddressSQL,
		a.BatchID, a.SourceSystem, a.SourceAddressID, a.SourceCustomerID, a.AddressType, a.Street,
		a.City, a.StateRegion, a.Zipcode, a.Country, a.Latitude, a.Longitude,
		payload(a.Lineage), a.LoadedAt,
	)
}

// InsertProduct appends a product row.
func (w *RawWriter) InsertProduct(ctx context.Context, p *raw.Product) error {
	return w.exec(ctx, raw.TableProducts, insertProductSQL,
		p.BatchID, p.SourceSystem, p.SourceProductID, p.SKU, p.ProductName, p.ProductDescription,
		p.CategoryCode, p.BrandName, p.BasePrice, p.CurrencyCode, p.IsActive,
		payload(p.Lineage), p.LoadedAt,
	)
}

// InsertCategory appends a category row.
func (w *RawWriter) InsertCategory(ctx context.Context, c *raw.Category) error {
	return w.exec(ctx, raw.TableCategories, insertCategorySQL,
		c.BatchID, c.SourceSystem, c.SourceCategoryID, c.CategoryName, c.ParentCategoryID,
		payload(c.Lineage), c.LoadedAt,
	)
}

// InsertCoupon appends a coupon row.
func (w *RawWriter) InsertCoupon(ctx context.Context, c *raw.Coupon) error {
	return w.exec(ctx, raw.TableCoupons, insertCouponSQL,
		c.BatchID, c.SourceSystem, c.SourceCouponID, c.CouponCode, c.Description, c.DiscountType,
		c.DiscountValue, c.MinOrderAmount, c.ValidFrom, c.ValidTo, c.MaxUsesPerCustomer,
		c.IsActive, payload(c.Lineage), c.LoadedAt,
	)
}

// InsertOrder appends an order row.
func (w *RawWriter) InsertOrder(ctx context.Context, o *raw.Order) error {
	return w.exec(ctx, raw.TableOrders, insertOrderSQL,
		o.BatchID, o.SourceSystem, o.SourceOrderID, o.SourceCustomerID, o.OrderStatus, o.OrderDate,
		o.PaymentMethod, o.TotalBeforeDiscount, o.DiscountCodeApplied, o.DiscountAmount,
		o.TotalAfterDiscount, o.CurrencyCode, payload(o.Lineage), o.LoadedAt,
	)
}

// InsertOrderItem appends an order item row.
func (w *RawWriter) InsertOrderItem(ctx context.Context, i *raw.OrderItem) error {
	return w.exec(ctx, raw.TableOrderItems, insertOrderItemSQL,
		i.BatchID, i.SourceSystem, i.SourceOrderItemID, i.SourceOrderID, i.SourceProductID,
		i.Quantity, i.UnitPrice, i.DiscountAmount, i.CurrencyCode, payload(i.Lineage), i.LoadedAt,
	)
}

// InsertCouponUsage appends a coupon usage row.
func (w *RawWriter) InsertCouponUsage(ctx context.Context, u *raw.CouponUsage) error {
	return w.exec(ctx, raw.TableCouponUsages, insertCouponUsageSQL,
		u.BatchID, u.SourceSystem, u.SourceCouponUsageID, u.SourceCouponID, u.SourceCustomerID,
		u.SourceOrderID, u.UsedAt, payload(u.Lineage), u.LoadedAt,
	)
}
