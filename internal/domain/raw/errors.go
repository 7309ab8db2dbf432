package raw

import "fmt"

// Table names of the raw zone.
const (
	TableBatches      = "raw.ingestion_batches"
	TableCustomers    = "raw.customers_raw"
	TableAddresses    = "raw.addresses_raw"
	TableProducts     = "raw.products_raw"
	TableCategories   = "raw.categories_raw"
	TableCoupons      = "raw.coupons_raw"
	TableOrders       = "raw.orders_raw"
	TableOrderItems   = "raw.order_items_raw"
	TableCouponUsages = "raw.coupon_usage_raw"
)

// WriteError indicates a database failure while writing to a raw table.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// StrPtr returns nil for an empty string and a pointer to s otherwise.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
