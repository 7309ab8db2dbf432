package ingest

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/mock"

	"github.com/xenking/fakestore-raw-loader/internal/domain/batch"
	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
	"github.com/xenking/fakestore-raw-loader/internal/source"
)

// --- Mock implementations ---

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Users(ctx context.Context) ([]source.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]source.User)
	return users, args.Error(1)
}

func (m *mockSource) Products(ctx context.Context) ([]source.Product, source.PriceBook, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]source.Product)
	prices, _ := args.Get(1).(source.PriceBook)
	return products, prices, args.Error(2)
}

func (m *mockSource) Carts(ctx context.Context) ([]source.Cart, error) {
	args := m.Called(ctx)
	carts, _ := args.Get(0).([]source.Cart)
	return carts, args.Error(1)
}

// memLedger keeps batches in memory and mimics the primary key on batch id.
type memLedger struct {
	mu      sync.Mutex
	batches map[string]*batch.Batch
	order   []string
	opens   int
	closes  int

	openErr  error
	closeErr func(status batch.Status) error
}

func newMemLedger() *memLedger {
	return &memLedger{batches: make(map[string]*batch.Batch)}
}

func (l *memLedger) Open(_ context.Context, b batch.Batch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.opens++
	if l.openErr != nil {
		return l.openErr
	}
	if _, ok := l.batches[b.ID]; ok {
		return &raw.WriteError{Table: raw.TableBatches, Err: batch.ErrExists}
	}
	b.Status = batch.StatusRunning
	l.batches[b.ID] = &b
	l.order = append(l.order, b.ID)
	return nil
}

func (l *memLedger) Close(_ context.Context, id string, status batch.Status, errMsg *string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closes++
	if l.closeErr != nil {
		if err := l.closeErr(status); err != nil {
			return err
		}
	}
	b, ok := l.batches[id]
	if !ok {
		return &raw.WriteError{Table: raw.TableBatches, Err: batch.ErrNotFound}
	}
	b.Status = status
	b.ErrorMessage = errMsg
	return nil
}

func (l *memLedger) get(id string) *batch.Batch {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.batches[id]
}

// memWriter appends rows in memory. failOn makes inserts into a table fail.
type memWriter struct {
	mu     sync.Mutex
	failOn map[string]error

	customers    []*raw.Customer
	addresses    []*raw.Address
	products     []*raw.Product
	categories   []*raw.Category
	coupons      []*raw.Coupon
	orders       []*raw.Order
	orderItems   []*raw.OrderItem
	couponUsages []*raw.CouponUsage
}

func (w *memWriter) fail(table string) error {
	if err, ok := w.failOn[table]; ok {
		return &raw.WriteError{Table: table, Err: err}
	}
	return nil
}

func (w *memWriter) InsertCustomer(_ context.Context, c *raw.Customer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableCustomers); err != nil {
		return err
	}
	w.customers = append(w.customers, c)
	return nil
}

func (w *memWriter) InsertAddress(_ context.Context, a *raw.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableAddresses); err != nil {
		return err
	}
	w.addresses = append(w.addresses, a)
	return nil
}

func (w *memWriter) InsertProduct(_ context.Context, p *raw.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableProducts); err != nil {
		return err
	}
	w.products = append(w.products, p)
	return nil
}

func (w *memWriter) InsertCategory(_ context.Context, c *raw.Category) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableCategories); err != nil {
		return err
	}
	w.categories = append(w.categories, c)
	return nil
}

func (w *memWriter) InsertCoupon(_ context.Context, c *raw.Coupon) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableCoupons); err != nil {
		return err
	}
	w.coupons = append(w.coupons, c)
	return nil
}

func (w *memWriter) InsertOrder(_ context.Context, o *raw.Order) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableOrders); err != nil {
		return err
	}
	w.orders = append(w.orders, o)
	return nil
}

func (w *memWriter) InsertOrderItem(_ context.Context, i *raw.OrderItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableOrderItems); err != nil {
		return err
	}
	w.orderItems = append(w.orderItems, i)
	return nil
}

func (w *memWriter) InsertCouponUsage(_ context.Context, u *raw.CouponUsage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fail(raw.TableCouponUsages); err != nil {
		return err
	}
	w.couponUsages = append(w.couponUsages, u)
	return nil
}

var errConnLost = errors.New("connection lost")
