package ingest

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
	"github.com/xenking/fakestore-raw-loader/internal/source"
)

const (
	marketingOptInUnknown = "unknown"
	addressTypeShipping   = "shipping"
)

func (s *Service) loadCustomers(ctx context.Context, res *Result) error {
	lg := zctx.From(ctx)
	lg.Info("Loading customers")

	users, err := s.source.Users(ctx)
	if err != nil {
		return errors.Wrap(err, "load customers")
	}

	for _, u := range users {
		c, a := customerRows(s.lineage(res, source.SourceSystem, nil), u)

		if err := s.writer.InsertCustomer(ctx, c); err != nil {
			return errors.Wrapf(err, "load customer %s", u.ID)
		}
		s.written(ctx, res, raw.TableCustomers)

		if err := s.writer.InsertAddress(ctx, a); err != nil {
			return errors.Wrapf(err, "load address of customer %s", u.ID)
		}
		s.written(ctx, res, raw.TableAddresses)
	}

	lg.Info("Customers loaded", zap.Int("customers", len(users)))
	return nil
}

// customerRows maps a user to its customer row and its single shipping
// address row. A user without an address still gets an address row.
func customerRows(l raw.Lineage, u source.User) (*raw.Customer, *raw.Address) {
	cl := l
	cl.Payload = u.Raw
	c := &raw.Customer{
		Lineage:          cl,
		SourceCustomerID: u.ID,
		Email:            u.Email,
		PhoneNumber:      u.Phone,
		FullName:         u.FullName(),
		MarketingOptIn:   marketingOptInUnknown,
	}

	a := &raw.Address{
		Lineage:          l,
		SourceCustomerID: u.ID,
		AddressType:      addressTypeShipping,
	}
	a.Payload = []byte("{}")
	if addr := u.Address; addr != nil {
		a.Payload = addr.Raw
		a.Street = addr.Line()
		a.City = addr.City
		a.Zipcode = addr.Zipcode
		a.Latitude = addr.Latitude
		a.Longitude = addr.Longitude
	}

	return c, a
}
