package source

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Product is a record of the products endpoint.
type Product struct {
	ID          string
	Title       *string
	Description *string
	Category    *string
	// Price is parsed from the JSON number text; zero when absent.
	Price decimal.Decimal
	Raw   jx.Raw
}

func decodeProduct(r jx.Raw) (Product, error) {
	p := Product{Raw: r}
	err := jx.DecodeBytes(r).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			return text(d, &p.ID)
		case "title":
			return optional(d, &p.Title)
		case "description":
			return optional(d, &p.Description)
		case "category":
			return optional(d, &p.Category)
		case "price":
			s, ok, err := scalar(d)
			if err != nil || !ok {
				return err
			}
			price, err := decimal.NewFromString(s)
			if err != nil {
				return errors.Wrapf(err, "parse price %q", s)
			}
			p.Price = price
			return nil
		default:
			return d.Skip()
		}
	})
	return p, err
}

// PriceBook maps product ids to their prices as captured during the product
// load of a run.
type PriceBook map[string]decimal.Decimal

// NewPriceBook indexes products by id. A later duplicate id overrides an
// earlier one.
func NewPriceBook(products []Product) PriceBook {
	b := make(PriceBook, len(products))
	for _, p := range products {
		b[p.ID] = p.Price
	}
	return b
}

// Price returns the price of product id, or zero when the id is unknown.
func (b PriceBook) Price(id string) decimal.Decimal {
	if p, ok := b[id]; ok {
		return p
	}
	return decimal.Zero
}
