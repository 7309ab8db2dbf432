package source

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Cart is a record of the carts endpoint. Carts are landed as orders.
type Cart struct {
	ID     string
	UserID string
	Date   *string
	Items  []CartItem
	Raw    jx.Raw
}

// CartItem is one product line of a cart.
type CartItem struct {
	ProductID string
	Quantity  int64
	Raw       jx.Raw
}

func decodeCart(r jx.Raw) (Cart, error) {
	c := Cart{Raw: r}
	err := jx.DecodeBytes(r).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			return text(d, &c.ID)
		case "userId":
			return text(d, &c.UserID)
		case "date":
			return optional(d, &c.Date)
		case "products":
			items, err := decodeCartItems(d)
			if err != nil {
				return errors.Wrap(err, "products")
			}
			c.Items = items
			return nil
		default:
			return d.Skip()
		}
	})
	return c, err
}

func decodeCartItems(d *jx.Decoder) ([]CartItem, error) {
	switch tt := d.Next(); tt {
	case jx.Null:
		return nil, d.Null()
	case jx.Array:
	default:
		return nil, errors.Errorf("expected array, got %s", tt)
	}

	var items []CartItem
	err := d.Arr(func(d *jx.Decoder) error {
		r, err := d.Raw()
		if err != nil {
			return err
		}

		item := CartItem{Raw: jx.Raw(bytes.Clone(bytes.TrimSpace(r)))}
		if err := object(jx.DecodeBytes(r), func(d *jx.Decoder, key string) error {
			switch key {
			case "productId":
				return text(d, &item.ProductID)
			case "quantity":
				s, ok, err := scalar(d)
				if err != nil || !ok {
					return err
				}
				q, err := decimal.NewFromString(s)
				if err != nil {
					return errors.Wrapf(err, "parse quantity %q", s)
				}
				item.Quantity = q.IntPart()
				return nil
			default:
				return d.Skip()
			}
		}); err != nil {
			return errors.Wrapf(err, "item %d", len(items))
		}

		items = append(items, item)
		return nil
	})
	return items, err
}
