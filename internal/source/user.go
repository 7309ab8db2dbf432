package source

import (
	"bytes"
	"strings"

	"github.com/go-faster/jx"
)

// User is a customer record of the users endpoint.
type User struct {
	ID        string
	Email     *string
	Phone     *string
	FirstName string
	LastName  string
	// Address is nil when the record has no address object.
	Address *Address
	Raw     jx.Raw
}

// FullName joins the trimmed first and last names.
func (u User) FullName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	return strings.TrimSpace(first + " " + last)
}

// Address is the nested address object of a user.
type Address struct {
	Number    string
	Street    string
	City      *string
	Zipcode   *string
	Latitude  *string
	Longitude *string
	Raw       jx.Raw
}

// Line composes the street line from house number and street name.
func (a Address) Line() string {
	return strings.TrimSpace(a.Number + " " + a.Street)
}

func decodeUser(r jx.Raw) (User, error) {
	u := User{Raw: r}
	err := jx.DecodeBytes(r).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			return text(d, &u.ID)
		case "email":
			return optional(d, &u.Email)
		case "phone":
			return optional(d, &u.Phone)
		case "name":
			return object(d, func(d *jx.Decoder, key string) error {
				switch key {
				case "firstname":
					return text(d, &u.FirstName)
				case "lastname":
					return text(d, &u.LastName)
				default:
					return d.Skip()
				}
			})
		case "address":
			a, err := decodeAddress(d)
			if err != nil {
				return err
			}
			u.Address = a
			return nil
		default:
			return d.Skip()
		}
	})
	return u, err
}

func decodeAddress(d *jx.Decoder) (*Address, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}

	r, err := d.Raw()
	if err != nil {
		return nil, err
	}

	a := &Address{Raw: jx.Raw(bytes.Clone(bytes.TrimSpace(r)))}
	err = object(jx.DecodeBytes(r), func(d *jx.Decoder, key string) error {
		switch key {
		case "number":
			return text(d, &a.Number)
		case "street":
			return text(d, &a.Street)
		case "city":
			return optional(d, &a.City)
		case "zipcode":
			return optional(d, &a.Zipcode)
		case "geolocation":
			return object(d, func(d *jx.Decoder, key string) error {
				switch key {
				case "lat":
					return optional(d, &a.Latitude)
				case "long":
					return optional(d, &a.Longitude)
				default:
					return d.Skip()
				}
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
