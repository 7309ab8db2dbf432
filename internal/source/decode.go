package source

import (
	"bytes"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// splitArray returns the raw bytes of every element of a top-level JSON
// array. Each element must be an object and nothing may follow the array.
func splitArray(body []byte) ([]jx.Raw, error) {
	if !jx.Valid(body) {
		return nil, errors.New("invalid json")
	}

	d := jx.DecodeBytes(body)
	if tt := d.Next(); tt != jx.Array {
		return nil, errors.Errorf("expected array, got %s", tt)
	}

	var out []jx.Raw
	if err := d.Arr(func(d *jx.Decoder) error {
		if tt := d.Next(); tt != jx.Object {
			return errors.Errorf("element %d: expected object, got %s", len(out), tt)
		}
		r, err := d.Raw()
		if err != nil {
			return errors.Wrapf(err, "element %d", len(out))
		}
		out = append(out, jx.Raw(bytes.Clone(bytes.TrimSpace(r))))
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode array")
	}

	return out, nil
}

// scalar reads the current value as its source text: strings unquoted,
// numbers and booleans verbatim. It reports false for null.
func scalar(d *jx.Decoder) (string, bool, error) {
	switch tt := d.Next(); tt {
	case jx.String:
		s, err := d.Str()
		return s, err == nil, err
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", false, err
		}
		return string(n), true, nil
	case jx.Bool:
		b, err := d.Bool()
		return strconv.FormatBool(b), err == nil, err
	case jx.Null:
		return "", false, d.Null()
	default:
		return "", false, errors.Errorf("expected scalar, got %s", tt)
	}
}

// optional stores the scalar at d into dst, leaving dst nil for null.
func optional(d *jx.Decoder, dst **string) error {
	s, ok, err := scalar(d)
	if err != nil {
		return err
	}
	if ok {
		*dst = &s
	}
	return nil
}

// text stores the scalar at d into dst, leaving dst empty for null.
func text(d *jx.Decoder, dst *string) error {
	s, _, err := scalar(d)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

// object calls fn for each field of the object at d. A null value is
// treated as an empty object.
func object(d *jx.Decoder, fn func(d *jx.Decoder, key string) error) error {
	switch tt := d.Next(); tt {
	case jx.Null:
		return d.Null()
	case jx.Object:
		return d.Obj(fn)
	default:
		return errors.Errorf("expected object, got %s", tt)
	}
}
