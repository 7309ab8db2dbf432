package ingest

import "github.com/go-faster/jx"

// field is a string-valued member of a synthesized payload.
type field struct {
	key   string
	value string
}

// encodeObject renders fields as a JSON object in the given order.
func encodeObject(fields ...field) []byte {
	var e jx.Encoder
	e.ObjStart()
	for _, f := range fields {
		e.FieldStart(f.key)
		e.Str(f.value)
	}
	e.ObjEnd()
	return e.Bytes()
}
