package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is a flat attribute map persisted as JSON. Attribute values are
// scalars only: string, bool, or integer-valued numbers. The schema-typed
// entity structs live with their repositories; Record is the wire shape at
// the adapter boundary.
type Record map[string]any

// String returns the string attribute k, or "" when absent or mistyped.
func (r Record) String(k string) string {
	if v, ok := r[k].(string); ok {
		return v
	}
	return ""
}

// Bool returns the boolean attribute k, defaulting to false.
func (r Record) Bool(k string) bool {
	if v, ok := r[k].(bool); ok {
		return v
	}
	return false
}

// Int returns the numeric attribute k, defaulting to 0. Decoded numbers
// arrive as json.Number; values written in-process may be any integer kind.
func (r Record) Int(k string) int64 {
	switch v := r[k].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Has reports whether attribute k is present.
func (r Record) Has(k string) bool {
	_, ok := r[k]
	return ok
}

// clone returns a shallow copy.
func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// project returns a copy restricted to attrs, always retaining keep.
func (r Record) project(attrs []string, keep ...string) Record {
	if len(attrs) == 0 {
		return r.clone()
	}
	out := make(Record, len(attrs)+len(keep))
	for _, a := range attrs {
		if v, ok := r[a]; ok {
			out[a] = v
		}
	}
	for _, a := range keep {
		if v, ok := r[a]; ok {
			out[a] = v
		}
	}
	return out
}

// encodeRecord serializes a record, rejecting non-scalar attribute values.
func encodeRecord(r Record) ([]byte, error) {
	for k, v := range r {
		switch v.(type) {
		case string, bool, int, int64, float64, json.Number:
		default:
			return nil, fmt.Errorf("attribute %q has unsupported type %T", k, v)
		}
	}
	return json.Marshal(r)
}

// decodeRecord parses a stored value, keeping numbers exact. Nested
// objects or arrays mean the row was not written by this adapter; reject
// them instead of guessing.
func decodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("invalid record value: %w", err)
	}
	for k, v := range r {
		switch v.(type) {
		case string, bool, json.Number:
		default:
			return nil, fmt.Errorf("attribute %q has non-scalar value", k)
		}
	}
	return r, nil
}

// attrEqual compares two scalar attribute values loosely across numeric
// representations.
func attrEqual(a, b any) bool {
	an, aIsNum := toInt(a)
	bn, bIsNum := toInt(b)
	if aIsNum && bIsNum {
		return an == bn
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return as == bs
	}
	ab, aIsBool := a.(bool)
	bb, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		return ab == bb
	}
	return false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return int64(f), true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
