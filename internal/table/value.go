package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the semantic type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindTime
)

// Value is a single typed cell. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	ts   time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number wraps a float64 cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a text cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Time wraps a temporal cell.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// Infer parses a raw cell into a typed Value: empty → null, parseable
// float → number, anything else → text.
func Infer(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return String(raw)
}

// Kind reports the value's semantic type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric value. For text cells it attempts a parse,
// so callers can coerce object-typed columns (ok=false when not numeric).
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Str returns the text value (ok=false for non-text cells).
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Time returns the temporal value (ok=false for non-temporal cells).
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.ts, true
}

// Display renders the value for reports and group labels.
func (v Value) Display() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindTime:
		return v.ts.Format(time.RFC3339)
	default:
		return ""
	}
}

// Key renders a canonical, kind-prefixed representation used for join and
// group-by keys so that Number(1) and String("1") never collide.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return "s:" + v.str
	case KindTime:
		return "t:" + v.ts.UTC().Format(time.RFC3339Nano)
	default:
		return "<null>"
	}
}

// MarshalJSON encodes null/number/text naturally and temporal cells as
// RFC3339 strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindTime:
		return json.Marshal(v.ts.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a persisted cell. Temporal cells come back as
// text; the transform stage re-detects and re-parses them.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(x)
	case bool:
		*v = String(strconv.FormatBool(x))
	case string:
		*v = String(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return err
		}
		*v = String(string(b))
	}
	return nil
}
