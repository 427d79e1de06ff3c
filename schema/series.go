package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	nullValue valueKind = iota
	numberValue
	textValue
)

// Value is a measurement reading as sent by a device. Devices emit numbers,
// but numeric strings and nulls occur in the wild and must survive a round
// trip untouched.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: numberValue, num: f} }

// Text returns a textual Value.
func Text(s string) Value { return Value{kind: textValue, text: s} }

// Null returns the missing Value.
func Null() Value { return Value{} }

// IsNull reports whether the reading is missing.
func (v Value) IsNull() bool { return v.kind == nullValue }

// Float coerces the reading to a number. Text is parsed leniently; NaN and
// unparsable text count as missing.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case numberValue:
		if math.IsNaN(v.num) {
			return 0, false
		}
		return v.num, true
	case textValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Interface returns float64, string or nil.
func (v Value) Interface() any {
	switch v.kind {
	case numberValue:
		return v.num
	case textValue:
		return v.text
	default:
		return nil
	}
}

// String renders the reading for text output.
func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case textValue:
		return v.text
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case numberValue:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case textValue:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Null()
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*v = Text(string(data))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid measurement value %s: %w", data, err)
		}
		*v = Number(f)
	}
	return nil
}

// Point is a single spectral sample.
type Point struct {
	Wave        float64 `json:"wave"`
	Measurement Value   `json:"measurement"`
}

// Measurements returns the readings of a series in order.
func Measurements(series []Point) []Value {
	out := make([]Value, len(series))
	for i, p := range series {
		out[i] = p.Measurement
	}
	return out
}

// Waves returns the wave axis of a series in order.
func Waves(series []Point) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Wave
	}
	return out
}

// Flatten concatenates replicate series in replicate order.
func Flatten(replicates [][]Point) []Point {
	var n int
	for _, r := range replicates {
		n += len(r)
	}
	out := make([]Point, 0, n)
	for _, r := range replicates {
		out = append(out, r...)
	}
	return out
}

// Payload is the semi-structured content of one channel: a map from series
// kind to either a series or a replicate set. Unknown keys are preserved.
type Payload map[string]json.RawMessage

// Empty reports whether the channel carries no data.
func (p Payload) Empty() bool { return len(p) == 0 }

// Has reports whether a series kind is present and not null.
func (p Payload) Has(kind string) bool {
	raw, ok := p[kind]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Series decodes a single series. Absent kinds return nil without error.
func (p Payload) Series(kind string) ([]Point, error) {
	if !p.Has(kind) {
		return nil, nil
	}
	var out []Point
	if err := json.Unmarshal(p[kind], &out); err != nil {
		return nil, fmt.Errorf("%w: series %q: %v", ErrValidation, kind, err)
	}
	return out, nil
}

// Replicates decodes a replicate set. Absent kinds return nil without error.
func (p Payload) Replicates(kind string) ([][]Point, error) {
	if !p.Has(kind) {
		return nil, nil
	}
	var out [][]Point
	if err := json.Unmarshal(p[kind], &out); err != nil {
		return nil, fmt.Errorf("%w: replicates %q: %v", ErrValidation, kind, err)
	}
	return out, nil
}

// Clone returns a shallow copy; raw messages are never mutated in place.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// WithSeries returns a copy of the payload with kind set to series.
func (p Payload) WithSeries(kind string, series []Point) (Payload, error) {
	raw, err := json.Marshal(series)
	if err != nil {
		return nil, err
	}
	out := p.Clone()
	if out == nil {
		out = Payload{}
	}
	out[kind] = raw
	return out, nil
}
