package seasonality

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Coefficients maps each month to its seasonality factor. A resolved set has
// exactly twelve entries, each a finite number >= 0.
type Coefficients map[Month]float64

var defaultCoefficients = Coefficients{
	January:   0.8,
	February:  0.85,
	March:     1.0,
	April:     1.1,
	May:       1.2,
	June:      1.3,
	July:      1.25,
	August:    1.15,
	September: 1.0,
	October:   0.95,
	November:  1.1,
	December:  1.5,
}

// Defaults returns a fresh copy of the default coefficient set.
func Defaults() Coefficients {
	return defaultCoefficients.Clone()
}

// Default returns the default coefficient of m, or 0 for an invalid month.
func Default(m Month) float64 {
	return defaultCoefficients[m]
}

// Clone returns an independent copy of c.
func (c Coefficients) Clone() Coefficients {
	clone := make(Coefficients, len(c))
	for m, v := range c {
		clone[m] = v
	}
	return clone
}

// Factor returns the coefficient stored for m, falling back to the default
// when c has no entry for it.
func (c Coefficients) Factor(m Month) float64 {
	if v, ok := c[m]; ok {
		return v
	}
	return Default(m)
}

// Equal reports whether c and other hold the same months with identical values.
func (c Coefficients) Equal(other Coefficients) bool {
	if len(c) != len(other) {
		return false
	}
	for m, v := range c {
		ov, ok := other[m]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Sum returns the total of all factors in c.
func (c Coefficients) Sum() float64 {
	var total float64
	for _, v := range c {
		total += v
	}
	return total
}

// Candidate converts c back into the loosely typed form accepted by Resolve.
func (c Coefficients) Candidate() map[string]interface{} {
	candidate := make(map[string]interface{}, len(c))
	for m, v := range c {
		candidate[m.Key()] = v
	}
	return candidate
}

// MarshalJSON encodes c as an object keyed by month number in calendar order.
func (c Coefficients) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, m := range Months() {
		v, ok := c[m]
		if !ok {
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode coefficient for %s: %w", m, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteByte('"')
		buf.WriteString(m.Key())
		buf.WriteString(`":`)
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object and resolves it against the defaults.
func (c *Coefficients) UnmarshalJSON(data []byte) error {
	resolved, err := Decode(data, "coefficients")
	if err != nil {
		return err
	}
	*c = resolved
	return nil
}
