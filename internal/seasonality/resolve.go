package seasonality

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/iwvelando/seasonality-forecast/pkg/mathutil"
	"github.com/iwvelando/seasonality-forecast/pkg/numeric"
)

// ParseError reports coefficient data that could not be decoded as a JSON object.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotObject = errors.New("expected a JSON object of month coefficients")

// Resolve normalizes an arbitrary candidate set into a complete coefficient set.
// Every month 1-12 takes candidate[month key] when it is a finite number >= 0
// and the month's default otherwise. Extra keys are ignored and nothing is
// ever rejected, so the result is always usable.
func Resolve(candidate map[string]interface{}) Coefficients {
	resolved := make(Coefficients, constants.MonthsPerYear)
	for _, m := range Months() {
		resolved[m] = ResolveValue(m, candidate[m.Key()])
	}
	return resolved
}

// ResolveValue returns raw as a coefficient for m, or the default for m when
// raw is missing, non-numeric, negative or not finite.
func ResolveValue(m Month, raw interface{}) float64 {
	v, ok := toFloat(raw)
	if !ok || v < 0 || !mathutil.IsFinite(v) {
		return Default(m)
	}
	return v
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		return numeric.ParseFloat(v.String())
	case string:
		return numeric.ParseFloat(v)
	default:
		return 0, false
	}
}

// Decode parses a JSON object of month coefficients and resolves it against
// the defaults. Malformed JSON, trailing data or a non-object document yield a
// *ParseError naming source.
func Decode(data []byte, source string) (Coefficients, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Source: source, Err: errors.New("unexpected data after JSON object")}
	}

	candidate, ok := doc.(map[string]interface{})
	if !ok {
		return nil, &ParseError{Source: source, Err: errNotObject}
	}
	return Resolve(candidate), nil
}

// Encode renders c as compact JSON in month order, the persisted form.
func Encode(c Coefficients) ([]byte, error) {
	return json.Marshal(c)
}

// EncodeIndent renders c with two-space indentation, the export form.
func EncodeIndent(c Coefficients) ([]byte, error) {
	return json.MarshalIndent(c, "", constants.ExportIndent)
}
