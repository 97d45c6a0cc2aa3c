package seasonality

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestMonthString(t *testing.T) {
	tests := []struct {
		month    Month
		expected string
	}{
		{January, "January"},
		{June, "June"},
		{December, "December"},
		{Month(0), "Month(0)"},
		{Month(13), "Month(13)"},
	}

	for _, tt := range tests {
		if got := tt.month.String(); got != tt.expected {
			t.Errorf("Month(%d).String() = %q, expected %q", int(tt.month), got, tt.expected)
		}
	}
}

func TestMonths(t *testing.T) {
	months := Months()
	if len(months) != 12 {
		t.Fatalf("Months() returned %d months, expected 12", len(months))
	}
	for i, m := range months {
		if int(m) != i+1 {
			t.Errorf("Months()[%d] = %d, expected %d", i, m, i+1)
		}
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Month
		wantErr  bool
	}{
		{name: "Number", input: "12", expected: December},
		{name: "Number with spaces", input: " 3 ", expected: March},
		{name: "Full name", input: "February", expected: February},
		{name: "Lowercase name", input: "september", expected: September},
		{name: "Abbreviation", input: "Oct", expected: October},
		{name: "Zero", input: "0", wantErr: true},
		{name: "Thirteen", input: "13", wantErr: true},
		{name: "Too short", input: "ju", wantErr: true},
		{name: "Unknown name", input: "Smarch", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMonth) {
					t.Fatalf("ParseMonth(%q) error = %v, expected ErrInvalidMonth", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonth(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseMonth(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultsAreNotShared(t *testing.T) {
	d := Defaults()
	d[January] = 42
	if Default(January) != 0.8 {
		t.Fatalf("mutating Defaults() leaked into the default set: %v", Default(January))
	}
	if Defaults()[January] != 0.8 {
		t.Fatalf("Defaults()[January] = %v, expected 0.8", Defaults()[January])
	}
}

func TestDefaultValues(t *testing.T) {
	expected := map[Month]float64{
		1: 0.8, 2: 0.85, 3: 1.0, 4: 1.1, 5: 1.2, 6: 1.3,
		7: 1.25, 8: 1.15, 9: 1.0, 10: 0.95, 11: 1.1, 12: 1.5,
	}
	d := Defaults()
	if len(d) != 12 {
		t.Fatalf("Defaults() has %d entries, expected 12", len(d))
	}
	for m, v := range expected {
		if d[m] != v {
			t.Errorf("Defaults()[%s] = %v, expected %v", m, d[m], v)
		}
	}
}

func TestFactorFallsBackToDefault(t *testing.T) {
	c := Coefficients{March: 2.0}
	if got := c.Factor(March); got != 2.0 {
		t.Errorf("Factor(March) = %v, expected 2.0", got)
	}
	if got := c.Factor(December); got != 1.5 {
		t.Errorf("Factor(December) = %v, expected default 1.5", got)
	}

	zero := Coefficients{July: 0}
	if got := zero.Factor(July); got != 0 {
		t.Errorf("Factor(July) = %v, expected stored zero", got)
	}
}

func TestResolve(t *testing.T) {
	defaults := Defaults()

	tests := []struct {
		name      string
		candidate map[string]interface{}
		expected  map[Month]float64
	}{
		{
			name:      "Nil candidate yields defaults",
			candidate: nil,
			expected:  map[Month]float64{},
		},
		{
			name: "Invalid entries fall back",
			candidate: map[string]interface{}{
				"1": "abc",
				"2": -3.0,
				"3": 1.05,
			},
			expected: map[Month]float64{March: 1.05},
		},
		{
			name: "Numeric strings are parsed leniently",
			candidate: map[string]interface{}{
				"4": "1.4",
				"5": " 0.5x",
			},
			expected: map[Month]float64{April: 1.4, May: 0.5},
		},
		{
			name: "Zero is kept",
			candidate: map[string]interface{}{
				"6": 0.0,
			},
			expected: map[Month]float64{June: 0},
		},
		{
			name: "Non-numeric types fall back",
			candidate: map[string]interface{}{
				"7": true,
				"8": nil,
				"9": []interface{}{1.2},
				"10": map[string]interface{}{
					"value": 1.0,
				},
			},
			expected: map[Month]float64{},
		},
		{
			name: "Non-finite values fall back",
			candidate: map[string]interface{}{
				"11": math.Inf(1),
				"12": "Infinity",
				"1":  math.NaN(),
			},
			expected: map[Month]float64{},
		},
		{
			name: "Integer and json.Number values",
			candidate: map[string]interface{}{
				"2": 2,
				"3": json.Number("0.75"),
			},
			expected: map[Month]float64{February: 2, March: 0.75},
		},
		{
			name: "Extra and padded keys are ignored",
			candidate: map[string]interface{}{
				"13":      9.0,
				"01":      9.0,
				"January": 9.0,
			},
			expected: map[Month]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.candidate)
			if len(got) != 12 {
				t.Fatalf("Resolve() has %d entries, expected 12", len(got))
			}
			for _, m := range Months() {
				want, overridden := tt.expected[m]
				if !overridden {
					want = defaults[m]
				}
				if got[m] != want {
					t.Errorf("Resolve()[%s] = %v, expected %v", m, got[m], want)
				}
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	candidates := []map[string]interface{}{
		nil,
		{"1": "abc", "2": -3.0, "3": 1.05},
		{"4": "2.5kg", "12": 0.0, "extra": "x"},
		Defaults().Candidate(),
	}

	for i, candidate := range candidates {
		once := Resolve(candidate)
		twice := Resolve(once.Candidate())
		if !once.Equal(twice) {
			t.Errorf("candidate %d: Resolve is not idempotent: %v != %v", i, once, twice)
		}
		for m, v := range once {
			if v < 0 || !m.Valid() {
				t.Errorf("candidate %d: invalid entry %s=%v", i, m, v)
			}
		}
	}
}

func TestEncodeIndentOrderAndShape(t *testing.T) {
	data, err := EncodeIndent(Defaults())
	if err != nil {
		t.Fatalf("EncodeIndent() error = %v", err)
	}

	expected := `{
  "1": 0.8,
  "2": 0.85,
  "3": 1,
  "4": 1.1,
  "5": 1.2,
  "6": 1.3,
  "7": 1.25,
  "8": 1.15,
  "9": 1,
  "10": 0.95,
  "11": 1.1,
  "12": 1.5
}`
	if string(data) != expected {
		t.Errorf("EncodeIndent() =\n%s\nexpected\n%s", data, expected)
	}
}

func TestEncodeCompact(t *testing.T) {
	data, err := Encode(Coefficients{January: 0.8, December: 1.5})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(data) != `{"1":0.8,"12":1.5}` {
		t.Errorf("Encode() = %s", data)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	sets := []Coefficients{
		Defaults(),
		Resolve(map[string]interface{}{"1": 0.1, "6": 0.0, "12": 3.333333333333333}),
		Resolve(map[string]interface{}{"2": 1e-9, "3": 123456.789}),
	}

	for i, set := range sets {
		data, err := EncodeIndent(set)
		if err != nil {
			t.Fatalf("set %d: EncodeIndent() error = %v", i, err)
		}
		decoded, err := Decode(data, "export")
		if err != nil {
			t.Fatalf("set %d: Decode() error = %v", i, err)
		}
		if !decoded.Equal(set) {
			t.Errorf("set %d: round trip changed the set: %v != %v", i, decoded, set)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, c Coefficients)
	}{
		{
			name:  "Subset merges with defaults",
			input: `{"12": 2}`,
			check: func(t *testing.T, c Coefficients) {
				if c[December] != 2 || c[January] != 0.8 {
					t.Errorf("unexpected merge result %v", c)
				}
			},
		},
		{
			name:  "Overflowing number falls back",
			input: `{"5": 1e400}`,
			check: func(t *testing.T, c Coefficients) {
				if c[May] != 1.2 {
					t.Errorf("expected default for May, got %v", c[May])
				}
			},
		},
		{name: "Malformed JSON", input: `{"1": `, wantErr: true},
		{name: "Empty document", input: ``, wantErr: true},
		{name: "Array document", input: `[0.8, 0.9]`, wantErr: true},
		{name: "Number document", input: `1.5`, wantErr: true},
		{name: "Null document", input: `null`, wantErr: true},
		{name: "Trailing data", input: `{"1": 1} {"2": 2}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input), "test input")
			if tt.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("Decode() error = %v, expected *ParseError", err)
				}
				if !strings.Contains(parseErr.Error(), "test input") {
					t.Errorf("ParseError should name its source, got %q", parseErr.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if len(got) != 12 {
				t.Fatalf("Decode() has %d entries, expected 12", len(got))
			}
			tt.check(t, got)
		})
	}
}

func TestCoefficientsJSONInterfaces(t *testing.T) {
	var wrapper struct {
		Coefficients Coefficients `json:"coefficients"`
	}
	if err := json.Unmarshal([]byte(`{"coefficients": {"2": "0.5", "3": -1}}`), &wrapper); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if wrapper.Coefficients[February] != 0.5 {
		t.Errorf("February = %v, expected 0.5", wrapper.Coefficients[February])
	}
	if wrapper.Coefficients[March] != 1.0 {
		t.Errorf("March = %v, expected default 1.0", wrapper.Coefficients[March])
	}

	if err := json.Unmarshal([]byte(`{"coefficients": [1, 2]}`), &wrapper); err == nil {
		t.Error("expected an error for a non-object coefficients field")
	}
}

func BenchmarkResolve(b *testing.B) {
	candidate := map[string]interface{}{"1": "abc", "2": -3.0, "3": 1.05, "4": "1.1"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Resolve(candidate)
	}
}
