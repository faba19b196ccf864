package proposal

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a money value in dollars. Its JSON decoder never fails: proposals
// are often saved half-finished, so numeric strings are parsed and anything
// else (null, booleans, objects, garbage) decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*a = Amount(v).finite()
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if v, err := strconv.ParseFloat(string(data), 64); err == nil {
			*a = Amount(v).finite()
		}
	}
	return nil
}

func (a Amount) Float() float64 {
	return float64(a)
}

// NonNegative clamps the amount at zero.
func (a Amount) NonNegative() float64 {
	if a < 0 {
		return 0
	}
	return float64(a)
}

// Magnitude returns the absolute value. Discounts are stored as positive
// magnitudes, but older records sometimes carry them negated.
func (a Amount) Magnitude() float64 {
	return math.Abs(float64(a))
}

func (a Amount) finite() Amount {
	if math.IsNaN(float64(a)) || math.IsInf(float64(a), 0) {
		return 0
	}
	return a
}

// Quantity is a tolerant integer count, decoded like Amount and truncated.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var a Amount
	_ = a.UnmarshalJSON(data)
	*q = Quantity(math.Trunc(float64(a)))
	return nil
}

// Measure is a tolerant length or depth in metres.
type Measure float64

func (m *Measure) UnmarshalJSON(data []byte) error {
	var a Amount
	_ = a.UnmarshalJSON(data)
	*m = Measure(a)
	return nil
}
