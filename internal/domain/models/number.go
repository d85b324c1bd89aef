package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float64 where NaN means "undefined". It encodes NaN and ±Inf as JSON null.
type Number float64

// Undefined is the missing value.
var Undefined = Number(math.NaN())

// Float returns the plain float64.
func (n Number) Float() float64 { return float64(n) }

// Defined reports whether n holds a finite value.
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Numbers converts a float slice, keeping NaN as undefined.
func Numbers(fs []float64) []Number {
	out := make([]Number, len(fs))
	for i, f := range fs {
		out[i] = Number(f)
	}
	return out
}
