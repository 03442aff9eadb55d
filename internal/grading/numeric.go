package grading

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// looseIndex reads a submitted answer as an option index. Numbers and numeric
// strings compare by value ("2", " 2 ", "2.0" and 2 are all index 2); anything
// else, including booleans and fractional values, is not an index.
func looseIndex(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		return x, true
	case int64:
		f = float64(x)
	case json.Number:
		p, ok := parseFloatLoose(x.String())
		if !ok {
			return 0, false
		}
		f = p
	case string:
		p, ok := parseFloatLoose(x)
		if !ok {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
