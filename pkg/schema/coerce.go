package schema

import (
	"math"
	"strconv"
)

// Coerce maps a record field's runtime value to a float64 cell.
// Numbers pass through, booleans map to 1.0/0.0, numeric strings are
// parsed, and pointer values dereference to the same rules (nil
// pointer means absent). Anything else, including an explicit nil,
// yields a NaN cell with degraded=true. Degradation is a policy, not
// an error: the materialization keeps going and only counts how many
// cells were lost.
func Coerce(v interface{}) (cell float64, degraded bool) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), true
	case float64:
		return x, false
	case float32:
		return float64(x), false
	case int:
		return float64(x), false
	case int8:
		return float64(x), false
	case int16:
		return float64(x), false
	case int32:
		return float64(x), false
	case int64:
		return float64(x), false
	case uint:
		return float64(x), false
	case uint8:
		return float64(x), false
	case uint16:
		return float64(x), false
	case uint32:
		return float64(x), false
	case uint64:
		return float64(x), false
	case bool:
		if x {
			return 1.0, false
		}
		return 0.0, false
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return math.NaN(), true
		}
		return f, false
	case *float64:
		if x == nil {
			return math.NaN(), true
		}
		return *x, false
	case *int64:
		if x == nil {
			return math.NaN(), true
		}
		return float64(*x), false
	case *bool:
		if x == nil {
			return math.NaN(), true
		}
		if *x {
			return 1.0, false
		}
		return 0.0, false
	default:
		return math.NaN(), true
	}
}

// IsMissing reports whether a cell is the missing-value sentinel.
func IsMissing(cell float64) bool {
	return math.IsNaN(cell)
}

// FromCell reconstructs a record field value from a cell: nil for the
// NaN sentinel, the float64 value otherwise. This is the read-back
// half of the NaN round trip.
func FromCell(cell float64) interface{} {
	if math.IsNaN(cell) {
		return nil
	}
	return cell
}
