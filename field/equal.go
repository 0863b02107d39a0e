package field

import (
	"math/big"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// ValueEqualer is implemented by native values with their own notion of
// equality, such as model instances.
type ValueEqualer interface {
	EqualValue(other any) bool
}

// Equal compares two native field values. Numbers compare by value across
// Go numeric types; times, decimals and big integers use their own equality.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(ValueEqualer); ok {
		return eq.EqualValue(b)
	}
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		return ok && x.Equal(y)
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	if isNumber(a) && isNumber(b) {
		ia, fa, fla, _ := numberParts(a, false)
		ib, fb, flb, _ := numberParts(b, false)
		switch {
		case !fla && !flb:
			return ia == ib
		case fla && flb:
			return fa == fb
		case fla:
			return fa == float64(ib)
		default:
			return float64(ia) == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
