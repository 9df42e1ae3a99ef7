// Package same implements identity comparison of arbitrary values.
package same

import (
	"math"
	"reflect"
)

// Value reports whether a and b are the same value in the Object.is sense.
// It never panics: funcs compare equal only when both are nil, maps,
// slices, pointers and channels compare by identity, NaN equals NaN and
// positive zero differs from negative zero. Values whose dynamic type is
// not comparable compare unequal.
//
// A non-nil slice with zero capacity has no backing array of its own, so
// it is never the same as another slice, not even a copy of itself.
func Value(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		if fa == 0 && fb == 0 {
			return math.Signbit(fa) == math.Signbit(fb)
		}
		return fa == fb
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	case reflect.Map, reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		if va.Kind() == reflect.Slice {
			// Zero-capacity slices may all share one base address.
			if va.Cap() == 0 || vb.Cap() == 0 {
				return false
			}
			if va.Len() != vb.Len() || va.Cap() != vb.Cap() {
				return false
			}
		}
		return va.Pointer() == vb.Pointer()
	}

	if !va.Type().Comparable() {
		return false
	}
	defer func() { _ = recover() }()
	return a == b
}
