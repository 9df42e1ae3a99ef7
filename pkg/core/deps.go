package core

import "github.com/go-redul/redul/internal/same"

// SameValue reports whether a and b are identical in the Object.is sense.
// Maps, slices, pointers and channels compare by identity, funcs never
// compare equal (unless both are nil) and NaN equals NaN. It never panics.
func SameValue(a, b any) bool {
	return same.Value(a, b)
}

// Deps builds a dependency list. Deps() is an empty, non-nil list, which
// makes an effect run only once. A nil list makes it run on every render.
func Deps(values ...any) []any {
	if values == nil {
		return []any{}
	}
	return values
}

// depsEqual compares dependency lists over the shorter of the two
// lengths. A nil list on either side never compares equal.
func depsEqual(prev, next []any) bool {
	if prev == nil || next == nil {
		return false
	}
	n := min(len(prev), len(next))
	for i := 0; i < n; i++ {
		if !SameValue(prev[i], next[i]) {
			return false
		}
	}
	return true
}

func sameProps(a, b Props) bool {
	return same.Value(a, b)
}
