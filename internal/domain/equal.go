package domain

import "math"

// Equal reports whether two forecasts are structurally equal. An absent field
// equals only another absent field; present fields compare by value, floats
// exactly except that NaN equals NaN, so Equal is reflexive.
func (f Forecast) Equal(other Forecast) bool { return equalFields(forecastFields, &f, &other) }

func (b DataBlock) Equal(other DataBlock) bool { return equalFields(dataBlockFields, &b, &other) }

func (p DataPoint) Equal(other DataPoint) bool { return equalFields(dataPointFields, &p, &other) }

func (a Alert) Equal(other Alert) bool { return equalFields(alertFields, &a, &other) }

func equalFields[E any](fields []field[E], a, b *E) bool {
	for _, f := range fields {
		if !f.equal(a, b) {
			return false
		}
	}
	return true
}

func optionalEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func optionalEqualFunc[T any](a, b *T, eq func(x, y *T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return eq(a, b)
}

// listEqual treats a nil slice (absent) as different from an empty one.
func listEqual[T any](a, b []T, eq func(x, y *T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(&a[i], &b[i]) {
			return false
		}
	}
	return true
}

// sameFloat is exact equality with every NaN equal to every other NaN. The
// binary encoding canonicalizes NaN payloads.
func sameFloat(x, y float64) bool {
	return x == y || (math.IsNaN(x) && math.IsNaN(y))
}
