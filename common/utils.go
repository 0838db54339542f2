package common

// Coalesce returns the first of values that is not the zero value of T, or
// the zero value when every value is zero. Configuration fallbacks use it to
// prefer an explicit setting over a built-in default.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
