package vantage

// Optional models a measurement that the console may report as explicitly
// absent via a sentinel wire value. Decoded records never reuse a floating
// point NaN as a universal "missing" marker -- every optional field carries
// its own presence bit instead.
type Optional[T any] struct {
	value T
	valid bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None is the absent value for T.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Valid reports whether the measurement was present.
func (o Optional[T]) Valid() bool {
	return o.valid
}

// Get returns the value and whether it was present, mirroring the
// comma-ok idiom used for map lookups elsewhere in the codebase.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// MustGet returns the value, or the zero value of T if absent. Callers
// that need to distinguish absence from zero must use Get or Valid.
func (o Optional[T]) MustGet() T {
	return o.value
}
