package distribution

// Constant is the distribution that always returns Value.
type Constant[T any] struct {
	Value T
}

// NewConstant returns the distribution that always returns v.
func NewConstant[T any](v T) Constant[T] {
	return Constant[T]{Value: v}
}

// Sample returns c.Value without consuming any randomness.
func (c Constant[T]) Sample(BitSource) T {
	return c.Value
}

// IntoDistribution returns c.
func (c Constant[T]) IntoDistribution() (Distribution[T], error) {
	return c, nil
}
