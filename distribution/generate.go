package distribution

import "iter"

// Generate converts v into a Distribution and samples it once using src.
func Generate[T any](src BitSource, v IntoDistribution[T]) (T, error) {
	return SampleFrom(v, src)
}

// Iter returns an unbounded sequence of samples from d. The sequence
// ends only when the consumer stops ranging over it.
func Iter[T any](d Distribution[T], src BitSource) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			if !yield(d.Sample(src)) {
				return
			}
		}
	}
}

// GenerateIter converts v into a Distribution once, and returns an
// unbounded sequence of samples from it.
func GenerateIter[T any](src BitSource, v IntoDistribution[T]) (iter.Seq[T], error) {
	d, err := v.IntoDistribution()
	if err != nil {
		return nil, err
	}
	return Iter(d, src), nil
}

// Choose returns a uniformly chosen element of items.
//
// It fails with ErrEmptyChoice if items is empty.
func Choose[T any](src BitSource, items []T) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, ErrEmptyChoice
	}

	d, err := NewUniformRange(0, len(items))
	if err != nil {
		var zero T
		return zero, err
	}
	return items[d.Sample(src)], nil
}
