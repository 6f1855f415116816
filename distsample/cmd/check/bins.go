package check

import "math/bits"

// binner maps offsets in [0, width) onto at most maxBins contiguous bins.
//
// When the range is wider than maxBins, offset x lands in bin
// floor(x*bins/width), and bins differ in size by at most one value.
type binner struct {
	width uint64
	bins  uint64
}

func newBinner(width, maxBins uint64) *binner {
	bins := maxBins
	if width < bins {
		bins = width
	}
	return &binner{
		width: width,
		bins:  bins,
	}
}

func (b *binner) bin(offset uint64) uint64 {
	if b.bins == b.width {
		return offset
	}
	hi, lo := bits.Mul64(offset, b.bins)
	q, _ := bits.Div64(hi, lo, b.width)
	return q
}

// start returns the first offset of bin i, i.e. ceil(i*width/bins).
func (b *binner) start(i uint64) uint64 {
	hi, lo := bits.Mul64(i, b.width)
	q, r := bits.Div64(hi, lo, b.bins)
	if r != 0 {
		q++
	}
	return q
}

// sizes returns the number of offsets that fall into each bin.
func (b *binner) sizes() []float64 {
	sizes := make([]float64, b.bins)
	for i := range sizes {
		sizes[i] = float64(b.start(uint64(i)+1) - b.start(uint64(i)))
	}
	return sizes
}
