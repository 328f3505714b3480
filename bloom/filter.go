// Package bloom provides a probabilistic set of crawl URLs backed by
// github.com/bits-and-blooms/bloom.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter remembers URLs with a bounded false positive rate. A negative
// answer is exact; a positive answer means "possibly seen".
type Filter struct {
	f        *bloom.BloomFilter
	expected uint
}

// NewFilter creates a Filter sized for n expected URLs with the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f:        bloom.NewWithEstimates(n, fpRate),
		expected: n,
	}
}

// MayContain reports whether url might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) MayContain(url string) bool {
	return f.f.TestString(url)
}

// TestAndAdd adds url and reports whether it might have been added before.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Saturated reports whether the filter holds more URLs than it was sized
// for, so its false positive rate exceeds the configured one.
func (f *Filter) Saturated() bool {
	return f.EstimatedCount() > f.expected
}
