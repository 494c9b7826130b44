package sets

import (
	"errors"
	"fmt"
)

// MaxElements is the hard ceiling on PowerSet input. 2^20 subsets is already
// around a million slices; anything larger is refused regardless of
// configuration.
const MaxElements = 20

// maxSizeBits is the largest n for which 2^n fits in a uint64.
const maxSizeBits = 63

// ErrTooManyElements is returned by PowerSet when the input exceeds MaxElements.
var ErrTooManyElements = errors.New("too many elements")

// PowerSetSize returns 2^n.
func PowerSetSize(n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("negative element count: %d", n)
	}
	if n > maxSizeBits {
		return 0, fmt.Errorf("power set of %d elements overflows uint64", n)
	}
	return uint64(1) << uint(n), nil
}

// PowerSet returns every subset of elements, grouped by size from the empty
// subset up to the full input. Within one size, subsets follow the
// lexicographic order of element positions, so "a,b,c" yields
// [] [a] [b] [c] [a b] [a c] [b c] [a b c].
//
// Elements are treated by position: duplicated tokens produce repeated
// subsets. Returned subsets are never nil. Inputs longer than MaxElements
// fail with ErrTooManyElements before anything is allocated.
func PowerSet(elements []string) ([][]string, error) {
	n := len(elements)
	if n > MaxElements {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyElements, n, MaxElements)
	}
	size, err := PowerSetSize(n)
	if err != nil {
		return nil, err
	}

	result := make([][]string, 0, size)
	for r := 0; r <= n; r++ {
		combinations(elements, r, func(subset []string) {
			result = append(result, subset)
		})
	}
	return result, nil
}

// combinations calls emit with every r-length selection of elements, in
// lexicographic order of positions. Each emitted slice is freshly allocated.
func combinations(elements []string, r int, emit func([]string)) {
	n := len(elements)
	if r > n {
		return
	}

	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}

	for {
		subset := make([]string, r)
		for i, idx := range indices {
			subset[i] = elements[idx]
		}
		emit(subset)

		// Rightmost index that can still advance.
		i := r - 1
		for i >= 0 && indices[i] == i+n-r {
			i--
		}
		if i < 0 {
			return
		}

		indices[i]++
		for j := i + 1; j < r; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}
