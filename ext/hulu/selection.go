package hulu

import (
	"fmt"
	"strconv"
	"strings"
)

// maxSelectionSpan bounds the size of an expanded range; it
// matches the catalog page limit.
const maxSelectionSpan = 999

// ParseSelection expands a season or episode selector: "N", "N-M" or
// "N,M,...". An open range "N-" runs up to last, which must then be
// known (non-zero). A known last also caps explicit ranges.
func ParseSelection(value string, last int) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty selection")
	}
	if start, end, ok := strings.Cut(value, "-"); ok {
		from, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", value, err)
		}
		to := last
		if strings.TrimSpace(end) != "" {
			to, err = strconv.Atoi(strings.TrimSpace(end))
			if err != nil {
				return nil, fmt.Errorf("invalid selection %q: %w", value, err)
			}
		} else if last <= 0 {
			return nil, fmt.Errorf("invalid selection %q: open range needs an end", value)
		}
		if to < from {
			return nil, fmt.Errorf("invalid selection %q: end before start", value)
		}
		if last > 0 && to > last {
			to = last
		}
		if to-from >= maxSelectionSpan {
			return nil, fmt.Errorf("invalid selection %q: range too large", value)
		}
		if to < from {
			return []int{}, nil
		}
		numbers := make([]int, 0, to-from+1)
		for n := from; n <= to; n++ {
			numbers = append(numbers, n)
		}
		return numbers, nil
	}

	var numbers []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", value, err)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
