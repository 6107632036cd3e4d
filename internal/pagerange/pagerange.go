// Package pagerange resolves human page-range expressions like "1-3,5,7-9"
// into validated zero-based page index sets.
package pagerange

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/RahilHalai7/CSI-Hackathon/internal/common"
)

// Resolve parses expr ("1-3,5,7-9"; 1-based, inclusive ranges) against a
// document of totalPages pages and returns the selected page indices,
// zero-based, deduplicated, ascending. An empty expression selects every
// page. Out-of-range bounds are clamped into [0, totalPages-1]; a
// non-numeric token fails with common.ErrInvalidRangeExpression.
func Resolve(expr string, totalPages int) ([]int, error) {
	if totalPages <= 0 {
		return nil, fmt.Errorf("%w: document has no pages", common.ErrInvalidRangeExpression)
	}
	if strings.TrimSpace(expr) == "" {
		all := make([]int, totalPages)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	selected := make(map[int]struct{})
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty token in %q", common.ErrInvalidRangeExpression, expr)
		}
		if start, end, ok := strings.Cut(part, "-"); ok {
			s, err := parsePageNumber(start)
			if err != nil {
				return nil, err
			}
			e, err := parsePageNumber(end)
			if err != nil {
				return nil, err
			}
			// 1-based inclusive -> 0-based, clamped
			lo := max(0, s-1)
			hi := min(totalPages-1, e-1)
			for i := lo; i <= hi; i++ {
				selected[i] = struct{}{}
			}
		} else {
			n, err := parsePageNumber(part)
			if err != nil {
				return nil, err
			}
			idx := min(totalPages-1, max(0, n-1))
			selected[idx] = struct{}{}
		}
	}

	out := make([]int, 0, len(selected))
	for i := range selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func parsePageNumber(tok string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric token %q", common.ErrInvalidRangeExpression, strings.TrimSpace(tok))
	}
	return n, nil
}
