// Package version reads and compares versions of the external downloader.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Compare compares two dotted numeric versions such as "1.4.0" or "2024.08.06".
// Missing parts count as zero. Returns 1 if a > b, -1 if a < b, and 0 if equal.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := 0; i < max(len(av), len(bv)); i++ {
		x, y := part(av, i), part(bv, i)
		switch {
		case x > y:
			return 1, nil
		case x < y:
			return -1, nil
		}
	}

	return 0, nil
}

func parse(s string) ([]int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return nil, fmt.Errorf("empty version")
	}

	fields := strings.Split(s, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q", s)
		}
		parts[i] = n
	}
	return parts, nil
}

func part(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}
