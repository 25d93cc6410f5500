package domain

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2. A leading "v" and any
// pre-release suffix ("-beta") are ignored; missing components count as zero.
func CompareVersions(v1, v2 string) int {
	a := versionParts(v1)
	b := versionParts(v2)

	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// IsNewerVersion returns true if candidate is newer than current
func IsNewerVersion(current, candidate string) bool {
	return CompareVersions(candidate, current) > 0
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil
	}
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		parts[i] = n
	}
	return parts
}
