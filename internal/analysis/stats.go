package analysis

import (
	"slices"
	"strings"
)

// Median returns the middle value of values, averaging the two middle
// values for an even count. The input is not modified. Zero is returned
// for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// meanAcc accumulates an arithmetic mean.
type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.count++
}

func (m *meanAcc) mean() float64 {
	return m.sum / float64(m.count)
}

// joinKey normalizes a key field for equality joins.
func joinKey(s string) string {
	return strings.TrimSpace(s)
}

// zipKey normalizes a zip code prefix. Prefixes are numeric codes, so
// leading zeros are not significant ("01001" joins "1001").
func zipKey(s string) string {
	s = strings.TrimSpace(s)
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}
