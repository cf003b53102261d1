package transition

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/vango-transition/pkg/dom"
)

// ParseDuration reads a comma-separated list of CSS times ("0.3s, 75ms")
// and returns the largest. Empty and unparsable items are dropped; an
// empty list is zero.
func ParseDuration(list string) time.Duration {
	var max time.Duration
	for _, item := range strings.Split(list, ",") {
		d, ok := parseCSSTime(strings.TrimSpace(item))
		if ok && d > max {
			max = d
		}
	}
	return max
}

// TotalDuration is the longest duration plus the longest delay.
func TotalDuration(t dom.Timing) time.Duration {
	return ParseDuration(t.Duration) + ParseDuration(t.Delay)
}

func parseCSSTime(s string) (time.Duration, bool) {
	var unit time.Duration
	switch {
	case strings.HasSuffix(s, "ms"):
		unit = time.Millisecond
		s = strings.TrimSuffix(s, "ms")
	case strings.HasSuffix(s, "s"):
		unit = time.Second
		s = strings.TrimSuffix(s, "s")
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return time.Duration(math.Round(v * float64(unit))), true
}
