package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDuration converts "mm:ss" into milliseconds. Minutes may be any
// non-negative integer; seconds are not range-checked. Empty, malformed or
// overflowing input reports ok=false.
func ParseDuration(s string) (ms int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	minutes, ok := parseDurationPart(parts[0])
	if !ok {
		return 0, false
	}
	seconds, ok := parseDurationPart(parts[1])
	if !ok {
		return 0, false
	}
	const maxSeconds = math.MaxInt64 / 1000
	if seconds > maxSeconds || minutes > (maxSeconds-seconds)/60 {
		return 0, false
	}
	return (minutes*60 + seconds) * 1000, true
}

// An empty side counts as zero so ":30" and "2:" both parse.
func parseDurationPart(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FormatDuration renders milliseconds as "m:ss".
func FormatDuration(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatRest renders a rest countdown in seconds as "m:ss".
func FormatRest(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
