package moderation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxMinutes is the longest duration whose expiration still fits a time.Duration
const MaxMinutes = math.MaxInt64 / int64(time.Minute)

var durationPart = regexp.MustCompile(`(\d+)([wdhms])`)

var durationUnits = map[string]time.Duration{
	"w": 7 * 24 * time.Hour,
	"d": 24 * time.Hour,
	"h": time.Hour,
	"m": time.Minute,
	"s": time.Second,
}

// ParseDuration parses strings like "1d5h3m10s" into whole minutes.
// Seconds are accepted and truncated. An empty string is 0 (permanent).
// Durations above MaxMinutes are rejected.
func ParseDuration(raw string) (int, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || int64(n) > MaxMinutes {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		return n, nil
	}

	matches := durationPart.FindAllStringSubmatchIndex(raw, -1)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}

	var total time.Duration
	consumed := 0
	for _, m := range matches {
		if m[0] != consumed {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		n, err := strconv.Atoi(raw[m[2]:m[3]])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		unit := durationUnits[raw[m[4]:m[5]]]
		if int64(n) > int64(math.MaxInt64-total)/int64(unit) {
			return 0, fmt.Errorf("duration %q is too long", raw)
		}
		total += time.Duration(n) * unit
		consumed = m[1]
	}
	if consumed != len(raw) {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}

	return int(total / time.Minute), nil
}

// FormatMinutes renders a minute count as "1d 5h 3m"
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "permanente"
	}
	d := minutes / (24 * 60)
	h := (minutes / 60) % 24
	m := minutes % 60

	parts := make([]string, 0, 3)
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return strings.Join(parts, " ")
}
