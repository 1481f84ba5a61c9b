package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var expiryPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(ms|s|m|h|d|w|y)?$`)

var expiryUnits = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"y":  365*24*time.Hour + 6*time.Hour,
}

// parses a token lifetime such as "15m", "7d" or "900" (seconds).
// Go duration strings like "1h30m" are accepted too.
func ParseExpiry(raw string) (time.Duration, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("empty expiry")
	}

	var d time.Duration

	if m := expiryPattern.FindStringSubmatch(value); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q: %w", raw, err)
		}

		unit := m[2]
		if unit == "" {
			unit = "s" // bare numbers are seconds
		}

		d = time.Duration(n * float64(expiryUnits[unit]))
	} else {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q", raw)
		}

		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("expiry %q must be positive", raw)
	}

	return d, nil
}
