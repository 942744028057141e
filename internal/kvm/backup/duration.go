package backup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`(?i)^(?:(\d+)([dhms]))+$`)

var durationPart = regexp.MustCompile(`(?i)(\d+)([dhms])`)

// ParseRetention converts strings like "30d", "12h" or "1d12h" into a
// time.Duration.
func ParseRetention(input string) (time.Duration, error) {
	value := strings.TrimSpace(input)
	if !durationPattern.MatchString(value) {
		return 0, fmt.Errorf("invalid duration format: %q", input)
	}
	total := time.Duration(0)
	for _, parts := range durationPart.FindAllStringSubmatch(value, -1) {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration number: %w", err)
		}
		switch strings.ToLower(parts[2]) {
		case "d":
			total += time.Duration(n) * 24 * time.Hour
		case "h":
			total += time.Duration(n) * time.Hour
		case "m":
			total += time.Duration(n) * time.Minute
		case "s":
			total += time.Duration(n) * time.Second
		}
	}
	return total, nil
}

// HumanizeRetention renders whole days as "30d" and anything else with
// time.Duration's own format.
func HumanizeRetention(d time.Duration) string {
	day := 24 * time.Hour
	if d > 0 && d%day == 0 {
		return fmt.Sprintf("%dd", d/day)
	}
	return d.String()
}
