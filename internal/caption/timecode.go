package caption

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimecode converts a textual timestamp into seconds.
// Accepted shapes: "HH:MM:SS.mmm", "MM:SS.mmm" and bare seconds.
// A comma decimal separator is treated as an alias for the dot.
func ParseTimecode(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	parts := strings.Split(s, ":")

	switch len(parts) {
	case 3:
		hours, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hours in time code %q: %w", s, err)
		}
		minutes, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in time code %q: %w", s, err)
		}
		seconds, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in time code %q: %w", s, err)
		}
		return hours*3600 + minutes*60 + seconds, nil
	case 2:
		minutes, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in time code %q: %w", s, err)
		}
		seconds, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in time code %q: %w", s, err)
		}
		return minutes*60 + seconds, nil
	case 1:
		seconds, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time code %q: %w", s, err)
		}
		return seconds, nil
	default:
		return 0, fmt.Errorf("invalid time code %q", s)
	}
}
