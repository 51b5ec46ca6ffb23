package caption

import (
	"fmt"
	"math"
	"strings"
)

// RenderSRT renders segments as an SRT document, in source order.
func RenderSRT(segments []Segment) string {
	var sb strings.Builder
	for i, segment := range segments {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", formatSRTTime(segment.StartTime), formatSRTTime(segment.EndTime))
		fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(segment.Text))
	}
	return sb.String()
}

// formatSRTTime formats seconds as the SRT "HH:MM:SS,mmm" timestamp.
func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3600000
	minutes := (totalMillis % 3600000) / 60000
	secs := (totalMillis % 60000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
