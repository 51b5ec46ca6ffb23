// Package icron wraps cron expression introspection.
package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// NextRun parses a standard 5-field cron expression and returns the
// first trigger time after ref.
func NextRun(expr string, ref time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule.Next(ref), nil
}
