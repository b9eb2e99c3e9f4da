// Package threshold computes the cutoff that splits "agree on delivery" orders
// into urgent and to-review buckets.
package threshold

import (
	"fmt"
	"time"
)

const cutoffHour = 16

// Compute returns "yesterday at 16:00", skipping back over the weekend:
// Monday and the weekend point at the preceding Friday.
func Compute(now time.Time) time.Time {
	days := daysBack(now.Weekday())
	day := now.AddDate(0, 0, -days)
	return time.Date(day.Year(), day.Month(), day.Day(), cutoffHour, 0, 0, 0, now.Location())
}

// Describe explains which rule produced the threshold, for logs and reports.
func Describe(now, threshold time.Time) string {
	stamp := threshold.Format("Monday 02/01/2006 15:04")
	switch now.Weekday() {
	case time.Monday:
		return fmt.Sprintf("monday mode: urgent since friday %s", stamp)
	case time.Saturday, time.Sunday:
		return fmt.Sprintf("weekend mode: urgent since friday %s", stamp)
	default:
		return fmt.Sprintf("weekday mode: urgent since %s", stamp)
	}
}

func daysBack(wd time.Weekday) int {
	switch wd {
	case time.Monday:
		return 3
	case time.Saturday:
		return 1
	case time.Sunday:
		return 2
	default:
		return 1
	}
}
