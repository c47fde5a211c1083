// Package elapsed renders run durations reported by devices.
package elapsed

import (
	"fmt"
	"time"
)

const (
	secondsPerDay    = 86400
	secondsPerHour   = 3600
	secondsPerMinute = 60
)

// Parts is a duration broken into whole days, hours, minutes and seconds.
type Parts struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Split breaks t seconds into Parts. Negative input is treated as zero.
func Split(t int64) Parts {
	if t < 0 {
		t = 0
	}
	days := t / secondsPerDay
	hours := (t - days*secondsPerDay) / secondsPerHour
	minutes := (t - days*secondsPerDay - hours*secondsPerHour) / secondsPerMinute
	secs := t - days*secondsPerDay - hours*secondsPerHour - minutes*secondsPerMinute
	return Parts{Days: days, Hours: hours, Minutes: minutes, Seconds: secs}
}

// Format renders t seconds starting at the largest non-zero unit,
// e.g. "1 days, 1h, 1min, 1s" or "45s". Zero renders as "0s".
func Format(t int64) string {
	return Split(t).String()
}

func (p Parts) String() string {
	switch {
	case p.Days > 0:
		return fmt.Sprintf("%d days, %dh, %dmin, %ds", p.Days, p.Hours, p.Minutes, p.Seconds)
	case p.Hours > 0:
		return fmt.Sprintf("%dh, %dmin, %ds", p.Hours, p.Minutes, p.Seconds)
	case p.Minutes > 0:
		return fmt.Sprintf("%dmin, %ds", p.Minutes, p.Seconds)
	default:
		return fmt.Sprintf("%ds", p.Seconds)
	}
}

// FormatTimestamp renders unix seconds as a UTC timestamp.
func FormatTimestamp(secs int64) string {
	return time.Unix(secs, 0).UTC().Format(time.RFC1123)
}
