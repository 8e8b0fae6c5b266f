package service

import (
	"fmt"
	"time"

	"github.com/rupert648/feed-the-moose/internal/model"
)

// A window turns active one hour before its nominal time and stays active
// for the rest of the day, so late feedings can still be recorded.
const activationLeadMinutes = 60

// ParseWindowTime validates an "HH:MM" (24h) wall-clock string and returns
// its minutes-of-day.
func ParseWindowTime(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid window time %q: want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid window time %q: out of range", s)
	}
	return h*60 + m, nil
}

// DateString returns the UTC calendar date ("YYYY-MM-DD") for t. All day
// scoping in this package derives dates this way.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TimeOfDayString returns the UTC wall-clock ("HH:MM") for t.
func TimeOfDayString(t time.Time) string {
	return t.UTC().Format("15:04")
}

// EvaluateWindows joins the schedule against today's feedings and computes
// the per-window status. Pure: no clock or storage access beyond its
// arguments. Output preserves the schedule's time-ascending order.
func EvaluateWindows(schedule []model.FeedingWindow, todaysFeedings []model.FeedingEntry, now time.Time) []model.WindowStatus {
	nowMinutes := now.UTC().Hour()*60 + now.UTC().Minute()

	statuses := make([]model.WindowStatus, 0, len(schedule))
	for _, window := range schedule {
		status := model.WindowStatus{
			Time:  window.Time,
			Label: window.Label,
		}

		if minutes, err := ParseWindowTime(window.Time); err == nil {
			status.IsActive = nowMinutes >= minutes-activationLeadMinutes
		}

		// At most one feeding per window per day by invariant.
		for i := range todaysFeedings {
			if todaysFeedings[i].WindowTime == window.Time {
				feeding := todaysFeedings[i]
				status.IsFed = true
				status.FedBy = &feeding.UserName
				status.FedAt = &feeding.FedAt
				status.PhotoKey = feeding.PhotoKey
				break
			}
		}

		statuses = append(statuses, status)
	}
	return statuses
}
