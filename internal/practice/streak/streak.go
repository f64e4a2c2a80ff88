// Package streak computes daily practice streaks and the recent activity list
package streak

import (
	"time"

	authdomain "examprep-backend/internal/auth/domain"
)

// DateLayout is the calendar-date form of lastPracticeDate
const DateLayout = "2006-01-02"

// State is the part of a user the tracker reads and writes
type State struct {
	Streak           int
	LastPracticeDate string
	RecentActivity   []authdomain.RecentActivity
}

// FromUser copies the streak fields of u
func FromUser(u *authdomain.User) State {
	return State{
		Streak:           u.Streak,
		LastPracticeDate: u.LastPracticeDate,
		RecentActivity:   u.RecentActivity,
	}
}

// Apply writes s onto u
func (s State) Apply(u *authdomain.User) {
	u.Streak = s.Streak
	u.LastPracticeDate = s.LastPracticeDate
	u.RecentActivity = s.RecentActivity
}

// Update returns the state after a practice on today's calendar date, taken
// in today's location. prev is not modified.
//
// Practising again on the same date keeps the streak. Practising the day after
// lastPracticeDate extends it by one. Anything else, including a
// lastPracticeDate in the future, restarts it at 1.
func Update(prev State, today time.Time, activity authdomain.RecentActivity) State {
	todayStr := today.Format(DateLayout)
	next := State{
		Streak:           prev.Streak,
		LastPracticeDate: prev.LastPracticeDate,
		RecentActivity:   pushActivity(prev.RecentActivity, activity),
	}
	if next.Streak < 0 {
		next.Streak = 0
	}

	if prev.LastPracticeDate == todayStr {
		return next
	}

	yesterday := today.AddDate(0, 0, -1).Format(DateLayout)
	if prev.LastPracticeDate == yesterday {
		next.Streak++
	} else {
		next.Streak = 1
	}
	next.LastPracticeDate = todayStr
	return next
}

// pushActivity puts a at the front, drops older entries with the same title
// and keeps at most MaxRecentActivity entries
func pushActivity(list []authdomain.RecentActivity, a authdomain.RecentActivity) []authdomain.RecentActivity {
	out := make([]authdomain.RecentActivity, 0, authdomain.MaxRecentActivity)
	out = append(out, a)
	for _, existing := range list {
		if len(out) == authdomain.MaxRecentActivity {
			break
		}
		if existing.Title == a.Title {
			continue
		}
		out = append(out, existing)
	}
	return out
}
