package domain

import (
	"strconv"
	"time"
)

// TimestampLayout is how createdAt and similar fields are stored
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC with TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewUserID derives an id from the creation time in milliseconds, bumped
// past any id already taken
func NewUserID(now time.Time, users []User) string {
	taken := make(map[string]struct{}, len(users))
	for i := range users {
		taken[users[i].ID] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}
