package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserID(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "1715333400000", NewUserID(now, nil))

	taken := []User{
		{Profile: Profile{ID: "1715333400000"}},
		{Profile: Profile{ID: "1715333400001"}},
	}
	assert.Equal(t, "1715333400002", NewUserID(now, taken))
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 10, 11, 30, 0, 5e6, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2024-05-10T09:30:00.005Z", FormatTimestamp(at))
}
