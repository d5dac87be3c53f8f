package post

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiryHelpers(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		age     time.Duration
		days    int
		expired bool
		left    int
	}{
		{"fresh", time.Hour, 0, false, 30},
		{"almost a day", 23*time.Hour + 59*time.Minute, 0, false, 30},
		{"one day", 24 * time.Hour, 1, false, 29},
		{"day 29", 29*24*time.Hour + 23*time.Hour, 29, false, 1},
		{"exactly 30", 30 * 24 * time.Hour, 30, true, 0},
		{"old", 45 * 24 * time.Hour, 45, true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created := now.Add(-tc.age)
			assert.Equal(t, tc.days, AgeInDays(created, now))
			assert.Equal(t, tc.expired, IsExpired(created, now, DefaultRetentionDays))
			assert.Equal(t, tc.left, DaysUntilExpiration(created, now, DefaultRetentionDays))

			// the two helpers always agree
			assert.Equal(t, AgeInDays(created, now) >= 30, IsExpired(created, now, 30))
		})
	}
}

func TestAgeInDays_FutureTimestamp(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 2, AgeInDays(now.Add(48*time.Hour+time.Minute), now))
}

func TestCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
		assert.NotEqual(t, string(c), c.LabelNe())
	}
	assert.False(t, CategoryAll.Valid())
	assert.False(t, Category("weather").Valid())
	assert.Equal(t, "खेलकुद", CategorySports.LabelNe())
	assert.Equal(t, "सबै समाचार", CategoryAll.LabelNe())
	assert.Equal(t, "weather", Category("weather").LabelNe())
}
