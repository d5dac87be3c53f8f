package ad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCTR(t *testing.T) {
	assert.Equal(t, 0.0, CTR(0, 0))
	assert.Equal(t, 0.0, CTR(0, 17))
	assert.Equal(t, 5.0, CTR(100, 5))
	assert.Equal(t, 33.33, CTR(3, 1))
	assert.Equal(t, 66.67, CTR(3, 2))
}

func TestIsServable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		ad   Advertisement
		want error
	}{
		{"active open window", Advertisement{Status: StatusActive}, nil},
		{"active in window", Advertisement{Status: StatusActive, StartDate: &past, EndDate: &future}, nil},
		{"paused", Advertisement{Status: StatusPaused}, ErrAdNotActive},
		{"draft", Advertisement{Status: StatusDraft, StartDate: &past}, ErrAdNotActive},
		{"expired status", Advertisement{Status: StatusExpired}, ErrAdNotActive},
		{"not started", Advertisement{Status: StatusActive, StartDate: &future}, ErrAdNotStarted},
		{"ended", Advertisement{Status: StatusActive, EndDate: &past}, ErrAdExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, servability(&tc.ad, now))
			assert.Equal(t, tc.want == nil, IsServable(&tc.ad, now))
		})
	}
}

func TestRangeSince(t *testing.T) {
	now := time.Now()

	since, err := Range1d.Since(now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-24*time.Hour), *since)

	since, err = Range("").Since(now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), *since)

	since, err = RangeAll.Since(now)
	require.NoError(t, err)
	assert.Nil(t, since)

	_, err = Range("90d").Since(now)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
