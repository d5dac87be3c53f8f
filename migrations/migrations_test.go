package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	all, err := Load()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)

	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "init", all[0].Name)
	for _, table := range []string{"admin_users", "admin_sessions", "news_posts", "advertisements", "ad_analytics", "newsletter_subscribers"} {
		assert.Contains(t, all[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, all[1].SQL, "device_id")
}

func TestLoad_SortsAndRejectsBadNames(t *testing.T) {
	all, err := load(fstest.MapFS{
		"0010_later.up.sql":  {Data: []byte("SELECT 10;")},
		"0002_second.up.sql": {Data: []byte("SELECT 2;")},
	})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []int{2, 10}, []int{all[0].Version, all[1].Version})

	_, err = load(fstest.MapFS{"abc.up.sql": {Data: []byte("x")}})
	assert.ErrorIs(t, err, ErrBadName)

	_, err = load(fstest.MapFS{
		"0001_a.up.sql": {Data: []byte("x")},
		"1_b.up.sql":    {Data: []byte("y")},
	})
	assert.ErrorContains(t, err, "duplicate migration version 1")
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: 1}, {Version: 2}, {Version: 3}}
	got := Pending(all, map[int]bool{1: true, 3: true})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Version)
	assert.Empty(t, Pending(all, map[int]bool{1: true, 2: true, 3: true}))
}
