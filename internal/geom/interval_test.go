package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalContains(t *testing.T) {
	iv := Interval{Start: 100, End: 200}
	assert.True(t, iv.Contains(100))
	assert.True(t, iv.Contains(199))
	assert.False(t, iv.Contains(200), "end is exclusive")
	assert.False(t, iv.Contains(99))
	assert.Equal(t, int64(100), iv.Duration())
}

func TestIntervalOverlapsAndIntersect(t *testing.T) {
	a := Interval{0, 1000}
	assert.True(t, a.Overlaps(Interval{999, 2000}))
	assert.False(t, a.Overlaps(Interval{1000, 2000}), "touching intervals do not overlap")
	assert.Equal(t, Interval{900, 1000}, a.Intersect(Interval{900, 1100}))
	assert.True(t, a.Intersect(Interval{2000, 3000}).Empty())
}

func TestCheckDisjoint(t *testing.T) {
	require.NoError(t, CheckDisjoint(nil))
	require.NoError(t, CheckDisjoint([]Interval{{500, 600}, {0, 100}, {100, 200}}))
	assert.Error(t, CheckDisjoint([]Interval{{0, 150}, {100, 200}}))
	assert.Error(t, CheckDisjoint([]Interval{{300, 200}}))
}

func TestSearchFrom(t *testing.T) {
	ts := []int64{0, 100, 200, 300}
	id := func(v int64) int64 { return v }
	assert.Equal(t, 0, SearchFrom(ts, id, -5))
	assert.Equal(t, 1, SearchFrom(ts, id, 100))
	assert.Equal(t, 2, SearchFrom(ts, id, 101))
	assert.Equal(t, 4, SearchFrom(ts, id, 301))
	assert.Equal(t, 0, SearchFrom([]int64(nil), id, 0))
}
