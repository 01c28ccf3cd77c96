package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplesEvery returns timestamps 0, step, 2*step ... below end together
// with validity flags that are false inside any of the bad intervals.
func samplesEvery(step, end int64, bad ...Interval) ([]int64, []bool) {
	var ts []int64
	var valid []bool
	for t := int64(0); t < end; t += step {
		ok := true
		for _, b := range bad {
			if b.Contains(t) {
				ok = false
			}
		}
		ts = append(ts, t)
		valid = append(valid, ok)
	}
	return ts, valid
}

func TestFindGaps(t *testing.T) {
	ts, valid := samplesEvery(100, 1000, Interval{400, 900})
	gaps := FindGaps(ts, valid, 1000)

	require.Len(t, gaps, 1)
	assert.Equal(t, Interval{400, 900}, gaps[0].Interval)
	assert.Equal(t, 5, gaps[0].Samples)
}

func TestFindGaps_OpenAtEnd(t *testing.T) {
	ts, valid := samplesEvery(100, 1000, Interval{100, 200}, Interval{700, 1000})
	gaps := FindGaps(ts, valid, 1000)

	require.Len(t, gaps, 2)
	assert.Equal(t, Interval{100, 200}, gaps[0].Interval)
	assert.Equal(t, Interval{700, 1000}, gaps[1].Interval)
	assert.Equal(t, 3, gaps[1].Samples)
}

func TestFindGaps_AllValid(t *testing.T) {
	ts, valid := samplesEvery(100, 1000)
	assert.Empty(t, FindGaps(ts, valid, 1000))
}

func TestLargestGap(t *testing.T) {
	_, ok := LargestGap(nil)
	assert.False(t, ok)

	gaps := []Gap{
		{Interval: Interval{0, 100}},
		{Interval: Interval{200, 500}},
		{Interval: Interval{600, 900}},
	}
	largest, ok := LargestGap(gaps)
	require.True(t, ok)
	assert.Equal(t, Interval{200, 500}, largest.Interval, "ties resolve to the earliest gap")
}

func TestTotalDuration(t *testing.T) {
	gaps := []Gap{
		{Interval: Interval{0, 100}},
		{Interval: Interval{200, 500}},
	}
	assert.Equal(t, int64(400), TotalDuration(gaps, 0))
	assert.Equal(t, int64(300), TotalDuration(gaps, 100))
	assert.Equal(t, int64(0), TotalDuration(gaps, 300))
}
