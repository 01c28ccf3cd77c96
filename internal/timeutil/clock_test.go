package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClockNow(t *testing.T) {
	before := time.Now()
	now := RealClock{}.Now()
	assert.False(t, now.Before(before))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), c.Now())

	c.Sleep(20 * time.Millisecond)
	c.Sleep(40 * time.Millisecond)
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 40 * time.Millisecond}, c.Sleeps())
	assert.Equal(t, start.Add(time.Minute+60*time.Millisecond), c.Now())
}
