package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScopedTimer_ClearsAfterDuration(t *testing.T) {
	timer := NewScopedTimer()
	timer.Trigger(30 * time.Millisecond)

	assert.True(t, timer.Busy())
	assert.Greater(t, timer.Remaining(), time.Duration(0))
	assert.LessOrEqual(t, timer.Remaining(), 30*time.Millisecond)

	assert.Eventually(t, func() bool { return !timer.Busy() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, time.Duration(0), timer.Remaining())
}

func TestScopedTimer_RetriggerCancelsPendingClear(t *testing.T) {
	timer := NewScopedTimer()
	timer.Trigger(40 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	timer.Trigger(300 * time.Millisecond)
	// первый таймер истек бы здесь, но он отменен
	time.Sleep(60 * time.Millisecond)
	assert.True(t, timer.Busy())

	timer.Cancel()
	assert.False(t, timer.Busy())
}

func TestScopedTimer_NonPositiveDuration(t *testing.T) {
	timer := NewScopedTimer()
	timer.Trigger(time.Hour)
	timer.Trigger(0)

	assert.False(t, timer.Busy())
	assert.Equal(t, time.Duration(0), timer.Remaining())
}

func TestScopedTimer_RemainingUsesClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	timer := NewScopedTimer()
	timer.now = func() time.Time { return now }

	timer.Trigger(time.Hour)
	now = now.Add(20 * time.Minute)
	assert.Equal(t, 40*time.Minute, timer.Remaining())

	timer.Cancel()
}
