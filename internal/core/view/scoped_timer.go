package view

import (
	"sync"
	"time"
)

// ScopedTimer - отменяемый индикатор занятости фиксированной длительности.
// Каждый Trigger отменяет предыдущий отложенный сброс, поэтому устаревший
// таймер не может снять флаг, выставленный более поздним Trigger.
type ScopedTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	busy     bool
	deadline time.Time
	now      func() time.Time
}

func NewScopedTimer() *ScopedTimer {
	return &ScopedTimer{now: time.Now}
}

// Trigger выставляет флаг занятости на d. При d <= 0 флаг сразу снимается.
func (t *ScopedTimer) Trigger(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if d <= 0 {
		return
	}

	t.gen++
	gen := t.gen
	t.busy = true
	t.deadline = t.now().Add(d)
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen != gen {
			return
		}
		t.busy = false
		t.timer = nil
	})
}

// Cancel отменяет отложенный сброс и снимает флаг.
func (t *ScopedTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *ScopedTimer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	// уже запущенный обратный вызов увидит новое поколение и ничего не сделает
	t.gen++
	t.busy = false
	t.deadline = time.Time{}
}

func (t *ScopedTimer) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Remaining возвращает оставшееся время занятости, 0 если флаг снят.
func (t *ScopedTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.busy {
		return 0
	}
	left := t.deadline.Sub(t.now())
	if left < 0 {
		return 0
	}
	return left
}
