package model

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(3 * time.Second)
	if got := c.GetTimeUsed(); got != 3*time.Second {
		t.Errorf("running GetTimeUsed() = %v; want 3s", got)
	}

	c.Stop()
	now = now.Add(10 * time.Second)
	if got := c.GetTimeUsed(); got != 3*time.Second {
		t.Errorf("stopped GetTimeUsed() = %v; want 3s", got)
	}

	c.Start()
	c.Start()
	now = now.Add(2 * time.Second)
	c.Stop()
	c.Stop()
	if got := c.GetTimeUsed(); got != 5*time.Second {
		t.Errorf("GetTimeUsed() = %v; want 5s", got)
	}

	c.Reset()
	if got := c.GetTimeUsed(); got != 0 {
		t.Errorf("GetTimeUsed() after Reset = %v; want 0", got)
	}
}
