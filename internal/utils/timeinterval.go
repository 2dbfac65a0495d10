package utils

import "time"

// IntervalTimer is a stoppable periodic task.
type IntervalTimer interface {
	Stop()
}

type timeInterval struct {
	quit chan struct{}
}

func (t *timeInterval) Stop() {
	close(t.quit)
}

// SetIntervalTimer calls function every duration until Stop. The function
// runs on its own goroutine; overlapping runs are not possible since each
// tick waits for the previous call to return.
func SetIntervalTimer(duration time.Duration, function func()) IntervalTimer {
	ticker := time.NewTicker(duration)
	quit := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				function()
			case <-quit:
				return
			}
		}
	}()
	return &timeInterval{quit: quit}
}
