package preview

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/odvcencio/furry-store/store"
)

// Clock is a readable store of the current time. Its ticker only runs
// while the clock has subscribers.
type Clock struct {
	*store.Store[time.Time]
	interval time.Duration
	running  atomic.Int32
}

// NewClock creates a clock that publishes every interval.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	c := &Clock{interval: interval}
	c.Store = store.NewReadable(time.Now(), c.start,
		store.WithName[time.Time]("clock"),
		store.WithEqual(func(a, b time.Time) bool { return a.Equal(b) }),
	)
	return c
}

// Running reports how many ticker goroutines are alive.
func (c *Clock) Running() int {
	return int(c.running.Load())
}

func (c *Clock) start(publish func(time.Time)) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(c.interval)
	c.running.Add(1)
	glog.V(2).Infof("clock: ticking every %s", c.interval)

	publish(time.Now())
	go func() {
		defer c.running.Add(-1)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				publish(now)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
