package ports

import "time"

// Scheduler runs fn once after d. The returned cancel func stops a pending run
// and reports whether it did.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func() bool)
}

// RealScheduler schedules with time.AfterFunc.
type RealScheduler struct{}

func (RealScheduler) After(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
