package services

import "time"

// Clock abstracts the wall clock so the reminder tracker and the midnight
// scheduler can be tested with a controllable time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }
