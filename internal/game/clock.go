package game

import "time"

// Clock is the time source for the call/catch window.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads wall-clock time.
var SystemClock Clock = systemClock{}
