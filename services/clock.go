package services

import (
	"time"

	"github.com/JBE10/lifeops/utils"
)

// Clock decides what "today" is. Tests swap Now for a fixed time.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) Today() utils.Day {
	return utils.DayKey(c.Now(), c.Location)
}
