package application

import "time"

// DateLayout is the DD/MM/YYYY form the model compares expiry dates against.
const DateLayout = "02/01/2006"

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Today formats the clock's current date as DD/MM/YYYY.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}
