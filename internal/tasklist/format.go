package tasklist

import (
	"fmt"
	"time"
)

// DateTimeLayout renders as "Oct 18, 2026, 03:04 PM".
const DateTimeLayout = "Jan 2, 2006, 03:04 PM"

type Formatter struct {
	loc *time.Location
}

func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{loc: loc}
}

func LoadFormatter(timeZone string) (Formatter, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return Formatter{}, fmt.Errorf("failed to load time zone: %w", err)
	}
	return NewFormatter(loc), nil
}

func (f Formatter) Format(t time.Time) string {
	loc := f.loc
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateTimeLayout)
}

func (f Formatter) Location() *time.Location {
	if f.loc == nil {
		return time.Local
	}
	return f.loc
}
