package appointments

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime = errors.New("time must be HH:MM")
)

// Decompose parte un instante en fecha y hora de pared en loc.
// Es lo que ve el usuario al editar un turno.
func Decompose(t time.Time, loc *time.Location) (date, clock string) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return local.Format(DateLayout), local.Format(TimeLayout)
}

// Compose toma fecha + hora como hora de pared en loc y devuelve el instante UTC.
// La corrección es explícita: se lee la hora como si fuera UTC y se le resta
// el offset que tiene loc en ese momento.
func Compose(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	c, err := time.Parse(TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}

	wall := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC)

	// offset vigente en loc para esa hora de pared (DST incluido)
	_, offset := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc).Zone()
	return wall.Add(-time.Duration(offset) * time.Second), nil
}
