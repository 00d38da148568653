package appointments

import (
	"sort"
	"time"
)

// Cantidad de turnos visibles por celda; el resto se informa en Overflow.
const calendarVisiblePerDay = 3

type CalendarEvent struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Customer string `json:"customer"`
	Pet      string `json:"pet"`
	Doctor   string `json:"doctor"`
}

type CalendarDay struct {
	Day      int             `json:"day"`
	Date     string          `json:"date"`
	Today    bool            `json:"today"`
	Events   []CalendarEvent `json:"events"`
	Overflow int             `json:"overflow"`
}

// Month es la grilla de un mes. Leading = celdas vacías antes del día 1
// (0 = domingo).
type Month struct {
	Year    int           `json:"year"`
	Month   time.Month    `json:"month"`
	Leading int           `json:"leading"`
	Days    []CalendarDay `json:"days"`
}

// Calendar arma la grilla de year/month en loc con todos los turnos válidos
// (no solo los futuros). today se marca según now.
func Calendar(all []Appointment, year int, month time.Month, now time.Time, loc *time.Location) Month {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysIn := first.AddDate(0, 1, -1).Day()

	byDay := make(map[int][]Appointment)
	for _, a := range all {
		if !a.Date.Valid {
			continue
		}
		local := a.Date.Time.In(loc)
		if local.Year() != year || local.Month() != month {
			continue
		}
		byDay[local.Day()] = append(byDay[local.Day()], a)
	}

	ny, nm, nd := now.In(loc).Date()

	m := Month{
		Year:    year,
		Month:   month,
		Leading: int(first.Weekday()),
		Days:    make([]CalendarDay, 0, daysIn),
	}
	for day := 1; day <= daysIn; day++ {
		items := byDay[day]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Date.Time.Before(items[j].Date.Time)
		})

		cell := CalendarDay{
			Day:    day,
			Date:   time.Date(year, month, day, 0, 0, 0, 0, loc).Format(DateLayout),
			Today:  ny == year && nm == month && nd == day,
			Events: make([]CalendarEvent, 0, calendarVisiblePerDay),
		}
		for i, a := range items {
			if i >= calendarVisiblePerDay {
				cell.Overflow = len(items) - calendarVisiblePerDay
				break
			}
			date, clock := Decompose(a.Date.Time, loc)
			cell.Events = append(cell.Events, CalendarEvent{
				ID:       a.ID,
				Date:     date,
				Time:     clock,
				Customer: a.Pet.Owner.FullName(),
				Pet:      a.Pet.Name,
				Doctor:   a.Doctor.Name,
			})
		}
		m.Days = append(m.Days, cell)
	}
	return m
}
