package appointments

import (
	"sort"
	"time"
)

// Future devuelve los turnos con fecha >= now, ordenados por fecha ascendente.
// Empates: se respeta el orden en que llegaron de la API (sort estable).
// Turnos sin fecha válida quedan afuera.
func Future(all []Appointment, now time.Time) []Appointment {
	out := make([]Appointment, 0, len(all))
	for _, a := range all {
		if !a.Date.Valid || a.Date.Time.Before(now) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Time.Before(out[j].Date.Time)
	})
	return out
}

// Today filtra future por el día calendario de now en su propia zona.
// La zona de now define "hoy"; el resto de las comparaciones son en tiempo absoluto.
func Today(future []Appointment, now time.Time) []Appointment {
	out := make([]Appointment, 0)
	for _, a := range future {
		if a.Date.Valid && sameDay(a.Date.Time, now) {
			out = append(out, a)
		}
	}
	return out
}

// NextDays devuelve los turnos futuros que caen antes de now + days*24h.
func NextDays(future []Appointment, now time.Time, days int) []Appointment {
	limit := now.Add(time.Duration(days) * 24 * time.Hour)
	out := make([]Appointment, 0)
	for _, a := range future {
		if a.Date.Valid && a.Date.Time.Before(limit) {
			out = append(out, a)
		}
	}
	return out
}

// DistinctPets cuenta mascotas distintas referenciadas por la colección.
func DistinctPets(all []Appointment) int {
	seen := make(map[string]struct{}, len(all))
	for _, a := range all {
		if a.Pet.ID == "" {
			continue
		}
		seen[a.Pet.ID] = struct{}{}
	}
	return len(seen)
}

// Summary alimenta las tarjetas del dashboard.
type Summary struct {
	Today         int `json:"today"`
	Future        int `json:"future"`
	DistinctPets  int `json:"distinct_pets"`
	NextSevenDays int `json:"next_seven_days"`
}

func Summarize(all []Appointment, now time.Time) Summary {
	future := Future(all, now)
	return Summary{
		Today:         len(Today(future, now)),
		Future:        len(future),
		DistinctPets:  DistinctPets(all),
		NextSevenDays: len(NextDays(future, now, 7)),
	}
}

// Row es una fila de la tabla de turnos, con fecha y hora ya en la zona local.
type Row struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Customer  string `json:"customer"`
	OwnerID   string `json:"owner_id"`
	PetID     string `json:"pet_id"`
	Pet       string `json:"pet"`
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
	Doctor    string `json:"doctor"`
}

func Rows(list []Appointment, loc *time.Location) []Row {
	out := make([]Row, 0, len(list))
	for _, a := range list {
		r := Row{
			ID:        a.ID,
			Customer:  a.Pet.Owner.FullName(),
			OwnerID:   a.Pet.Owner.ID,
			PetID:     a.Pet.ID,
			Pet:       a.Pet.Name,
			Diagnosis: a.Diagnosis,
			Treatment: a.Treatment,
			Doctor:    a.Doctor.Name,
		}
		if a.Date.Valid {
			r.Date, r.Time = Decompose(a.Date.Time, loc)
		}
		out = append(out, r)
	}
	return out
}

func sameDay(t, ref time.Time) bool {
	ty, tm, td := t.In(ref.Location()).Date()
	ry, rm, rd := ref.Date()
	return ty == ry && tm == rm && td == rd
}
