// Package agenda derives scheduling views from appointment lists: the
// per-day agenda, the week grid, chair occupancy and the dashboard
// summary. Everything here is a pure projection over already-fetched
// records; nothing talks to the network.
package agenda

import (
	"math"
	"sort"
	"time"

	"github.com/dentalcare/console/internal/clinic"
)

// DayAppointments returns the appointments on the given date, ordered by
// time. Times are zero-padded HH:MM, so the lexicographic sort is also
// the chronological one.
func DayAppointments(appts []clinic.Appointment, date string) []clinic.Appointment {
	out := make([]clinic.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Occupancy is one day's chair utilisation against the slot grid.
type Occupancy struct {
	Date      string `json:"date"`
	Occupied  int    `json:"occupied"`
	Capacity  int    `json:"capacity"`
	Available int    `json:"available"`
	// Rate is a rounded percentage. Double bookings are legal, so it can
	// exceed 100.
	Rate int `json:"rate"`
}

// ComputeOccupancy counts the day's appointments against the slot list.
// Available never goes negative; Rate is 0 on a zero-capacity grid.
func ComputeOccupancy(appts []clinic.Appointment, date string, slots []string) Occupancy {
	occ := Occupancy{Date: date, Capacity: len(slots)}
	for _, a := range appts {
		if a.Date == date {
			occ.Occupied++
		}
	}
	occ.Available = occ.Capacity - occ.Occupied
	if occ.Available < 0 {
		occ.Available = 0
	}
	if occ.Capacity > 0 {
		occ.Rate = int(math.Round(100 * float64(occ.Occupied) / float64(occ.Capacity)))
	}
	return occ
}

// Day is one column of the week grid.
type Day struct {
	Date         string               `json:"date"`
	Weekday      string               `json:"weekday"`
	Appointments []clinic.Appointment `json:"appointments"`
}

// WeekGrid lays out the seven days of the week containing date. Weeks
// start on Sunday unless weekStartsMonday is set.
func WeekGrid(appts []clinic.Appointment, date string, weekStartsMonday bool) ([]Day, error) {
	anchor, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, err
	}

	offset := int(anchor.Weekday()) // days since Sunday
	if weekStartsMonday {
		offset = (offset + 6) % 7 // days since Monday
	}
	start := anchor.AddDate(0, 0, -offset)

	days := make([]Day, 7)
	for i := range days {
		d := start.AddDate(0, 0, i)
		ds := d.Format("2006-01-02")
		days[i] = Day{
			Date:         ds,
			Weekday:      d.Weekday().String(),
			Appointments: DayAppointments(appts, ds),
		}
	}
	return days, nil
}

// FreeSlots returns the slot times with no appointment on the given day,
// preserving grid order. Informational only: taking a listed slot is not
// enforced anywhere.
func FreeSlots(appts []clinic.Appointment, date string, slots []string) []string {
	taken := make(map[string]bool)
	for _, a := range appts {
		if a.Date == date {
			taken[clinic.NormalizeTime(a.Time)] = true
		}
	}
	free := make([]string, 0, len(slots))
	for _, s := range slots {
		if !taken[s] {
			free = append(free, s)
		}
	}
	return free
}

// Summary is the dashboard block: clinic-wide totals for the landing view.
type Summary struct {
	TotalPatients      int            `json:"totalPatients"`
	TodayAppointments  int            `json:"todayAppointments"`
	PendingBudgets     int            `json:"pendingBudgets"`
	CompletedThisMonth int            `json:"completedThisMonth"`
	BudgetTotalValue   float64        `json:"budgetTotalValue"`
	BudgetsByStatus    map[string]int `json:"budgetsByStatus"`
}

// BuildSummary derives the dashboard numbers for the given day.
// CompletedThisMonth counts completed budgets dated in today's month.
func BuildSummary(patients []clinic.Patient, appts []clinic.Appointment, budgets []clinic.Budget, today time.Time) Summary {
	s := Summary{
		TotalPatients:   len(patients),
		BudgetsByStatus: make(map[string]int),
	}

	todayStr := today.Format("2006-01-02")
	for _, a := range appts {
		if a.Date == todayStr {
			s.TodayAppointments++
		}
	}

	monthPrefix := today.Format("2006-01")
	for _, b := range budgets {
		s.BudgetsByStatus[b.Status]++
		s.BudgetTotalValue += b.Value
		if b.Status == clinic.BudgetPending {
			s.PendingBudgets++
		}
		if b.Status == clinic.BudgetCompleted && len(b.Date) >= 7 && b.Date[:7] == monthPrefix {
			s.CompletedThisMonth++
		}
	}
	return s
}
