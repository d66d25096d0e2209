package agenda

import (
	"testing"
	"time"

	"github.com/dentalcare/console/internal/clinic"
)

var defaultSlots = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	"18:00",
}

func appt(id int64, date, at string) clinic.Appointment {
	return clinic.Appointment{ID: id, Date: date, Time: at, PatientID: id}
}

func TestDayAppointments_FiltersAndSortsByTime(t *testing.T) {
	appts := []clinic.Appointment{
		appt(1, "2024-12-20", "14:30"),
		appt(2, "2024-12-21", "08:00"),
		appt(3, "2024-12-20", "08:30"),
		appt(4, "2024-12-20", "09:00"),
	}

	day := DayAppointments(appts, "2024-12-20")
	if len(day) != 3 {
		t.Fatalf("got %d appointments, want 3", len(day))
	}
	want := []string{"08:30", "09:00", "14:30"}
	for i, at := range want {
		if day[i].Time != at {
			t.Errorf("day[%d].Time = %q, want %q", i, day[i].Time, at)
		}
	}
	if len(appts) != 4 || appts[0].Time != "14:30" {
		t.Error("input slice must not be reordered")
	}
}

func TestDayAppointments_EmptyDay(t *testing.T) {
	if got := DayAppointments(nil, "2024-12-20"); len(got) != 0 {
		t.Errorf("empty input gave %v", got)
	}
}

func TestComputeOccupancy(t *testing.T) {
	day := "2024-12-20"
	book := func(n int) []clinic.Appointment {
		out := make([]clinic.Appointment, n)
		for i := range out {
			out[i] = appt(int64(i+1), day, defaultSlots[i%len(defaultSlots)])
		}
		return out
	}

	tests := []struct {
		name  string
		appts []clinic.Appointment
		slots []string
		want  Occupancy
	}{
		{
			name:  "empty day",
			slots: defaultSlots,
			want:  Occupancy{Date: day, Occupied: 0, Capacity: 17, Available: 17, Rate: 0},
		},
		{
			name:  "partial day rounds the rate",
			appts: book(5),
			slots: defaultSlots,
			want:  Occupancy{Date: day, Occupied: 5, Capacity: 17, Available: 12, Rate: 29},
		},
		{
			name:  "full day",
			appts: book(17),
			slots: defaultSlots,
			want:  Occupancy{Date: day, Occupied: 17, Capacity: 17, Available: 0, Rate: 100},
		},
		{
			name:  "double booking pushes the rate past 100",
			appts: book(20),
			slots: defaultSlots,
			want:  Occupancy{Date: day, Occupied: 20, Capacity: 17, Available: 0, Rate: 118},
		},
		{
			name:  "no slot grid",
			appts: book(3),
			slots: nil,
			want:  Occupancy{Date: day, Occupied: 3, Capacity: 0, Available: 0, Rate: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOccupancy(tt.appts, day, tt.slots)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.Occupied+got.Available < got.Capacity {
				t.Error("occupied + available must cover capacity")
			}
		})
	}
}

func TestWeekGrid_SundayFirst(t *testing.T) {
	// 2024-12-20 is a Friday; its Sunday-first week runs 12-15..12-21.
	appts := []clinic.Appointment{
		appt(1, "2024-12-15", "08:00"),
		appt(2, "2024-12-20", "09:00"),
		appt(3, "2024-12-20", "08:00"),
		appt(4, "2024-12-22", "10:00"), // next week
	}

	days, err := WeekGrid(appts, "2024-12-20", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	if days[0].Date != "2024-12-15" || days[0].Weekday != "Sunday" {
		t.Errorf("week starts at %s (%s), want Sunday 2024-12-15", days[0].Date, days[0].Weekday)
	}
	if days[6].Date != "2024-12-21" {
		t.Errorf("week ends at %s, want 2024-12-21", days[6].Date)
	}
	if len(days[5].Appointments) != 2 || days[5].Appointments[0].Time != "08:00" {
		t.Errorf("Friday column = %+v, want two sorted appointments", days[5].Appointments)
	}
	for _, d := range days {
		for _, a := range d.Appointments {
			if a.ID == 4 {
				t.Error("appointment from the following week leaked into the grid")
			}
		}
	}
}

func TestWeekGrid_MondayFirst(t *testing.T) {
	days, err := WeekGrid(nil, "2024-12-20", true)
	if err != nil {
		t.Fatal(err)
	}
	if days[0].Date != "2024-12-16" || days[0].Weekday != "Monday" {
		t.Errorf("week starts at %s (%s), want Monday 2024-12-16", days[0].Date, days[0].Weekday)
	}
	if days[6].Date != "2024-12-22" || days[6].Weekday != "Sunday" {
		t.Errorf("week ends at %s (%s), want Sunday 2024-12-22", days[6].Date, days[6].Weekday)
	}

	// A Sunday anchor must stay inside its Monday-first week, not start one.
	days, err = WeekGrid(nil, "2024-12-22", true)
	if err != nil {
		t.Fatal(err)
	}
	if days[0].Date != "2024-12-16" {
		t.Errorf("Sunday anchor gave week start %s, want 2024-12-16", days[0].Date)
	}
}

func TestWeekGrid_BadDate(t *testing.T) {
	if _, err := WeekGrid(nil, "20/12/2024", false); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestFreeSlots(t *testing.T) {
	appts := []clinic.Appointment{
		appt(1, "2024-12-20", "08:00"),
		appt(2, "2024-12-20", "09:00:00"), // server sends seconds; still blocks 09:00
		appt(3, "2024-12-21", "08:30"),    // other day
	}

	free := FreeSlots(appts, "2024-12-20", defaultSlots)
	if len(free) != 15 {
		t.Fatalf("got %d free slots, want 15", len(free))
	}
	for _, s := range free {
		if s == "08:00" || s == "09:00" {
			t.Errorf("taken slot %s still listed", s)
		}
	}
	if free[0] != "08:30" {
		t.Errorf("free[0] = %s, grid order must be preserved", free[0])
	}
}

func TestBuildSummary(t *testing.T) {
	today := time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)
	patients := []clinic.Patient{{ID: 1}, {ID: 2}, {ID: 3}}
	appts := []clinic.Appointment{
		appt(1, "2024-12-20", "08:00"),
		appt(2, "2024-12-20", "09:00"),
		appt(3, "2024-12-21", "08:00"),
	}
	budgets := []clinic.Budget{
		{ID: 1, Status: clinic.BudgetPending, Value: 100, Date: "2024-12-01"},
		{ID: 2, Status: clinic.BudgetPending, Value: 250.50, Date: "2024-12-10"},
		{ID: 3, Status: clinic.BudgetCompleted, Value: 300, Date: "2024-12-05"},
		{ID: 4, Status: clinic.BudgetCompleted, Value: 80, Date: "2024-11-28"}, // last month
		{ID: 5, Status: clinic.BudgetCancelled, Value: 999, Date: "2024-12-02"},
	}

	s := BuildSummary(patients, appts, budgets, today)
	if s.TotalPatients != 3 {
		t.Errorf("TotalPatients = %d, want 3", s.TotalPatients)
	}
	if s.TodayAppointments != 2 {
		t.Errorf("TodayAppointments = %d, want 2", s.TodayAppointments)
	}
	if s.PendingBudgets != 2 {
		t.Errorf("PendingBudgets = %d, want 2", s.PendingBudgets)
	}
	if s.CompletedThisMonth != 1 {
		t.Errorf("CompletedThisMonth = %d, want 1", s.CompletedThisMonth)
	}
	if s.BudgetTotalValue != 1729.50 {
		t.Errorf("BudgetTotalValue = %v, want 1729.50", s.BudgetTotalValue)
	}
	if s.BudgetsByStatus[clinic.BudgetPending] != 2 || s.BudgetsByStatus[clinic.BudgetCompleted] != 2 {
		t.Errorf("BudgetsByStatus = %v", s.BudgetsByStatus)
	}
}
