package clinic

import (
	"testing"
	"time"
)

func TestNewBudget_Defaults(t *testing.T) {
	now := time.Date(2024, 12, 20, 15, 30, 0, 0, time.UTC)
	b := NewBudget(now)

	if b.Status != BudgetPending {
		t.Errorf("status = %q, want %q", b.Status, BudgetPending)
	}
	if b.Date != "2024-12-20" {
		t.Errorf("date = %q, want 2024-12-20", b.Date)
	}
	if b.ValidUntil != "2025-01-19" {
		t.Errorf("validUntil = %q, want 2025-01-19 (30 days out)", b.ValidUntil)
	}
	if b.ID != 0 {
		t.Errorf("new budget must not carry an id, got %d", b.ID)
	}
}

func TestNewProfessional_Defaults(t *testing.T) {
	p := NewProfessional()
	if p.Status != StatusActive {
		t.Errorf("status = %q, want %q", p.Status, StatusActive)
	}
	if p.YearsExperience != 0 {
		t.Errorf("experience = %d, want 0", p.YearsExperience)
	}
}

func TestNewAppointment_CarriesSelectedDate(t *testing.T) {
	a := NewAppointment("2024-12-25")
	if a.Date != "2024-12-25" {
		t.Errorf("date = %q, want the selected day", a.Date)
	}
	if a.Time != "" || a.PatientID != 0 {
		t.Error("time and patient must start unset")
	}
}

func TestMissing(t *testing.T) {
	cases := []struct {
		name string
		rec  interface{ Missing() []string }
		want int
	}{
		{"empty patient", Patient{}, 2},
		{"patient without name", Patient{TaxID: "52998224725"}, 1},
		{"complete patient", Patient{Name: "Maria Silva", TaxID: "52998224725"}, 0},
		{"empty professional", Professional{}, 3},
		{"complete professional", Professional{Name: "Dr. João", CRM: "CRO-SP 12345", Specialty: "Endodontia"}, 0},
		{"empty procedure", Procedure{}, 1},
		{"appointment without patient", Appointment{Date: "2024-12-25", Time: "09:00"}, 1},
		{"complete appointment", Appointment{Date: "2024-12-25", Time: "09:00", PatientID: 1}, 0},
		{"budget without patient and date", Budget{Name: "ORC-001"}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rec.Missing(); len(got) != tc.want {
				t.Errorf("Missing() = %v, want %d entries", got, tc.want)
			}
		})
	}
}

func TestSearchText_AlwaysIncludesName(t *testing.T) {
	p := Patient{Name: "Maria Silva", TaxID: "52998224725"}
	found := false
	for _, s := range p.SearchText() {
		if s == "Maria Silva" {
			found = true
		}
	}
	if !found {
		t.Error("patient search text must include the name")
	}

	prof := Professional{Name: "Dra. Ana", CRM: "CRO-SP 67890", Specialty: "Endodontia"}
	if len(prof.SearchText()) != 3 {
		t.Errorf("professional searches name, license and specialty, got %v", prof.SearchText())
	}
}
