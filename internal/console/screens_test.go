package console

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentalcare/console/internal/clinic"
)

func TestProcedureScreen_OpensRowsInEditMode(t *testing.T) {
	c := NewController(ProcedureScreen(nil, nil, zerolog.Nop()))
	c.OpenExisting(clinic.Procedure{ID: 7, Name: "Limpeza Dental"})
	if c.Mode() != ModeEdit {
		t.Errorf("mode = %v, procedures have no read-only view", c.Mode())
	}
}

func TestAppointmentScreen_SeedsSelectedAgendaDate(t *testing.T) {
	selected := "2024-12-25"
	screen := AppointmentScreen(nil, func() string { return selected }, nil, zerolog.Nop())
	screen.Now = func() time.Time { return time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC) }

	c := NewController(screen)
	c.OpenNew()
	appt, ok := c.Selected()
	if !ok {
		t.Fatal("no working copy after OpenNew")
	}
	if appt.Date != "2024-12-25" {
		t.Errorf("date = %q, want the selected agenda date", appt.Date)
	}

	// Without a selection the form falls back to today.
	selected = ""
	c = NewController(screen)
	c.OpenNew()
	appt, _ = c.Selected()
	if appt.Date != "2024-12-20" {
		t.Errorf("date = %q, want today as the fallback", appt.Date)
	}
}

func TestBudgetScreen_DefaultsFlowThroughOpenNew(t *testing.T) {
	screen := BudgetScreen(nil, nil, zerolog.Nop())
	screen.Now = func() time.Time { return time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC) }

	c := NewController(screen)
	c.OpenNew()
	b, ok := c.Selected()
	if !ok {
		t.Fatal("no working copy after OpenNew")
	}
	if b.Status != "PENDING" {
		t.Errorf("status = %q, want PENDING", b.Status)
	}
	if b.Date != "2024-12-20" || b.ValidUntil != "2025-01-19" {
		t.Errorf("date = %q validUntil = %q, want today and today+30d", b.Date, b.ValidUntil)
	}
}
