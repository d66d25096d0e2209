package console

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dentalcare/console/internal/clinic"
)

// Confirm asks the operator to approve a destructive action. The shell
// decides how: browser dialog, terminal prompt, test stub.
type Confirm func(title, message string) bool

// The screen constructors below bind each entity to its workflow variant.
// Everything uses the shared dialog flow; the differences are the blank
// record defaults, the searchable fields and whether a row click opens
// read-only first.

func PatientScreen(r Repo[clinic.Patient], confirm Confirm, log zerolog.Logger) Screen[clinic.Patient] {
	return Screen[clinic.Patient]{
		Repo:       r,
		NewRecord:  func(time.Time) clinic.Patient { return clinic.NewPatient() },
		Missing:    clinic.Patient.Missing,
		SearchText: clinic.Patient.SearchText,
		Confirm:    confirm,
		Log:        log,
	}
}

func ProfessionalScreen(r Repo[clinic.Professional], confirm Confirm, log zerolog.Logger) Screen[clinic.Professional] {
	return Screen[clinic.Professional]{
		Repo:       r,
		NewRecord:  func(time.Time) clinic.Professional { return clinic.NewProfessional() },
		Missing:    clinic.Professional.Missing,
		SearchText: clinic.Professional.SearchText,
		Confirm:    confirm,
		Log:        log,
	}
}

// ProcedureScreen opens rows directly in edit mode; the procedure form has
// no read-only view.
func ProcedureScreen(r Repo[clinic.Procedure], confirm Confirm, log zerolog.Logger) Screen[clinic.Procedure] {
	return Screen[clinic.Procedure]{
		Repo:       r,
		NewRecord:  func(time.Time) clinic.Procedure { return clinic.NewProcedure() },
		Missing:    clinic.Procedure.Missing,
		SearchText: clinic.Procedure.SearchText,
		OpenInEdit: true,
		Confirm:    confirm,
		Log:        log,
	}
}

// AppointmentScreen seeds new entries with the agenda date the operator is
// looking at, not necessarily today.
func AppointmentScreen(r Repo[clinic.Appointment], selectedDate func() string, confirm Confirm, log zerolog.Logger) Screen[clinic.Appointment] {
	return Screen[clinic.Appointment]{
		Repo: r,
		NewRecord: func(now time.Time) clinic.Appointment {
			date := ""
			if selectedDate != nil {
				date = selectedDate()
			}
			if date == "" {
				date = now.Format("2006-01-02")
			}
			return clinic.NewAppointment(date)
		},
		Missing:    clinic.Appointment.Missing,
		SearchText: clinic.Appointment.SearchText,
		Confirm:    confirm,
		Log:        log,
	}
}

func BudgetScreen(r Repo[clinic.Budget], confirm Confirm, log zerolog.Logger) Screen[clinic.Budget] {
	return Screen[clinic.Budget]{
		Repo:       r,
		NewRecord:  clinic.NewBudget,
		Missing:    clinic.Budget.Missing,
		SearchText: clinic.Budget.SearchText,
		Confirm:    confirm,
		Log:        log,
	}
}
