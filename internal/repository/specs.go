package repository

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dentalcare/console/internal/clinic"
	"github.com/dentalcare/console/internal/platform/rest"
)

// referenceCollections are fetched alongside schedules and budgets so their
// foreign keys resolve to display names in the same cycle.
var referenceCollections = []AuxCollection{
	{Key: "patients", Path: "/patients/"},
	{Key: "professionals", Path: "/professionals/"},
	{Key: "procedures", Path: "/procedures/"},
}

func Patients(c *rest.Client, log zerolog.Logger) *Repository[clinic.Patient] {
	return New(c, Spec[clinic.Patient]{
		Kind: "patients",
		Path: "/patients/",
		Decode: func(primary []byte, _ map[string][]byte) ([]clinic.Patient, error) {
			return clinic.DecodePatients(primary)
		},
		Payload:   clinic.PatientPayload,
		Duplicate: isTaxIDConflict,
	}, log)
}

func Professionals(c *rest.Client, log zerolog.Logger) *Repository[clinic.Professional] {
	return New(c, Spec[clinic.Professional]{
		Kind: "professionals",
		Path: "/professionals/",
		Decode: func(primary []byte, _ map[string][]byte) ([]clinic.Professional, error) {
			return clinic.DecodeProfessionals(primary)
		},
		Payload: clinic.ProfessionalPayload,
	}, log)
}

func Procedures(c *rest.Client, log zerolog.Logger) *Repository[clinic.Procedure] {
	return New(c, Spec[clinic.Procedure]{
		Kind: "procedures",
		Path: "/procedures/",
		Decode: func(primary []byte, _ map[string][]byte) ([]clinic.Procedure, error) {
			return clinic.DecodeProcedures(primary)
		},
		Payload: clinic.ProcedurePayload,
	}, log)
}

func Schedules(c *rest.Client, log zerolog.Logger) *Repository[clinic.Appointment] {
	return New(c, Spec[clinic.Appointment]{
		Kind: "schedules",
		Path: "/schedules/",
		Aux:  referenceCollections,
		Decode: func(primary []byte, aux map[string][]byte) ([]clinic.Appointment, error) {
			refs, err := clinic.BuildReferences(aux)
			if err != nil {
				return nil, err
			}
			return clinic.DecodeSchedules(primary, refs)
		},
		Payload: clinic.SchedulePayload,
	}, log)
}

func Budgets(c *rest.Client, log zerolog.Logger) *Repository[clinic.Budget] {
	return New(c, Spec[clinic.Budget]{
		Kind: "budgets",
		Path: "/budgets/",
		Aux:  referenceCollections,
		Decode: func(primary []byte, aux map[string][]byte) ([]clinic.Budget, error) {
			refs, err := clinic.BuildReferences(aux)
			if err != nil {
				return nil, err
			}
			return clinic.DecodeBudgets(primary, refs)
		},
		Payload: clinic.BudgetPayload,
	}, log)
}

// isTaxIDConflict recognizes the server's cpf uniqueness rejection: either
// a plain 409 or a 400 whose body names the cpf field.
func isTaxIDConflict(e *rest.APIError) bool {
	if e.StatusCode == http.StatusConflict {
		return true
	}
	if e.StatusCode != http.StatusBadRequest {
		return false
	}
	body := strings.ToLower(e.Body)
	return strings.Contains(body, "cpf") &&
		(strings.Contains(body, "exist") || strings.Contains(body, "unique") || strings.Contains(body, "duplicate"))
}
