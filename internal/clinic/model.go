// Package clinic holds the console's view models for the five entity
// screens, their server field mappings, and the enrichment rules that turn
// foreign keys into display names.
package clinic

import "time"

// Professional status values.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusVacation = "VACATION"
)

// Budget status values.
const (
	BudgetPending    = "PENDING"
	BudgetInProgress = "IN_PROGRESS"
	BudgetCompleted  = "COMPLETED"
	BudgetCancelled  = "CANCELLED"
)

// Specialties offered by the clinic, used by the professional and procedure
// forms.
var Specialties = []string{
	"Clínica Geral",
	"Endodontia",
	"Ortodontia",
	"Cirurgia Oral",
	"Implantodontia",
	"Dentística",
	"Periodontia",
	"Odontopediatria",
}

// Record is what every view model satisfies. A zero id means the record has
// not been through the server yet; the client never assigns ids.
type Record interface {
	RecordID() int64
}

// Patient is the patient screen's view model. TaxID and Phone hold raw
// digits; display formatting is applied at render time.
type Patient struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	TaxID          string `json:"taxId"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	BirthDate      string `json:"birthDate"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medicalHistory"`
}

func (p Patient) RecordID() int64 { return p.ID }

// Missing lists required fields that are still empty.
func (p Patient) Missing() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.TaxID == "" {
		missing = append(missing, "taxId")
	}
	return missing
}

// SearchText returns the values the list filter matches against.
func (p Patient) SearchText() []string {
	return []string{p.Name, p.TaxID}
}

type Professional struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	CRM             string `json:"crm"`
	Specialty       string `json:"specialty"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	YearsExperience int    `json:"yearsExperience"`
	Status          string `json:"status"`
}

func (p Professional) RecordID() int64 { return p.ID }

func (p Professional) Missing() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.CRM == "" {
		missing = append(missing, "crm")
	}
	if p.Specialty == "" {
		missing = append(missing, "specialty")
	}
	return missing
}

func (p Professional) SearchText() []string {
	return []string{p.Name, p.CRM, p.Specialty}
}

type Procedure struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	Specialty       string  `json:"specialty"`
	Description     string  `json:"description"`
}

func (p Procedure) RecordID() int64 { return p.ID }

func (p Procedure) Missing() []string {
	if p.Name == "" {
		return []string{"name"}
	}
	return nil
}

func (p Procedure) SearchText() []string {
	return []string{p.Name, p.Specialty}
}

// Appointment is a schedule entry. Patient is required; professional and
// procedure may be unset (zero). The *Name fields are enrichment output and
// are never sent to the server.
type Appointment struct {
	ID               int64  `json:"id"`
	Date             string `json:"date"` // YYYY-MM-DD
	Time             string `json:"time"` // zero-padded HH:MM
	PatientID        int64  `json:"patientId"`
	ProfessionalID   int64  `json:"professionalId,omitempty"`
	ProcedureID      int64  `json:"procedureId,omitempty"`
	PatientName      string `json:"patientName"`
	ProfessionalName string `json:"professionalName"`
	ProcedureName    string `json:"procedureName"`
}

func (a Appointment) RecordID() int64 { return a.ID }

func (a Appointment) Missing() []string {
	var missing []string
	if a.Date == "" {
		missing = append(missing, "date")
	}
	if a.Time == "" {
		missing = append(missing, "time")
	}
	if a.PatientID == 0 {
		missing = append(missing, "patient")
	}
	return missing
}

func (a Appointment) SearchText() []string {
	return []string{a.PatientName, a.ProfessionalName, a.ProcedureName}
}

type Budget struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Date             string  `json:"date"`
	Value            float64 `json:"value"`
	ValidUntil       string  `json:"validUntil"`
	Status           string  `json:"status"`
	Notes            string  `json:"notes"`
	PatientID        int64   `json:"patientId"`
	ProfessionalID   int64   `json:"professionalId,omitempty"`
	ProcedureID      int64   `json:"procedureId,omitempty"`
	PatientName      string  `json:"patientName"`
	ProfessionalName string  `json:"professionalName"`
	ProcedureName    string  `json:"procedureName"`
}

func (b Budget) RecordID() int64 { return b.ID }

func (b Budget) Missing() []string {
	var missing []string
	if b.Name == "" {
		missing = append(missing, "name")
	}
	if b.Date == "" {
		missing = append(missing, "date")
	}
	if b.PatientID == 0 {
		missing = append(missing, "patient")
	}
	return missing
}

func (b Budget) SearchText() []string {
	return []string{b.Name, b.PatientName, b.ProfessionalName}
}

// NewPatient returns the defaulted working copy for the "new patient" form.
func NewPatient() Patient { return Patient{} }

func NewProfessional() Professional {
	return Professional{Status: StatusActive}
}

func NewProcedure() Procedure { return Procedure{} }

// NewAppointment defaults the date to the day selected in the calendar.
func NewAppointment(selectedDate string) Appointment {
	return Appointment{Date: selectedDate}
}

// NewBudget defaults status to PENDING, date to today and validity to 30
// days out, matching the quote policy.
func NewBudget(now time.Time) Budget {
	return Budget{
		Status:     BudgetPending,
		Date:       now.Format("2006-01-02"),
		ValidUntil: now.AddDate(0, 0, 30).Format("2006-01-02"),
	}
}
