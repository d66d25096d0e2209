package clinic

import (
	"encoding/json"
	"fmt"
)

// Server-side field names differ from the view models (cpf vs taxId, cro vs
// crm, totalValue vs value, duration vs durationMinutes). The DTOs below are
// the only place that knows both vocabularies; mapping is explicit in each
// direction and nothing else in the program touches server field names.

type patientDTO struct {
	ID             int64  `json:"id,omitempty"`
	Name           string `json:"name"`
	CPF            string `json:"cpf"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	BirthDate      string `json:"birthDate"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medicalHistory"`
}

type professionalDTO struct {
	ID              int64  `json:"id,omitempty"`
	Name            string `json:"name"`
	CRO             string `json:"cro"`
	Specialty       string `json:"specialty"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	YearsExperience int    `json:"yearsExperience"`
	Status          string `json:"status"`
}

type procedureDTO struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	Specialty   string  `json:"specialty"`
	Description string  `json:"description"`
}

type scheduleDTO struct {
	ID           int64  `json:"id,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Patient      int64  `json:"patient"`
	Professional *int64 `json:"professional,omitempty"`
	Procedure    *int64 `json:"procedure,omitempty"`
}

type budgetDTO struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	TotalValue   float64 `json:"totalValue"`
	ValidUntil   string  `json:"validUntil"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
	Patient      int64   `json:"patient"`
	Professional *int64  `json:"professional,omitempty"`
	Procedure    *int64  `json:"procedure,omitempty"`
}

// DecodePatients maps a GET /patients/ body to view models.
func DecodePatients(raw []byte) ([]Patient, error) {
	var dtos []patientDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	out := make([]Patient, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, Patient{
			ID:             d.ID,
			Name:           d.Name,
			TaxID:          DigitsOnly(d.CPF),
			Phone:          DigitsOnly(d.Phone),
			Email:          d.Email,
			BirthDate:      d.BirthDate,
			Address:        d.Address,
			MedicalHistory: d.MedicalHistory,
		})
	}
	return out, nil
}

// PatientPayload maps a working copy to the server shape. The id is carried
// for updates and omitted for creates (zero id marshals away).
func PatientPayload(p Patient) any {
	return patientDTO{
		ID:             p.ID,
		Name:           p.Name,
		CPF:            DigitsOnly(p.TaxID),
		Phone:          DigitsOnly(p.Phone),
		Email:          p.Email,
		BirthDate:      p.BirthDate,
		Address:        p.Address,
		MedicalHistory: p.MedicalHistory,
	}
}

func DecodeProfessionals(raw []byte) ([]Professional, error) {
	var dtos []professionalDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode professionals: %w", err)
	}
	out := make([]Professional, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, Professional{
			ID:              d.ID,
			Name:            d.Name,
			CRM:             d.CRO,
			Specialty:       d.Specialty,
			Phone:           DigitsOnly(d.Phone),
			Email:           d.Email,
			Address:         d.Address,
			YearsExperience: d.YearsExperience,
			Status:          d.Status,
		})
	}
	return out, nil
}

func ProfessionalPayload(p Professional) any {
	return professionalDTO{
		ID:              p.ID,
		Name:            p.Name,
		CRO:             p.CRM,
		Specialty:       p.Specialty,
		Phone:           DigitsOnly(p.Phone),
		Email:           p.Email,
		Address:         p.Address,
		YearsExperience: p.YearsExperience,
		Status:          p.Status,
	}
}

func DecodeProcedures(raw []byte) ([]Procedure, error) {
	var dtos []procedureDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode procedures: %w", err)
	}
	out := make([]Procedure, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, Procedure{
			ID:              d.ID,
			Name:            d.Name,
			Price:           d.Price,
			DurationMinutes: d.Duration,
			Specialty:       d.Specialty,
			Description:     d.Description,
		})
	}
	return out, nil
}

func ProcedurePayload(p Procedure) any {
	return procedureDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Duration:    p.DurationMinutes,
		Specialty:   p.Specialty,
		Description: p.Description,
	}
}

// DecodeSchedules maps schedule entries and resolves their foreign keys
// against the reference collections fetched in the same cycle.
func DecodeSchedules(raw []byte, refs References) ([]Appointment, error) {
	var dtos []scheduleDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}
	out := make([]Appointment, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, Appointment{
			ID:               d.ID,
			Date:             d.Date,
			Time:             NormalizeTime(d.Time),
			PatientID:        d.Patient,
			ProfessionalID:   deref(d.Professional),
			ProcedureID:      deref(d.Procedure),
			PatientName:      refs.Patients.ResolveRequired(d.Patient),
			ProfessionalName: refs.Professionals.Resolve(d.Professional),
			ProcedureName:    refs.Procedures.Resolve(d.Procedure),
		})
	}
	return out, nil
}

func SchedulePayload(a Appointment) any {
	return scheduleDTO{
		ID:           a.ID,
		Date:         a.Date,
		Time:         a.Time,
		Patient:      a.PatientID,
		Professional: optional(a.ProfessionalID),
		Procedure:    optional(a.ProcedureID),
	}
}

func DecodeBudgets(raw []byte, refs References) ([]Budget, error) {
	var dtos []budgetDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode budgets: %w", err)
	}
	out := make([]Budget, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, Budget{
			ID:               d.ID,
			Name:             d.Name,
			Date:             d.Date,
			Value:            d.TotalValue,
			ValidUntil:       d.ValidUntil,
			Status:           d.Status,
			Notes:            d.Notes,
			PatientID:        d.Patient,
			ProfessionalID:   deref(d.Professional),
			ProcedureID:      deref(d.Procedure),
			PatientName:      refs.Patients.ResolveRequired(d.Patient),
			ProfessionalName: refs.Professionals.Resolve(d.Professional),
			ProcedureName:    refs.Procedures.Resolve(d.Procedure),
		})
	}
	return out, nil
}

func BudgetPayload(b Budget) any {
	return budgetDTO{
		ID:           b.ID,
		Name:         b.Name,
		Date:         b.Date,
		TotalValue:   b.Value,
		ValidUntil:   b.ValidUntil,
		Status:       b.Status,
		Notes:        b.Notes,
		Patient:      b.PatientID,
		Professional: optional(b.ProfessionalID),
		Procedure:    optional(b.ProcedureID),
	}
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func optional(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
