package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client represents a person under treatment at the practice.
type Client struct {
	ID                    uuid.UUID `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	Surname               string    `json:"surname" db:"surname"`
	Phone                 string    `json:"phone" db:"phone"`
	DNI                   string    `json:"dni" db:"dni"`
	BirthDate             string    `json:"birthDate" db:"birth_date"` // canonical YYYY-MM-DD
	Address               string    `json:"address" db:"address"`
	City                  string    `json:"city" db:"city"`
	PostalCode            string    `json:"postalCode" db:"postal_code"`
	Email                 string    `json:"email" db:"email"`
	Profession            string    `json:"profession" db:"profession"`
	Pathologies           string    `json:"pathologies" db:"pathologies"`
	SurgicalInterventions string    `json:"surgicalInterventions" db:"surgical_interventions"`
	Medication            string    `json:"medication" db:"medication"`
	FamilyHistory         string    `json:"familyHistory" db:"family_history"`
	ReasonForConsultation string    `json:"reasonForConsultation" db:"reason_for_consultation"`
	History               []Visit   `json:"history"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time `json:"updatedAt" db:"updated_at"`
}

// ClientInput carries every writable client field. It is the payload of a create.
type ClientInput struct {
	Name                  string `json:"name" validate:"required"`
	Surname               string `json:"surname" validate:"required"`
	Phone                 string `json:"phone" validate:"required,min=9"`
	DNI                   string `json:"dni" validate:"required,len=9"`
	BirthDate             string `json:"birthDate" validate:"required,isodate"`
	Address               string `json:"address" validate:"required"`
	City                  string `json:"city" validate:"required"`
	PostalCode            string `json:"postalCode" validate:"required,len=5"`
	Email                 string `json:"email" validate:"required,email"`
	Profession            string `json:"profession"`
	Pathologies           string `json:"pathologies"`
	SurgicalInterventions string `json:"surgicalInterventions"`
	Medication            string `json:"medication"`
	FamilyHistory         string `json:"familyHistory"`
	ReasonForConsultation string `json:"reasonForConsultation" validate:"required"`
}

// Normalize trims surrounding whitespace and rewrites BirthDate in canonical form when it parses.
func (in *ClientInput) Normalize() {
	for _, f := range []*string{
		&in.Name, &in.Surname, &in.Phone, &in.DNI, &in.BirthDate, &in.Address, &in.City,
		&in.PostalCode, &in.Email, &in.Profession, &in.Pathologies, &in.SurgicalInterventions,
		&in.Medication, &in.FamilyHistory, &in.ReasonForConsultation,
	} {
		*f = strings.TrimSpace(*f)
	}
	if canonical, err := NormalizeBirthDate(in.BirthDate); err == nil {
		in.BirthDate = canonical
	}
}

// ClientPatch is a sparse update: nil fields are left untouched in the store.
type ClientPatch struct {
	Name                  *string `json:"name" validate:"omitnil,min=1"`
	Surname               *string `json:"surname" validate:"omitnil,min=1"`
	Phone                 *string `json:"phone" validate:"omitnil,min=9"`
	DNI                   *string `json:"dni" validate:"omitnil,len=9"`
	BirthDate             *string `json:"birthDate" validate:"omitnil,isodate"`
	Address               *string `json:"address" validate:"omitnil,min=1"`
	City                  *string `json:"city" validate:"omitnil,min=1"`
	PostalCode            *string `json:"postalCode" validate:"omitnil,len=5"`
	Email                 *string `json:"email" validate:"omitnil,email"`
	Profession            *string `json:"profession"`
	Pathologies           *string `json:"pathologies"`
	SurgicalInterventions *string `json:"surgicalInterventions"`
	Medication            *string `json:"medication"`
	FamilyHistory         *string `json:"familyHistory"`
	ReasonForConsultation *string `json:"reasonForConsultation" validate:"omitnil,min=1"`
}

// Normalize trims every present field, mirroring ClientInput.Normalize.
func (p *ClientPatch) Normalize() {
	for _, f := range []*string{
		p.Name, p.Surname, p.Phone, p.DNI, p.BirthDate, p.Address, p.City,
		p.PostalCode, p.Email, p.Profession, p.Pathologies, p.SurgicalInterventions,
		p.Medication, p.FamilyHistory, p.ReasonForConsultation,
	} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if p.BirthDate != nil {
		if canonical, err := NormalizeBirthDate(*p.BirthDate); err == nil {
			p.BirthDate = &canonical
		}
	}
}

// IsEmpty reports whether the patch carries no field at all.
func (p ClientPatch) IsEmpty() bool {
	return p == ClientPatch{}
}

// ClientEditForm is what an edit screen needs: the client plus its birth date re-derived
// from the stored canonical value, never from a previously formatted display string.
type ClientEditForm struct {
	Client           *Client `json:"client"`
	BirthDate        string  `json:"birthDate"`
	BirthDateDisplay string  `json:"birthDateDisplay"`
}

const (
	birthDateLayout        = "2006-01-02"
	birthDateDisplayLayout = "02/01/2006"
)

// ParseBirthDate accepts a plain ISO date or a full RFC 3339 timestamp.
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(birthDateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NormalizeBirthDate returns the canonical YYYY-MM-DD form of s.
func NormalizeBirthDate(s string) (string, error) {
	t, err := ParseBirthDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(birthDateLayout), nil
}

// FormatBirthDate renders a date as stored in the database (YYYY-MM-DD).
func FormatBirthDate(t time.Time) string {
	return t.Format(birthDateLayout)
}

// DisplayBirthDate renders a canonical birth date in the dd/mm/yyyy form used on screen.
func DisplayBirthDate(canonical string) (string, error) {
	t, err := ParseBirthDate(canonical)
	if err != nil {
		return "", err
	}
	return t.Format(birthDateDisplayLayout), nil
}
