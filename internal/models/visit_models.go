package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Visit is one billable treatment session. Visits are append-only.
type Visit struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ClientID       uuid.UUID       `json:"clientId" db:"client_id"`
	Date           time.Time       `json:"date" db:"date"`
	TreatmentNotes string          `json:"treatmentNotes" db:"treatment_notes"`
	Price          decimal.Decimal `json:"price" db:"price"` // EUR
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// VisitInput is the payload for logging a new visit against a client.
type VisitInput struct {
	Date           time.Time       `json:"date" validate:"required"`
	TreatmentNotes string          `json:"treatmentNotes" validate:"required"`
	Price          decimal.Decimal `json:"price" validate:"gt=0,maxscale=2"`
}
