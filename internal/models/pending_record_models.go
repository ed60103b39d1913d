package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PendingRecord notes an appointment booked for someone who has no client file yet.
type PendingRecord struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ClientName      string    `json:"clientName" db:"client_name"`
	AppointmentID   string    `json:"appointmentId" db:"appointment_id"`
	AppointmentDate time.Time `json:"appointmentDate" db:"appointment_date"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	IsCompleted     bool      `json:"isCompleted" db:"is_completed"`
}

// SuggestedNames splits ClientName into a first name (first word) and a surname
// (the remaining words), the way a new client form is prefilled.
func (p PendingRecord) SuggestedNames() (name, surname string) {
	parts := strings.Fields(p.ClientName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ClientDraft prefills the new client form opened from a pending record.
type ClientDraft struct {
	PendingRecordID uuid.UUID `json:"pendingRecordId"`
	Name            string    `json:"name"`
	Surname         string    `json:"surname"`
	AppointmentDate time.Time `json:"appointmentDate"`
}

func (p PendingRecord) Draft() ClientDraft {
	name, surname := p.SuggestedNames()
	return ClientDraft{PendingRecordID: p.ID, Name: name, Surname: surname, AppointmentDate: p.AppointmentDate}
}

var appointmentDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseAppointmentDate accepts ISO 8601 timestamps as booking systems send them.
// Values without a zone are taken as UTC.
func ParseAppointmentDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range appointmentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid appointment date %q", s)
}

// PendingRecordInput is what the booking integration sends.
type PendingRecordInput struct {
	ClientName      string    `json:"clientName" validate:"required"`
	AppointmentID   string    `json:"appointmentId" validate:"required"`
	AppointmentDate time.Time `json:"appointmentDate" validate:"required"`
}
