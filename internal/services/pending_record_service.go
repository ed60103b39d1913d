package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"physio_records_backend/internal/models"
	"physio_records_backend/internal/repositories"
	"physio_records_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Pending Records ---
var (
	ErrPendingRecordNotFound = errors.New("pending record not found")
	ErrPendingRecordExists   = errors.New("a pending record already exists for this appointment")
)

// --- PendingRecordService Interface ---
type PendingRecordService interface {
	CreatePendingRecord(ctx context.Context, in models.PendingRecordInput) (*models.PendingRecord, error)
	ListActivePendingRecords(ctx context.Context) ([]models.PendingRecord, error)
	GetClientDraft(ctx context.Context, id uuid.UUID) (*models.ClientDraft, error)
	CompletePendingRecord(ctx context.Context, id uuid.UUID) error
	DeletePendingRecord(ctx context.Context, id uuid.UUID) error
}

// --- pendingRecordService Implementation ---
type pendingRecordService struct {
	pendingRepo repositories.PendingRecordRepository
	db          *sql.DB
}

// NewPendingRecordService creates a new instance of PendingRecordService.
func NewPendingRecordService(repo repositories.PendingRecordRepository, db *sql.DB) PendingRecordService {
	return &pendingRecordService{
		pendingRepo: repo,
		db:          db,
	}
}

func (s *pendingRecordService) CreatePendingRecord(ctx context.Context, in models.PendingRecordInput) (*models.PendingRecord, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.AppointmentID = strings.TrimSpace(in.AppointmentID)
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	record := &models.PendingRecord{
		ClientName:      in.ClientName,
		AppointmentID:   in.AppointmentID,
		AppointmentDate: in.AppointmentDate.UTC(),
	}
	if err := s.pendingRepo.CreatePendingRecord(ctx, s.db, record); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: appointment %s", ErrPendingRecordExists, in.AppointmentID)
		}
		return nil, fmt.Errorf("failed to create pending record: %w", err)
	}
	utils.LogInfo("Pending record created", map[string]interface{}{
		"pending_record_id": record.ID.String(), "appointment_id": record.AppointmentID,
	})
	return record, nil
}

func (s *pendingRecordService) ListActivePendingRecords(ctx context.Context) ([]models.PendingRecord, error) {
	records, err := s.pendingRepo.ListActivePendingRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending records: %w", err)
	}
	return records, nil
}

// GetClientDraft returns the prefilled new-client form for a pending record.
func (s *pendingRecordService) GetClientDraft(ctx context.Context, id uuid.UUID) (*models.ClientDraft, error) {
	record, err := s.pendingRepo.GetPendingRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPendingRecordNotFound
		}
		return nil, fmt.Errorf("failed to get pending record: %w", err)
	}
	draft := record.Draft()
	return &draft, nil
}

// CompletePendingRecord is idempotent: completing a completed record succeeds again.
func (s *pendingRecordService) CompletePendingRecord(ctx context.Context, id uuid.UUID) error {
	if err := s.pendingRepo.MarkPendingRecordCompleted(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPendingRecordNotFound
		}
		return fmt.Errorf("failed to complete pending record: %w", err)
	}
	return nil
}

// DeletePendingRecord removes the record whether or not it was completed.
func (s *pendingRecordService) DeletePendingRecord(ctx context.Context, id uuid.UUID) error {
	if err := s.pendingRepo.DeletePendingRecord(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPendingRecordNotFound
		}
		return fmt.Errorf("failed to delete pending record: %w", err)
	}
	return nil
}
