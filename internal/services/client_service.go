package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physio_records_backend/internal/models"
	"physio_records_backend/internal/repositories"
	"physio_records_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientConflict = errors.New("client conflicts with an existing record")
)

// --- Client DTOs ---

// CreateClientRequest is a new client file, optionally opened from a pending record.
type CreateClientRequest struct {
	models.ClientInput
	PendingRecordID *uuid.UUID `json:"pendingRecordId"`
}

// --- ClientService Interface ---
type ClientService interface {
	SearchClients(ctx context.Context, query string) ([]models.Client, error)
	GetClientByID(ctx context.Context, clientID uuid.UUID) (*models.Client, error)
	GetClientForEdit(ctx context.Context, clientID uuid.UUID) (*models.ClientEditForm, error)
	CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error)
	UpdateClient(ctx context.Context, clientID uuid.UUID, patch models.ClientPatch) (*models.Client, error)
	AddVisit(ctx context.Context, clientID uuid.UUID, in models.VisitInput) (*models.Client, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo  repositories.ClientRepository
	visitRepo   repositories.VisitRepository
	pendingRepo repositories.PendingRecordRepository
	db          *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(
	cr repositories.ClientRepository,
	vr repositories.VisitRepository,
	pr repositories.PendingRecordRepository,
	db *sql.DB,
) ClientService {
	return &clientService{
		clientRepo:  cr,
		visitRepo:   vr,
		pendingRepo: pr,
		db:          db,
	}
}

func (s *clientService) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	clients, err := s.clientRepo.SearchClients(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

// GetClientByID loads the client and merges its visit history. If only the history read
// fails, the client is still returned with an empty history.
func (s *clientService) GetClientByID(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}

	visits, err := s.visitRepo.ListVisitsByClient(ctx, clientID)
	if err != nil {
		utils.LogWarn(err, "GetClientByID: visit history unavailable, returning client without it",
			map[string]interface{}{"client_id": clientID.String()})
		visits = []models.Visit{}
	}
	client.History = visits

	utils.LogDebug("Client loaded with visits", map[string]interface{}{
		"client_id": clientID.String(), "visits": len(visits),
	})
	return client, nil
}

// GetClientForEdit re-reads the client and derives the birth date from the stored
// canonical value each time an edit starts.
func (s *clientService) GetClientForEdit(ctx context.Context, clientID uuid.UUID) (*models.ClientEditForm, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	canonical, err := models.NormalizeBirthDate(client.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("stored birth date %q for client %s is not a date: %w", client.BirthDate, clientID, err)
	}
	display, err := models.DisplayBirthDate(canonical)
	if err != nil {
		return nil, err
	}
	return &models.ClientEditForm{
		Client:           client,
		BirthDate:        canonical,
		BirthDateDisplay: display,
	}, nil
}

// CreateClient creates a client. When a pending record is named, creating the client and
// completing the record happen in one transaction: either both persist or neither does.
func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error) {
	in := req.ClientInput
	in.Normalize()
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:                  in.Name,
		Surname:               in.Surname,
		Phone:                 in.Phone,
		DNI:                   in.DNI,
		BirthDate:             in.BirthDate,
		Address:               in.Address,
		City:                  in.City,
		PostalCode:            in.PostalCode,
		Email:                 in.Email,
		Profession:            in.Profession,
		Pathologies:           in.Pathologies,
		SurgicalInterventions: in.SurgicalInterventions,
		Medication:            in.Medication,
		FamilyHistory:         in.FamilyHistory,
		ReasonForConsultation: in.ReasonForConsultation,
	}

	if req.PendingRecordID == nil {
		if err := s.clientRepo.CreateClient(ctx, s.db, client); err != nil {
			return nil, translateClientWriteError(err, "create")
		}
		utils.LogInfo("Client created", map[string]interface{}{"client_id": client.ID.String()})
		return client, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.clientRepo.CreateClient(ctx, tx, client); err != nil {
		return nil, translateClientWriteError(err, "create")
	}
	if err := s.pendingRepo.MarkPendingRecordCompleted(ctx, tx, *req.PendingRecordID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to complete pending record %s: %w", *req.PendingRecordID, err)
		}
		// Deleted by someone else while the intake form was open; the client still goes in.
		utils.LogWarn(err, "CreateClient: pending record gone, client created without completing it",
			map[string]interface{}{"pending_record_id": req.PendingRecordID.String()})
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit client creation: %w", err)
	}

	utils.LogInfo("Client created from pending record", map[string]interface{}{
		"client_id": client.ID.String(), "pending_record_id": req.PendingRecordID.String(),
	})
	return client, nil
}

// UpdateClient applies a sparse patch and returns the client as re-read from the store.
func (s *clientService) UpdateClient(ctx context.Context, clientID uuid.UUID, patch models.ClientPatch) (*models.Client, error) {
	patch.Normalize()
	if err := models.Validate(patch); err != nil {
		return nil, err
	}

	if err := s.clientRepo.UpdateClient(ctx, s.db, clientID, patch); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, translateClientWriteError(err, "update")
	}
	return s.GetClientByID(ctx, clientID)
}

// AddVisit logs a visit and returns the whole client re-read from the store, so the caller
// sees exactly what was persisted.
func (s *clientService) AddVisit(ctx context.Context, clientID uuid.UUID, in models.VisitInput) (*models.Client, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	visit := &models.Visit{
		ClientID:       clientID,
		Date:           in.Date.UTC(),
		TreatmentNotes: in.TreatmentNotes,
		Price:          in.Price,
	}
	if err := s.visitRepo.CreateVisit(ctx, s.db, visit); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		if errors.Is(err, repositories.ErrCheckViolation) {
			return nil, models.FieldErrors{"price": "Must be greater than 0"}
		}
		return nil, fmt.Errorf("failed to add visit: %w", err)
	}
	utils.LogInfo("Visit added", map[string]interface{}{
		"client_id": clientID.String(), "visit_id": visit.ID.String(),
	})
	return s.GetClientByID(ctx, clientID)
}

func translateClientWriteError(err error, action string) error {
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return fmt.Errorf("%w: %v", ErrClientConflict, err)
	}
	return fmt.Errorf("failed to %s client in repository: %w", action, err)
}
