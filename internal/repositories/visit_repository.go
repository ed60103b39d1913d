package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"physio_records_backend/internal/models"

	"github.com/google/uuid"
)

// VisitRepository defines the interface for visit-related database operations.
// Visits are append-only, so there is no update or delete.
type VisitRepository interface {
	ListVisitsByClient(ctx context.Context, clientID uuid.UUID) ([]models.Visit, error)
	CreateVisit(ctx context.Context, executor SQLExecutor, visit *models.Visit) error
}

type visitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new instance of VisitRepository.
func NewVisitRepository(db *sql.DB) VisitRepository {
	return &visitRepository{db: db}
}

// ListVisitsByClient returns the client's visits, most recent first.
func (r *visitRepository) ListVisitsByClient(ctx context.Context, clientID uuid.UUID) ([]models.Visit, error) {
	visits := []models.Visit{}
	q := `SELECT id, client_id, date, treatment_notes, price, created_at
	      FROM visits WHERE client_id = $1
	      ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying visits for client %s: %v", ErrDatabaseError, clientID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.Visit
		if err := rows.Scan(&v.ID, &v.ClientID, &v.Date, &v.TreatmentNotes, &v.Price, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning visit: %v", ErrDatabaseError, err)
		}
		visits = append(visits, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating visit rows: %v", ErrDatabaseError, err)
	}
	return visits, nil
}

// CreateVisit inserts a visit. A missing client surfaces as ErrNotFound through the
// foreign key on visits.client_id.
func (r *visitRepository) CreateVisit(ctx context.Context, executor SQLExecutor, visit *models.Visit) error {
	q := `INSERT INTO visits (client_id, date, treatment_notes, price)
	      VALUES ($1, $2, $3, $4)
	      RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, q,
		visit.ClientID, visit.Date, visit.TreatmentNotes, visit.Price,
	).Scan(&visit.ID, &visit.CreatedAt)
	if err != nil {
		return classifyWriteError(err, fmt.Sprintf("creating visit for client %s", visit.ClientID))
	}
	return nil
}
