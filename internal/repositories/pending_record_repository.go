package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physio_records_backend/internal/models"

	"github.com/google/uuid"
)

// PendingRecordRepository defines the interface for the pending-record queue.
type PendingRecordRepository interface {
	CreatePendingRecord(ctx context.Context, executor SQLExecutor, record *models.PendingRecord) error
	GetPendingRecordByID(ctx context.Context, id uuid.UUID) (*models.PendingRecord, error)
	ListActivePendingRecords(ctx context.Context) ([]models.PendingRecord, error)
	MarkPendingRecordCompleted(ctx context.Context, executor SQLExecutor, id uuid.UUID) error
	DeletePendingRecord(ctx context.Context, executor SQLExecutor, id uuid.UUID) error
}

type pendingRecordRepository struct {
	db *sql.DB
}

// NewPendingRecordRepository creates a new instance of PendingRecordRepository.
func NewPendingRecordRepository(db *sql.DB) PendingRecordRepository {
	return &pendingRecordRepository{db: db}
}

// CreatePendingRecord inserts a record; is_completed starts false and created_at is set by the store.
func (r *pendingRecordRepository) CreatePendingRecord(ctx context.Context, executor SQLExecutor, record *models.PendingRecord) error {
	q := `INSERT INTO pending_records (client_name, appointment_id, appointment_date)
	      VALUES ($1, $2, $3)
	      RETURNING id, created_at, is_completed`

	err := executor.QueryRowContext(ctx, q,
		record.ClientName, record.AppointmentID, record.AppointmentDate,
	).Scan(&record.ID, &record.CreatedAt, &record.IsCompleted)
	if err != nil {
		return classifyWriteError(err, "creating pending record")
	}
	return nil
}

func (r *pendingRecordRepository) GetPendingRecordByID(ctx context.Context, id uuid.UUID) (*models.PendingRecord, error) {
	var p models.PendingRecord
	q := `SELECT id, client_name, appointment_id, appointment_date, created_at, is_completed
	      FROM pending_records WHERE id = $1`

	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&p.ID, &p.ClientName, &p.AppointmentID, &p.AppointmentDate, &p.CreatedAt, &p.IsCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: pending record with ID %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: getting pending record %s: %v", ErrDatabaseError, id, err)
	}
	return &p, nil
}

// ListActivePendingRecords returns records not yet completed, soonest appointment first.
func (r *pendingRecordRepository) ListActivePendingRecords(ctx context.Context) ([]models.PendingRecord, error) {
	records := []models.PendingRecord{}
	q := `SELECT id, client_name, appointment_id, appointment_date, created_at, is_completed
	      FROM pending_records WHERE is_completed = false
	      ORDER BY appointment_date ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pending records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.PendingRecord
		if err := rows.Scan(&p.ID, &p.ClientName, &p.AppointmentID, &p.AppointmentDate, &p.CreatedAt, &p.IsCompleted); err != nil {
			return nil, fmt.Errorf("%w: scanning pending record: %v", ErrDatabaseError, err)
		}
		records = append(records, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pending record rows: %v", ErrDatabaseError, err)
	}
	return records, nil
}

// MarkPendingRecordCompleted sets is_completed unconditionally, so completing an already
// completed record still matches its row and succeeds.
func (r *pendingRecordRepository) MarkPendingRecordCompleted(ctx context.Context, executor SQLExecutor, id uuid.UUID) error {
	result, err := executor.ExecContext(ctx, `UPDATE pending_records SET is_completed = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: completing pending record %s: %v", ErrDatabaseError, id, err)
	}
	return requireAffected(result, fmt.Sprintf("completing pending record %s", id))
}

// DeletePendingRecord removes a record permanently, completed or not.
func (r *pendingRecordRepository) DeletePendingRecord(ctx context.Context, executor SQLExecutor, id uuid.UUID) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM pending_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting pending record %s: %v", ErrDatabaseError, id, err)
	}
	return requireAffected(result, fmt.Sprintf("deleting pending record %s", id))
}
