package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"physio_records_backend/internal/models"
	"physio_records_backend/pkg/utils"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	SearchClients(ctx context.Context, query string) ([]models.Client, error)
	GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	CreateClient(ctx context.Context, executor SQLExecutor, client *models.Client) error
	UpdateClient(ctx context.Context, executor SQLExecutor, id uuid.UUID, patch models.ClientPatch) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, surname, phone, dni, birth_date, address, city, postal_code, email,
	profession, pathologies, surgical_interventions, medication, family_history,
	reason_for_consultation, created_at, updated_at`

func scanClient(row scanner) (*models.Client, error) {
	var client models.Client
	var birthDate time.Time
	var profession, pathologies, surgical, medication, familyHistory sql.NullString

	err := row.Scan(
		&client.ID, &client.Name, &client.Surname, &client.Phone, &client.DNI, &birthDate,
		&client.Address, &client.City, &client.PostalCode, &client.Email,
		&profession, &pathologies, &surgical, &medication, &familyHistory,
		&client.ReasonForConsultation, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	client.BirthDate = models.FormatBirthDate(birthDate)
	client.Profession = profession.String
	client.Pathologies = pathologies.String
	client.SurgicalInterventions = surgical.String
	client.Medication = medication.String
	client.FamilyHistory = familyHistory.String
	client.History = []models.Visit{}
	return &client, nil
}

// escapeLike escapes the ILIKE wildcards so user input is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchClients returns clients whose name, surname, phone or DNI contains query,
// case-insensitively, ordered by name. A blank query matches nothing.
func (r *clientRepository) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	clients := []models.Client{}
	term := strings.TrimSpace(query)
	if term == "" {
		return clients, nil
	}

	q := `SELECT ` + clientColumns + `
	      FROM clients_records
	      WHERE name ILIKE $1 OR surname ILIKE $1 OR phone ILIKE $1 OR dni ILIKE $1
	      ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, q, "%"+escapeLike(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("%w: searching clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// GetClientByID retrieves a client by ID. History is left empty; visits live in their own table.
func (r *clientRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients_records WHERE id = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %s: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// CreateClient inserts a new client. ID and timestamps are assigned by the store and
// written back into client.
func (r *clientRepository) CreateClient(ctx context.Context, executor SQLExecutor, client *models.Client) error {
	q := `INSERT INTO clients_records (name, surname, phone, dni, birth_date, address, city, postal_code, email,
	          profession, pathologies, surgical_interventions, medication, family_history, reason_for_consultation)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	      RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, q,
		client.Name, client.Surname, client.Phone, client.DNI, client.BirthDate,
		client.Address, client.City, client.PostalCode, client.Email,
		utils.NewNullString(client.Profession), utils.NewNullString(client.Pathologies),
		utils.NewNullString(client.SurgicalInterventions), utils.NewNullString(client.Medication),
		utils.NewNullString(client.FamilyHistory), client.ReasonForConsultation,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return classifyWriteError(err, "creating client")
	}
	if client.History == nil {
		client.History = []models.Visit{}
	}
	return nil
}

type patchColumn struct {
	column   string
	value    *string
	nullable bool
}

func clientPatchColumns(p models.ClientPatch) []patchColumn {
	all := []patchColumn{
		{"name", p.Name, false},
		{"surname", p.Surname, false},
		{"phone", p.Phone, false},
		{"dni", p.DNI, false},
		{"birth_date", p.BirthDate, false},
		{"address", p.Address, false},
		{"city", p.City, false},
		{"postal_code", p.PostalCode, false},
		{"email", p.Email, false},
		{"profession", p.Profession, true},
		{"pathologies", p.Pathologies, true},
		{"surgical_interventions", p.SurgicalInterventions, true},
		{"medication", p.Medication, true},
		{"family_history", p.FamilyHistory, true},
		{"reason_for_consultation", p.ReasonForConsultation, false},
	}
	present := make([]patchColumn, 0, len(all))
	for _, c := range all {
		if c.value != nil {
			present = append(present, c)
		}
	}
	return present
}

// UpdateClient applies a sparse patch: only non-nil fields are written, updated_at is
// always refreshed. Returns ErrNotFound when no row has the given ID.
func (r *clientRepository) UpdateClient(ctx context.Context, executor SQLExecutor, id uuid.UUID, patch models.ClientPatch) error {
	var sets []string
	var args []interface{}
	argCount := 1

	for _, c := range clientPatchColumns(patch) {
		sets = append(sets, fmt.Sprintf("%s = $%d", c.column, argCount))
		if c.nullable {
			args = append(args, utils.NewNullString(*c.value))
		} else {
			args = append(args, *c.value)
		}
		argCount++
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	q := fmt.Sprintf("UPDATE clients_records SET %s WHERE id = $%d", strings.Join(sets, ", "), argCount)
	args = append(args, id)

	result, err := executor.ExecContext(ctx, q, args...)
	if err != nil {
		return classifyWriteError(err, fmt.Sprintf("updating client ID %s", id))
	}
	return requireAffected(result, fmt.Sprintf("updating client ID %s", id))
}
