package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"physio_records_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var visitRowColumns = []string{"id", "client_id", "date", "treatment_notes", "price", "created_at"}

func TestVisitRepository_ListVisitsByClient(t *testing.T) {
	t.Run("returns visits most recent first", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		clientID := uuid.New()
		recent := time.Date(2024, 6, 9, 9, 0, 0, 0, time.UTC)
		older := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(visitRowColumns).
			AddRow(uuid.New().String(), clientID.String(), recent, "Sessió 2", "50.00", recent).
			AddRow(uuid.New().String(), clientID.String(), older, "Sessió 1", "45.00", older)

		mock.ExpectQuery(`SELECT id, client_id, date, treatment_notes, price, created_at FROM visits WHERE client_id = \$1 ORDER BY date DESC`).
			WithArgs(clientID).
			WillReturnRows(rows)

		visits, err := repo.ListVisitsByClient(context.Background(), clientID)
		require.NoError(t, err)
		require.Len(t, visits, 2)
		assert.Equal(t, "Sessió 2", visits[0].TreatmentNotes)
		assert.True(t, visits[1].Price.Equal(decimal.NewFromInt(45)))
		assert.Equal(t, clientID, visits[1].ClientID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure is reported", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		mock.ExpectQuery(`SELECT .* FROM visits`).WillReturnError(errors.New("timeout"))

		visits, err := repo.ListVisitsByClient(context.Background(), uuid.New())
		assert.Nil(t, visits)
		assert.ErrorIs(t, err, ErrDatabaseError)
	})
}

func TestVisitRepository_CreateVisit(t *testing.T) {
	t.Run("inserts the visit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		clientID, visitID := uuid.New(), uuid.New()
		date := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
		price := decimal.NewFromInt(45)

		mock.ExpectQuery(`INSERT INTO visits \(client_id, date, treatment_notes, price\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id, created_at`).
			WithArgs(clientID, date, "Sessió 1", price).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(visitID.String(), date))

		visit := &models.Visit{ClientID: clientID, Date: date, TreatmentNotes: "Sessió 1", Price: price}
		require.NoError(t, repo.CreateVisit(context.Background(), db, visit))
		assert.Equal(t, visitID, visit.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown client maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		mock.ExpectQuery(`INSERT INTO visits`).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "visits_client_id_fkey"})

		err := repo.CreateVisit(context.Background(), db, &models.Visit{ClientID: uuid.New(), Price: decimal.NewFromInt(45)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("check violation maps to ErrCheckViolation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		mock.ExpectQuery(`INSERT INTO visits`).
			WillReturnError(&pq.Error{Code: "23514", Constraint: "visits_price_check"})

		err := repo.CreateVisit(context.Background(), db, &models.Visit{ClientID: uuid.New(), Price: decimal.RequireFromString("0.001")})
		assert.ErrorIs(t, err, ErrCheckViolation)
		assert.NotErrorIs(t, err, ErrDatabaseError)
	})
}
