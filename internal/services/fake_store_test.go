package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"physio_records_backend/internal/models"
	"physio_records_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory stand-in for the three repositories.
type fakeStore struct {
	mu      sync.Mutex
	clients map[uuid.UUID]models.Client
	visits  map[uuid.UUID][]models.Visit
	pending map[uuid.UUID]models.PendingRecord

	listVisitsErr  error
	searchErr      error
	completeErr    error
	createVisitErr error
}

var (
	_ repositories.ClientRepository        = (*fakeStore)(nil)
	_ repositories.VisitRepository         = (*fakeStore)(nil)
	_ repositories.PendingRecordRepository = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients: map[uuid.UUID]models.Client{},
		visits:  map[uuid.UUID][]models.Visit{},
		pending: map[uuid.UUID]models.PendingRecord{},
	}
}

func (f *fakeStore) SearchClients(_ context.Context, query string) ([]models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := []models.Client{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out, nil
	}
	for _, c := range f.clients {
		for _, field := range []string{c.Name, c.Surname, c.Phone, c.DNI} {
			if strings.Contains(strings.ToLower(field), q) {
				c.History = []models.Visit{}
				out = append(out, c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetClientByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.History = []models.Visit{}
	return &c, nil
}

func (f *fakeStore) CreateClient(_ context.Context, _ repositories.SQLExecutor, client *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	client.ID = uuid.New()
	client.CreatedAt, client.UpdatedAt = now, now
	client.History = []models.Visit{}
	f.clients[client.ID] = *client
	return nil
}

func (f *fakeStore) UpdateClient(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID, p models.ClientPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return repositories.ErrNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Name, p.Name)
	set(&c.Surname, p.Surname)
	set(&c.Phone, p.Phone)
	set(&c.DNI, p.DNI)
	set(&c.BirthDate, p.BirthDate)
	set(&c.Address, p.Address)
	set(&c.City, p.City)
	set(&c.PostalCode, p.PostalCode)
	set(&c.Email, p.Email)
	set(&c.Profession, p.Profession)
	set(&c.Pathologies, p.Pathologies)
	set(&c.SurgicalInterventions, p.SurgicalInterventions)
	set(&c.Medication, p.Medication)
	set(&c.FamilyHistory, p.FamilyHistory)
	set(&c.ReasonForConsultation, p.ReasonForConsultation)
	c.UpdatedAt = time.Now().UTC()
	f.clients[id] = c
	return nil
}

func (f *fakeStore) ListVisitsByClient(_ context.Context, clientID uuid.UUID) ([]models.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listVisitsErr != nil {
		return nil, f.listVisitsErr
	}
	out := append([]models.Visit{}, f.visits[clientID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeStore) CreateVisit(_ context.Context, _ repositories.SQLExecutor, visit *models.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createVisitErr != nil {
		return f.createVisitErr
	}
	if _, ok := f.clients[visit.ClientID]; !ok {
		return repositories.ErrNotFound
	}
	visit.ID = uuid.New()
	visit.CreatedAt = time.Now().UTC()
	f.visits[visit.ClientID] = append(f.visits[visit.ClientID], *visit)
	return nil
}

func (f *fakeStore) CreatePendingRecord(_ context.Context, _ repositories.SQLExecutor, record *models.PendingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pending {
		if p.AppointmentID == record.AppointmentID {
			return repositories.ErrDuplicateKey
		}
	}
	record.ID = uuid.New()
	record.CreatedAt = time.Now().UTC()
	record.IsCompleted = false
	f.pending[record.ID] = *record
	return nil
}

func (f *fakeStore) GetPendingRecordByID(_ context.Context, id uuid.UUID) (*models.PendingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) ListActivePendingRecords(_ context.Context) ([]models.PendingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.PendingRecord{}
	for _, p := range f.pending {
		if !p.IsCompleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDate.Before(out[j].AppointmentDate) })
	return out, nil
}

func (f *fakeStore) MarkPendingRecordCompleted(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	p, ok := f.pending[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.IsCompleted = true
	f.pending[id] = p
	return nil
}

func (f *fakeStore) DeletePendingRecord(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pending[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.pending, id)
	return nil
}

// newMockDB returns a sqlmock-backed *sql.DB; only transactional flows put expectations on it.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}
