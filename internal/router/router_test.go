package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"physio_records_backend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_RegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := gin.New()
	require.NoError(t, Setup(engine, db, &config.Config{SearchDebounce: time.Millisecond, SearchSessions: 4}))

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /ping",
		"GET /metrics",
		"POST /api/pending-records",
		"GET /api/pending-records",
		"GET /api/pending-records/:id/draft",
		"PATCH /api/pending-records/:id/complete",
		"DELETE /api/pending-records/:id",
		"GET /api/clients",
		"GET /api/clients/live-search",
		"POST /api/clients",
		"GET /api/clients/:id",
		"GET /api/clients/:id/edit",
		"PATCH /api/clients/:id",
		"POST /api/clients/:id/visits",
	} {
		assert.True(t, registered[want], want)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// a blank search never reaches the database
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients?search=", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
