package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func TestInitLogger_LevelAndFormat(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	initLogger(&buf, "warn", "json")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	buf.Reset()
	LogInfo("hidden")
	assert.Empty(t, buf.String())

	LogWarn(errors.New("visits unavailable"), "partial read", map[string]interface{}{"client_id": "c1"})
	entry := lastLine(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "partial read", entry["message"])
	assert.Equal(t, "visits unavailable", entry["error"])
	assert.Equal(t, "c1", entry["client_id"])

	initLogger(&buf, "nonsense", "json")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestGinLogger_IncludesRequestID(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	initLogger(&buf, "info", "json")

	engine := gin.New()
	engine.Use(func(c *gin.Context) { c.Set(RequestIDKey, "rid-1") }, GinLogger())
	engine.GET("/api/clients", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	buf.Reset()
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clients", nil))

	entry := lastLine(t, &buf)
	assert.Equal(t, "rid-1", entry["request_id"])
	assert.Equal(t, "/api/clients", entry["path"])
	assert.EqualValues(t, http.StatusNoContent, entry["status_code"])
}

func TestRespondValidationFailed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondValidationFailed(c, map[string]string{"dni": "must be exactly 9 characters"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"error":{"code":"VALIDATION_FAILED","message":"Input validation failed","fields":{"dni":"must be exactly 9 characters"}}}`, w.Body.String())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PHYSIO_TEST_INT", "42")
	t.Setenv("PHYSIO_TEST_BAD_INT", "forty")
	t.Setenv("PHYSIO_TEST_BOOL", "false")
	t.Setenv("PHYSIO_TEST_MS", "150")

	assert.Equal(t, 42, GetenvInt("PHYSIO_TEST_INT", 1))
	assert.Equal(t, 1, GetenvInt("PHYSIO_TEST_BAD_INT", 1))
	assert.Equal(t, 7, GetenvInt("PHYSIO_TEST_MISSING", 7))
	assert.False(t, GetenvBool("PHYSIO_TEST_BOOL", true))
	assert.True(t, GetenvBool("PHYSIO_TEST_MISSING", true))
	assert.Equal(t, 150*time.Millisecond, GetenvMillis("PHYSIO_TEST_MS", time.Second))
	assert.Equal(t, time.Second, GetenvMillis("PHYSIO_TEST_MISSING", time.Second))
	assert.Equal(t, "fallback", Getenv("PHYSIO_TEST_MISSING", "fallback"))
}

func TestStringHelpers(t *testing.T) {
	assert.Nil(t, NewNullString(""))
	require.NotNil(t, NewNullString("Mestra"))
	assert.Equal(t, "Mestra", *NewNullString("Mestra"))

	assert.True(t, IsEmpty("  \t"))
	assert.False(t, IsEmpty(" a "))

	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Nil(t, SplitList(""))
}
