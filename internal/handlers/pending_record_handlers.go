package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"physio_records_backend/internal/models"
	"physio_records_backend/internal/services"
	"physio_records_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Pending-record endpoints are called by the external booking system and keep a flat
// {error} / {success} body rather than the APIError envelope.

var pendingRecordRequiredFields = []string{"clientName", "appointmentId", "appointmentDate"}

type createPendingRecordPayload struct {
	ClientName      string          `json:"clientName"`
	AppointmentID   json.RawMessage `json:"appointmentId"` // booking systems send it as a string or a number
	AppointmentDate string          `json:"appointmentDate"`
}

// appointmentID returns the id as text. Numbers keep their literal form; zero, null and
// any other JSON type count as absent.
func (p createPendingRecordPayload) appointmentID() string {
	raw := bytes.TrimSpace(p.AppointmentID)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		return ""
	}
	return n.String()
}

// PendingRecordHandler holds the pending record service.
type PendingRecordHandler struct {
	pendingService services.PendingRecordService
}

// NewPendingRecordHandler creates a new PendingRecordHandler.
func NewPendingRecordHandler(ps services.PendingRecordService) *PendingRecordHandler {
	return &PendingRecordHandler{pendingService: ps}
}

// CreatePendingRecord registers a booked appointment that has no client file yet.
func (h *PendingRecordHandler) CreatePendingRecord(c *gin.Context) {
	var payload createPendingRecordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.LogError(err, "CreatePendingRecord: Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	appointmentID := payload.appointmentID()
	if utils.IsEmpty(payload.ClientName) || utils.IsEmpty(appointmentID) || utils.IsEmpty(payload.AppointmentDate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Missing required fields",
			"required": pendingRecordRequiredFields,
		})
		return
	}

	appointmentDate, err := models.ParseAppointmentDate(payload.AppointmentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointmentDate"})
		return
	}

	record, err := h.pendingService.CreatePendingRecord(c.Request.Context(), models.PendingRecordInput{
		ClientName:      payload.ClientName,
		AppointmentID:   appointmentID,
		AppointmentDate: appointmentDate,
	})
	if err != nil {
		var fieldErrs models.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			c.JSON(http.StatusBadRequest, gin.H{"error": fieldErrs.Error()})
		case errors.Is(err, services.ErrPendingRecordExists):
			c.JSON(http.StatusConflict, gin.H{"error": "A pending record already exists for this appointment"})
		default:
			utils.LogError(err, "CreatePendingRecord: Error from pendingService.CreatePendingRecord")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pending record"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "record": record})
}

// ListPendingRecords returns the records that still need a client file.
func (h *PendingRecordHandler) ListPendingRecords(c *gin.Context) {
	records, err := h.pendingService.ListActivePendingRecords(c.Request.Context())
	if err != nil {
		utils.LogError(err, "ListPendingRecords: Error from pendingService.ListActivePendingRecords")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "records": records})
}

// GetClientDraft returns the new-client form prefill for a pending record.
func (h *PendingRecordHandler) GetClientDraft(c *gin.Context) {
	id, ok := parsePendingRecordID(c)
	if !ok {
		return
	}
	draft, err := h.pendingService.GetClientDraft(c.Request.Context(), id)
	if err != nil {
		respondPendingRecordError(c, err, "GetClientDraft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "draft": draft})
}

// CompletePendingRecord marks a record as handled. Repeating it is harmless.
func (h *PendingRecordHandler) CompletePendingRecord(c *gin.Context) {
	id, ok := parsePendingRecordID(c)
	if !ok {
		return
	}
	if err := h.pendingService.CompletePendingRecord(c.Request.Context(), id); err != nil {
		respondPendingRecordError(c, err, "CompletePendingRecord")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeletePendingRecord discards a record permanently.
func (h *PendingRecordHandler) DeletePendingRecord(c *gin.Context) {
	id, ok := parsePendingRecordID(c)
	if !ok {
		return
	}
	if err := h.pendingService.DeletePendingRecord(c.Request.Context(), id); err != nil {
		respondPendingRecordError(c, err, "DeletePendingRecord")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parsePendingRecordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pending record ID"})
		return uuid.Nil, false
	}
	return id, true
}

func respondPendingRecordError(c *gin.Context, err error, op string) {
	if errors.Is(err, services.ErrPendingRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending record not found"})
		return
	}
	utils.LogError(err, op+": Error from pendingService")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
