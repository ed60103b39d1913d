package handlers

import (
	"context"
	"errors"
	"net/http"

	"physio_records_backend/internal/models"
	"physio_records_backend/internal/search"
	"physio_records_backend/internal/services"
	"physio_records_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SearchSessionHeader identifies the caller whose live-search queries supersede each other.
const SearchSessionHeader = "X-Search-Session"

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
	sessions      *search.Sessions
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService, sessions *search.Sessions) *ClientHandler {
	return &ClientHandler{clientService: cs, sessions: sessions}
}

// statusClientClosedRequest is the nginx convention for a request the caller abandoned.
const statusClientClosedRequest = 499

// SearchClients handles a one-shot substring search.
func (h *ClientHandler) SearchClients(c *gin.Context) {
	clients, err := h.clientService.SearchClients(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.LogError(err, "SearchClients: Error from clientService.SearchClients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to search clients.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

// LiveSearch handles type-ahead searches. Only the latest query of a session gets data.
func (h *ClientHandler) LiveSearch(c *gin.Context) {
	coordinator := h.sessions.For(c.GetHeader(SearchSessionHeader))

	clients, err := coordinator.Submit(c.Request.Context(), c.Query("q"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": clients})
	case errors.Is(err, search.ErrSuperseded), errors.Is(err, search.ErrStale):
		c.JSON(http.StatusOK, gin.H{"superseded": true})
	case errors.Is(err, context.Canceled):
		// Client closed the connection; nobody reads this status.
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		utils.LogError(err, "LiveSearch: Error from search coordinator")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to search clients.", "Internal error"))
	}
}

// CreateClient handles the creation of a new client, optionally from a pending record.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload.", err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondClientError(c, err, "CreateClient", "Failed to create client.")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClientByID handles fetching a client together with its visit history.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		respondClientError(c, err, "GetClientByID", "Failed to fetch client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetClientForEdit handles entering edit mode for a client.
func (h *ClientHandler) GetClientForEdit(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	form, err := h.clientService.GetClientForEdit(c.Request.Context(), clientID)
	if err != nil {
		respondClientError(c, err, "GetClientForEdit", "Failed to load client for editing.")
		return
	}
	c.JSON(http.StatusOK, form)
}

// UpdateClient handles a partial update; absent fields keep their stored values.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var patch models.ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON for ID "+clientID.String())
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload.", err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, patch)
	if err != nil {
		respondClientError(c, err, "UpdateClient", "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// AddVisit handles logging a visit; the response is the whole client as stored.
func (h *ClientHandler) AddVisit(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var in models.VisitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.LogError(err, "AddVisit: Failed to bind JSON for client "+clientID.String())
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload.", err.Error()))
		return
	}

	client, err := h.clientService.AddVisit(c.Request.Context(), clientID, in)
	if err != nil {
		respondClientError(c, err, "AddVisit", "Failed to add visit.")
		return
	}
	c.JSON(http.StatusCreated, client)
}

func parseClientID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid client ID format.", err.Error()))
		return uuid.Nil, false
	}
	return id, true
}

func respondClientError(c *gin.Context, err error, op, fallback string) {
	var fieldErrs models.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		utils.RespondValidationFailed(c, fieldErrs)
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
	case errors.Is(err, services.ErrClientConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Client conflicts with an existing record.", err.Error()))
	default:
		utils.LogError(err, op+": Error from clientService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
