package router

import (
	"physio_records_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPendingRecordRoutes sets up the pending record routes used by the booking integration.
func SetupPendingRecordRoutes(apiGroup *gin.RouterGroup, pendingHandler *handlers.PendingRecordHandler) {
	pendingRoutes := apiGroup.Group("/pending-records")
	{
		pendingRoutes.POST("", pendingHandler.CreatePendingRecord)
		pendingRoutes.GET("", pendingHandler.ListPendingRecords)
		pendingRoutes.GET("/:id/draft", pendingHandler.GetClientDraft)
		pendingRoutes.PATCH("/:id/complete", pendingHandler.CompletePendingRecord)
		pendingRoutes.DELETE("/:id", pendingHandler.DeletePendingRecord)
	}
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(apiGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := apiGroup.Group("/clients")
	{
		clientRoutes.GET("", clientHandler.SearchClients)
		clientRoutes.GET("/live-search", clientHandler.LiveSearch)
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.GET("/:id/edit", clientHandler.GetClientForEdit)
		clientRoutes.PATCH("/:id", clientHandler.UpdateClient)
		clientRoutes.POST("/:id/visits", clientHandler.AddVisit)
	}
}
