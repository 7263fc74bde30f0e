package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rag-demo-service/internal/logger"
	"rag-demo-service/internal/vectorstore"
	"rag-demo-service/models"
	"rag-demo-service/services"
	"rag-demo-service/utils"
)

// SetupRAGRoutes wires the reset/ingest/chat endpoints.
func SetupRAGRoutes(router *gin.Engine, ingestion *services.IngestionService, query *services.QueryService, store vectorstore.Store) {
	router.POST("/reset", func(c *gin.Context) {
		if err := store.DeleteAll(c.Request.Context()); err != nil {
			logger.Error("Reset failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error",
				"detail": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "cleared"})
	})

	router.POST("/ingest", func(c *gin.Context) {
		var req models.IngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "text is required")
			return
		}

		result, err := ingestion.Ingest(c.Request.Context(), req.Text)
		if err != nil {
			logger.Error("Ingestion failed", "error", err)
			utils.RespondWithInternalError(c, err.Error())
			return
		}

		c.JSON(http.StatusOK, models.IngestResponse{
			Status:   "indexed",
			Chunks:   result.Chunks,
			Indexed:  result.Indexed,
			Failures: result.Failures,
		})
	})

	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "question is required")
			return
		}

		resp, err := query.Answer(c.Request.Context(), req.Question)
		if err != nil {
			logger.Error("Chat pipeline failed", "error", err)
			utils.RespondWithInternalError(c, err.Error())
			return
		}

		c.JSON(http.StatusOK, resp)
	})
}
