package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/service"
)

// IngestHandler handles metric ingestion endpoints.
type IngestHandler struct {
	ingestService *service.IngestService
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingestService *service.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// UpsertRequest is the body for single-record ingestion. Data holds the raw
// source payload; field names are resolved against the per-source aliases.
type UpsertRequest struct {
	Source string                 `json:"source" binding:"required"`
	Data   map[string]interface{} `json:"data" binding:"required"`
}

// UpsertBatchRequest is the body for batch ingestion.
type UpsertBatchRequest struct {
	Source string                   `json:"source" binding:"required"`
	Data   []map[string]interface{} `json:"data" binding:"required"`
}

// Upsert handles POST /api/v1/ingest/upsert.
func (h *IngestHandler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.ingestService.IngestMetric(c.Request.Context(), req.Data, req.Source)
	if err != nil {
		if domain.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to ingest metric: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpsertBatch handles POST /api/v1/ingest/upsert-batch. Per-record failures
// are reported in the result, never as an HTTP error.
func (h *IngestHandler) UpsertBatch(c *gin.Context) {
	var req UpsertBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	result := h.ingestService.IngestBatch(c.Request.Context(), req.Data, req.Source)
	c.JSON(http.StatusOK, result)
}
