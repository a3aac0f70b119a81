package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/mkral/adpilot/internal/service"
)

// AgentHandler handles agent run endpoints.
type AgentHandler struct {
	agentService *service.AgentService
	runRepo      *repository.RunRepository
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(agentService *service.AgentService, runRepo *repository.RunRepository) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		runRepo:      runRepo,
	}
}

// RunWeekly handles POST /api/v1/agent/run-weekly. The pipeline runs
// synchronously; a failed run still returns the run record with its error.
func (h *AgentHandler) RunWeekly(c *gin.Context) {
	run, err := h.agentService.RunWeekly(c.Request.Context())
	if err != nil {
		if run != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
				"run":   run,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start run: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListRuns handles GET /api/v1/agent/runs.
func (h *AgentHandler) ListRuns(c *gin.Context) {
	runType := c.Query("run_type")
	status := domain.RunStatus(c.Query("status"))

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, total, err := h.runRepo.List(c.Request.Context(), runType, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list runs: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":   runs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetRun handles GET /api/v1/agent/runs/:id.
func (h *AgentHandler) GetRun(c *gin.Context) {
	id := c.Param("id")

	run, err := h.runRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Run not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get run: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, run)
}
