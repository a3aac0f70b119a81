package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/repository"
)

func parseDateParam(v string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", v, time.UTC)
}

// CampaignHandler handles campaign query endpoints.
type CampaignHandler struct {
	campaignRepo *repository.CampaignRepository
	metricRepo   *repository.MetricRepository
}

// NewCampaignHandler creates a new campaign handler.
func NewCampaignHandler(campaignRepo *repository.CampaignRepository, metricRepo *repository.MetricRepository) *CampaignHandler {
	return &CampaignHandler{
		campaignRepo: campaignRepo,
		metricRepo:   metricRepo,
	}
}

// ListCampaigns handles GET /api/v1/campaigns.
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	source := c.Query("source")
	status := domain.CampaignStatus(c.Query("status"))

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	campaigns, total, err := h.campaignRepo.List(c.Request.Context(), source, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list campaigns: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": campaigns,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetCampaign handles GET /api/v1/campaigns/:id.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id := c.Param("id")

	campaign, err := h.campaignRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Campaign not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get campaign: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// ListDailyMetrics handles GET /api/v1/metrics/daily.
func (h *CampaignHandler) ListDailyMetrics(c *gin.Context) {
	filter := repository.MetricFilter{
		CampaignID: c.Query("campaign_id"),
		Source:     c.Query("source"),
	}

	if v := c.Query("start_date"); v != "" {
		start, err := parseDateParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
			return
		}
		filter.StartDate = &start
	}
	if v := c.Query("end_date"); v != "" {
		end, err := parseDateParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
			return
		}
		filter.EndDate = &end
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	metrics, total, err := h.metricRepo.List(c.Request.Context(), filter, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list metrics: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": metrics,
		"total":   total,
		"limit":   limit,
	})
}
