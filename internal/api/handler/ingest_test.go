package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/mkral/adpilot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	campaignRepo := repository.NewCampaignRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	log := logger.New(&logger.Config{Level: "error", Format: "text"})
	ingestService := service.NewIngestService(db, campaignRepo, metricRepo, log)

	r := gin.New()
	ingestHandler := NewIngestHandler(ingestService)
	campaignHandler := NewCampaignHandler(campaignRepo, metricRepo)
	r.POST("/api/v1/ingest/upsert", ingestHandler.Upsert)
	r.POST("/api/v1/ingest/upsert-batch", ingestHandler.UpsertBatch)
	r.GET("/api/v1/campaigns", campaignHandler.ListCampaigns)
	r.GET("/api/v1/campaigns/:id", campaignHandler.GetCampaign)
	r.GET("/api/v1/metrics/daily", campaignHandler.ListDailyMetrics)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func metricPayload() map[string]interface{} {
	return map[string]interface{}{
		"external_id": "fb-123",
		"campaign":    "Summer Sale",
		"date":        "2024-06-01",
		"impressions": 1000,
		"clicks":      50,
		"spend":       25.5,
		"conversions": 5,
		"revenue":     100.0,
	}
}

func TestUpsert_OK(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/ingest/upsert", gin.H{
		"source": "facebook",
		"data":   metricPayload(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.IngestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.CampaignID)
	assert.Equal(t, "Summer Sale", result.CampaignName)
	assert.Equal(t, "2024-06-01", result.Date)
}

func TestUpsert_ValidationErrorIs400(t *testing.T) {
	r := newTestRouter(t)

	data := metricPayload()
	delete(data, "external_id")
	w := postJSON(t, r, "/api/v1/ingest/upsert", gin.H{
		"source": "facebook",
		"data":   data,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "external_id")
}

func TestUpsert_MissingSourceIs400(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/ingest/upsert", gin.H{
		"data": metricPayload(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpsertBatch_ReportsPerRecordFailures(t *testing.T) {
	r := newTestRouter(t)

	good := metricPayload()
	bad := metricPayload()
	bad["impressions"] = -1

	w := postJSON(t, r, "/api/v1/ingest/upsert-batch", gin.H{
		"source": "facebook",
		"data":   []map[string]interface{}{good, bad},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.BatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
}

func TestGetCampaign_NotFoundIs404(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCampaigns_AfterIngest(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/ingest/upsert", gin.H{
		"source": "facebook",
		"data":   metricPayload(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns?source=facebook", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total)
}

func TestListDailyMetrics_DateFilter(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/ingest/upsert", gin.H{
		"source": "facebook",
		"data":   metricPayload(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics/daily?start_date=2024-06-01&end_date=2024-06-30", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/metrics/daily?start_date=bogus", nil)
	badReq := httptest.NewRecorder()
	r.ServeHTTP(badReq, req)
	assert.Equal(t, http.StatusBadRequest, badReq.Code)
}
