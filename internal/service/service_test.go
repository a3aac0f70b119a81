package service

import (
	"testing"

	"github.com/mkral/adpilot/internal/config"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return db
}

func newTestLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: "error", Format: "text"})
}

// testAgentConfig mirrors the default decision thresholds.
func testAgentConfig() config.AgentConfig {
	return config.AgentConfig{
		DaysBack:             30,
		ComparisonDays:       7,
		DropThreshold:        -20,
		SevereDropThreshold:  -30,
		OpportunityThreshold: 20,
		StrongOppThreshold:   50,
		ComparedMetrics:      []string{"roas", "ctr", "conversion_rate", "revenue"},
	}
}
