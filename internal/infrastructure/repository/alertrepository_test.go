package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"innkeep/internal/domain/alert"
	vo "innkeep/internal/domain/alert/valueobjects"
	"innkeep/internal/infrastructure/persistence/models"
)

func setupAlertTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.AllocationAlertModel{}))
	return gdb
}

func createTestAlert(t *testing.T, repo alert.AlertRepository, bookingID uint, alertType vo.AlertType, severity vo.Severity) *alert.AllocationAlert {
	t.Helper()

	a, err := alert.NewAllocationAlert(bookingID, nil, alertType, severity)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func backdateAlert(t *testing.T, gdb *gorm.DB, id uint, createdAt time.Time) {
	t.Helper()

	err := gdb.Model(&models.AllocationAlertModel{}).
		Where("id = ?", id).
		Update("created_at", createdAt).Error
	require.NoError(t, err)
}

func TestAlertRepository_FindOpenByBookingID(t *testing.T) {
	ctx := context.Background()
	gdb := setupAlertTestDB(t)
	repo := NewAlertRepository(gdb)

	t.Run("returns the open alert", func(t *testing.T) {
		created := createTestAlert(t, repo, 40, vo.AlertTypeUnassigned24h, vo.SeverityWarning)

		found, err := repo.FindOpenByBookingID(ctx, 40)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID(), found.ID())
		assert.Equal(t, vo.SeverityWarning, found.Severity())
	})

	t.Run("returns nil once resolved", func(t *testing.T) {
		created := createTestAlert(t, repo, 41, vo.AlertTypeUnassigned24h, vo.SeverityWarning)
		require.NoError(t, created.Resolve("frontdesk", "room assigned manually"))
		require.NoError(t, repo.Update(ctx, created))

		found, err := repo.FindOpenByBookingID(ctx, 41)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returns nil for unknown booking", func(t *testing.T) {
		found, err := repo.FindOpenByBookingID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestAlertRepository_ListUnresolved(t *testing.T) {
	ctx := context.Background()
	gdb := setupAlertTestDB(t)
	repo := NewAlertRepository(gdb)

	createTestAlert(t, repo, 50, vo.AlertTypeUnassigned24h, vo.SeverityInfo)
	createTestAlert(t, repo, 51, vo.AlertTypeUnassignedCritical, vo.SeverityCritical)
	createTestAlert(t, repo, 52, vo.AlertTypeUnassigned1h, vo.SeverityWarning)

	resolved := createTestAlert(t, repo, 53, vo.AlertTypeUnassigned24h, vo.SeverityWarning)
	require.NoError(t, resolved.Resolve("frontdesk", "handled"))
	require.NoError(t, repo.Update(ctx, resolved))

	t.Run("orders by severity then age and skips resolved", func(t *testing.T) {
		alerts, total, err := repo.ListUnresolved(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, alerts, 3)
		assert.Equal(t, vo.SeverityCritical, alerts[0].Severity())
		assert.Equal(t, vo.SeverityWarning, alerts[1].Severity())
		assert.Equal(t, vo.SeverityInfo, alerts[2].Severity())
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		alerts, total, err := repo.ListUnresolved(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, alerts, 1)
		assert.Equal(t, vo.SeverityWarning, alerts[0].Severity())
	})
}

func TestAlertRepository_ListStale(t *testing.T) {
	ctx := context.Background()
	gdb := setupAlertTestDB(t)
	repo := NewAlertRepository(gdb)

	now := time.Now().UTC()

	oldCritical := createTestAlert(t, repo, 60, vo.AlertTypeUnassignedCritical, vo.SeverityCritical)
	backdateAlert(t, gdb, oldCritical.ID(), now.Add(-3*time.Hour))

	oldInfo := createTestAlert(t, repo, 61, vo.AlertTypeUnassigned24h, vo.SeverityInfo)
	backdateAlert(t, gdb, oldInfo.ID(), now.Add(-3*time.Hour))

	// Fresh critical alert, inside the cutoff.
	createTestAlert(t, repo, 62, vo.AlertTypeUnassignedCritical, vo.SeverityCritical)

	t.Run("filters by minimum severity and cutoff", func(t *testing.T) {
		stale, err := repo.ListStale(ctx, vo.SeverityCritical, now.Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, uint(60), stale[0].BookingID())
	})

	t.Run("lower minimum severity widens the result", func(t *testing.T) {
		stale, err := repo.ListStale(ctx, vo.SeverityInfo, now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Len(t, stale, 2)
	})

	t.Run("resolved alerts are never stale", func(t *testing.T) {
		require.NoError(t, oldCritical.Resolve("frontdesk", "room found"))
		require.NoError(t, repo.Update(ctx, oldCritical))

		stale, err := repo.ListStale(ctx, vo.SeverityCritical, now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Empty(t, stale)
	})
}
