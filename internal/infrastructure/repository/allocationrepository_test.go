package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/db"
	"innkeep/internal/shared/errors"
)

func setupAllocationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.RoomAllocationModel{},
		&models.AllocationHistoryModel{},
		&models.RoomBlockModel{},
	))
	return gdb
}

func testStay(t *testing.T, startDay, endDay int) vo.DateRange {
	t.Helper()
	return vo.MustDateRange(
		time.Date(2026, time.March, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, endDay, 0, 0, 0, 0, time.UTC),
	)
}

func newTestAllocation(t *testing.T, bookingID, roomID uint, stay vo.DateRange) *alloc.RoomAllocation {
	t.Helper()

	a, err := alloc.NewRoomAllocation(bookingID, roomID, vo.AssignmentTypeManual, stay,
		"tester", false, false, 1, decimal.NewFromInt(100), decimal.NewFromInt(100))
	require.NoError(t, err)
	return a
}

func newAssignedEntry(t *testing.T, bookingID, roomID uint, stay vo.DateRange) *alloc.AllocationHistory {
	t.Helper()

	entry, err := alloc.NewHistoryEntry(0, bookingID, alloc.HistoryActionAssigned,
		nil, &roomID, nil, &stay,
		"", vo.AssignmentStatusAssigned.String(),
		decimal.Zero, "tester", "initial assignment")
	require.NoError(t, err)
	return entry
}

func TestAllocationRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("persists allocation with linked history entry", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		stay := testStay(t, 1, 5)
		a := newTestAllocation(t, 10, 101, stay)
		entry := newAssignedEntry(t, 10, 101, stay)

		require.NoError(t, repo.Create(ctx, a, entry))
		assert.NotZero(t, a.ID())
		assert.NotZero(t, entry.ID())

		var historyModel models.AllocationHistoryModel
		require.NoError(t, gdb.First(&historyModel, entry.ID()).Error)
		assert.Equal(t, a.ID(), historyModel.AllocationID)
		assert.Equal(t, uint(10), historyModel.BookingID)

		loaded, err := repo.GetByID(ctx, a.ID())
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, uint(101), loaded.RoomID())
		assert.Equal(t, vo.AssignmentStatusAssigned, loaded.Status())
	})

	t.Run("overlapping stay on the same room returns conflict", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 11, 201, testStay(t, 1, 5)), nil))

		err := repo.Create(ctx, newTestAllocation(t, 12, 201, testStay(t, 3, 7)), nil)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("back to back stays do not conflict", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 13, 301, testStay(t, 1, 5)), nil))
		// Checkout day equals check-in day, a same-day turnover.
		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 14, 301, testStay(t, 5, 8)), nil))
	})

	t.Run("override skips the overlap guard", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 15, 401, testStay(t, 1, 5)), nil))

		overrideCtx := alloc.WithConflictOverride(ctx, true)
		err := repo.Create(overrideCtx, newTestAllocation(t, 16, 401, testStay(t, 3, 7)), nil)
		require.NoError(t, err)
	})

	t.Run("active block on the room returns conflict", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))
		blockRepo := NewBlockRepository(gdb)

		// Blocked March 2 through March 4 inclusive.
		block, err := alloc.NewRoomBlock(451,
			time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC),
			vo.BlockTypeMaintenance, "plumbing", false, 0, "engineering")
		require.NoError(t, err)
		require.NoError(t, blockRepo.Create(ctx, block))

		err = repo.Create(ctx, newTestAllocation(t, 19, 451, testStay(t, 3, 6)), nil)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))

		// A stay starting the day after the block ends is clear.
		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 19, 451, testStay(t, 5, 8)), nil))

		// The override context assigns over the block.
		overrideCtx := alloc.WithConflictOverride(ctx, true)
		require.NoError(t, repo.Create(overrideCtx, newTestAllocation(t, 24, 451, testStay(t, 2, 5)), nil))
	})

	t.Run("identical active stay is rejected even with override", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 17, 501, testStay(t, 1, 5)), nil))

		overrideCtx := alloc.WithConflictOverride(ctx, true)
		err := repo.Create(overrideCtx, newTestAllocation(t, 18, 501, testStay(t, 1, 5)), nil)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})
}

func TestAllocationRepository_Supersede(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels old row and inserts replacement", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		stay := testStay(t, 10, 14)
		old := newTestAllocation(t, 20, 601, stay)
		require.NoError(t, repo.Create(ctx, old, nil))

		replacement, err := old.ChangeTo(602, decimal.NewFromInt(120), true, "manager", "maintenance issue")
		require.NoError(t, err)

		prevRoom := uint(601)
		newRoom := uint(602)
		entry, err := alloc.NewHistoryEntry(0, 20, alloc.HistoryActionChanged,
			&prevRoom, &newRoom, &stay, &stay,
			vo.AssignmentStatusAssigned.String(), vo.AssignmentStatusAssigned.String(),
			decimal.NewFromInt(80), "manager", "maintenance issue")
		require.NoError(t, err)

		require.NoError(t, repo.Supersede(ctx, old, replacement, entry))
		assert.NotZero(t, replacement.ID())
		assert.NotEqual(t, old.ID(), replacement.ID())

		cancelled, err := repo.GetByID(ctx, old.ID())
		require.NoError(t, err)
		require.NotNil(t, cancelled)
		assert.Equal(t, vo.AssignmentStatusCancelled, cancelled.Status())

		active, err := repo.GetActiveByBookingID(ctx, 20)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, uint(602), active.RoomID())
		require.NotNil(t, active.PreviousRoomID())
		assert.Equal(t, uint(601), *active.PreviousRoomID())

		var historyModel models.AllocationHistoryModel
		require.NoError(t, gdb.First(&historyModel, entry.ID()).Error)
		assert.Equal(t, replacement.ID(), historyModel.AllocationID)
	})

	t.Run("already cancelled row returns conflict", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		stay := testStay(t, 10, 14)
		old := newTestAllocation(t, 21, 701, stay)
		require.NoError(t, repo.Create(ctx, old, nil))

		replacement, err := old.ChangeTo(702, decimal.NewFromInt(120), false, "manager", "room change")
		require.NoError(t, err)
		require.NoError(t, repo.Supersede(ctx, old, replacement, nil))

		// A second writer racing on the same original allocation.
		second := newTestAllocation(t, 21, 703, stay)
		err = repo.Supersede(ctx, old, second, nil)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("replacement is conflict checked excluding the superseded row", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		stay := testStay(t, 10, 14)
		old := newTestAllocation(t, 22, 801, stay)
		require.NoError(t, repo.Create(ctx, old, nil))
		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 23, 802, testStay(t, 12, 16)), nil))

		replacement, err := old.ChangeTo(802, decimal.NewFromInt(120), false, "manager", "guest request")
		require.NoError(t, err)

		err = repo.Supersede(ctx, old, replacement, nil)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))

		// The failed supersede must not have cancelled the original.
		current, err := repo.GetByID(ctx, old.ID())
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, vo.AssignmentStatusAssigned, current.Status())
	})
}

func TestAllocationRepository_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("GetActiveByBookingID ignores cancelled allocations", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		a := newTestAllocation(t, 30, 901, testStay(t, 1, 5))
		require.NoError(t, repo.Create(ctx, a, nil))
		require.NoError(t, a.Cancel("tester", "guest cancelled"))
		require.NoError(t, repo.Update(ctx, a))

		active, err := repo.GetActiveByBookingID(ctx, 30)
		require.NoError(t, err)
		assert.Nil(t, active)
	})

	t.Run("GetByID returns nil for missing allocation", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		loaded, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("FindOverlapping honors the exclude ID", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		a := newTestAllocation(t, 31, 1001, testStay(t, 1, 5))
		require.NoError(t, repo.Create(ctx, a, nil))

		probe := testStay(t, 3, 7)
		found, err := repo.FindOverlapping(ctx, 1001, probe, 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, a.ID(), found[0].ID())

		found, err = repo.FindOverlapping(ctx, 1001, probe, a.ID())
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("FindActiveInRange filters by room and window", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 32, 1101, testStay(t, 1, 5)), nil))
		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 33, 1102, testStay(t, 6, 9)), nil))
		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 34, 1103, testStay(t, 20, 25)), nil))

		from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

		found, err := repo.FindActiveInRange(ctx, from, to, []uint{1101, 1102, 1103}, false)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, uint(1101), found[0].RoomID())
		assert.Equal(t, uint(1102), found[1].RoomID())

		found, err = repo.FindActiveInRange(ctx, from, to, []uint{1102}, false)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, uint(1102), found[0].RoomID())
	})

	t.Run("LastAssignmentTimes excludes cancelled allocations", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		require.NoError(t, repo.Create(ctx, newTestAllocation(t, 35, 1201, testStay(t, 1, 5)), nil))

		cancelled := newTestAllocation(t, 36, 1202, testStay(t, 1, 5))
		require.NoError(t, repo.Create(ctx, cancelled, nil))
		require.NoError(t, cancelled.Cancel("tester", "no show"))
		require.NoError(t, repo.Update(ctx, cancelled))

		times, err := repo.LastAssignmentTimes(ctx, []uint{1201, 1202})
		require.NoError(t, err)
		assert.Contains(t, times, uint(1201))
		assert.NotContains(t, times, uint(1202))
	})

	t.Run("LastAssignmentTimes keeps the most recent assignment per room", func(t *testing.T) {
		gdb := setupAllocationTestDB(t)
		repo := NewAllocationRepository(db.NewTransactionManager(gdb))

		older := newTestAllocation(t, 37, 1301, testStay(t, 1, 5))
		require.NoError(t, repo.Create(ctx, older, nil))
		// Age the first assignment so the two rows are clearly apart.
		backdated := time.Now().UTC().Add(-48 * time.Hour)
		require.NoError(t, gdb.Model(&models.RoomAllocationModel{}).
			Where("id = ?", older.ID()).
			Update("assigned_at", backdated).Error)

		newer := newTestAllocation(t, 38, 1301, testStay(t, 10, 14))
		require.NoError(t, repo.Create(ctx, newer, nil))

		times, err := repo.LastAssignmentTimes(ctx, []uint{1301})
		require.NoError(t, err)
		require.Contains(t, times, uint(1301))
		assert.True(t, times[uint(1301)].After(backdated.Add(time.Hour)))
	})
}
