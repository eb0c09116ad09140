package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/application/allocation/testutil"
	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
)

func testStayRange(t *testing.T) vo.DateRange {
	t.Helper()
	return vo.MustDateRange(day(2025, 9, 10), day(2025, 9, 12))
}

func mustRange(t *testing.T, start, end time.Time) vo.DateRange {
	t.Helper()
	return vo.MustDateRange(start, end)
}

type changeFixture struct {
	allocRepo *testutil.MockAllocationRepository
	blockRepo *testutil.MockBlockRepository
	rooms     *testutil.MockRoomReader
	uc        *ChangeRoomUseCase
}

func newChangeFixture(t *testing.T) *changeFixture {
	t.Helper()
	f := &changeFixture{
		allocRepo: testutil.NewMockAllocationRepository(),
		blockRepo: testutil.NewMockBlockRepository(),
		rooms:     testutil.NewMockRoomReader(),
	}
	f.uc = NewChangeRoomUseCase(f.allocRepo, f.blockRepo, f.rooms,
		services.NewRoomLocks(), nil, testutil.NewMockLogger())

	f.rooms.Put(booking.RoomView{ID: 101, RoomNumber: "101", RoomTypeID: 7, Floor: 1, IsActive: true})
	f.rooms.Put(booking.RoomView{ID: 205, RoomNumber: "205", RoomTypeID: 8, Floor: 2, IsActive: true})
	return f
}

func (f *changeFixture) seedAllocation(t *testing.T) *alloc.RoomAllocation {
	t.Helper()
	a, err := alloc.NewRoomAllocation(1, 101, "manual", testStayRange(t),
		"front-desk", false, false, 7, decimal.NewFromInt(100), decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("NewRoomAllocation() error = %v", err)
	}
	entry, err := alloc.NewHistoryEntry(0, 1, alloc.HistoryActionAssigned,
		nil, nil, nil, nil, "", a.Status().String(), decimal.Zero, "front-desk", "")
	if err != nil {
		t.Fatalf("NewHistoryEntry() error = %v", err)
	}
	if err := f.allocRepo.Create(context.Background(), a, entry); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}
	return a
}

// After a change exactly one new history record exists, the old allocation is
// inactive, and the replacement points back at the old room.
func TestChangeRoom_TransitionPreserving(t *testing.T) {
	f := newChangeFixture(t)
	old := f.seedAllocation(t)
	before := len(f.allocRepo.Entries())

	result, err := f.uc.Execute(context.Background(), ChangeRoomCommand{
		AllocationID: old.ID(),
		NewRoomID:    205,
		Reason:       "guest upgrade",
		ApplyCharges: true,
		NewRate:      decimal.NewFromInt(150),
		ChangedBy:    "manager",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got := len(f.allocRepo.Entries()) - before; got != 1 {
		t.Errorf("history entries added = %d, want exactly 1", got)
	}
	if old.IsActive() {
		t.Error("old allocation should no longer be active")
	}

	repl, _ := f.allocRepo.GetByID(context.Background(), result.AllocationID)
	if repl == nil {
		t.Fatal("replacement allocation not persisted")
	}
	if repl.PreviousRoomID() == nil || *repl.PreviousRoomID() != 101 {
		t.Errorf("PreviousRoomID = %v, want 101", repl.PreviousRoomID())
	}
	if !result.RateAdjustment.Equal(decimal.NewFromInt(50)) {
		t.Errorf("RateAdjustment = %s, want 50", result.RateAdjustment)
	}
	if result.HistoryID == 0 {
		t.Error("result should reference the history record")
	}
}

func TestChangeRoom_ConflictOnTargetRoom(t *testing.T) {
	f := newChangeFixture(t)
	old := f.seedAllocation(t)

	// Another active allocation already holds room 205 for the same stay.
	other, err := alloc.NewRoomAllocation(2, 205, "manual", testStayRange(t),
		"front-desk", false, false, 8, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("NewRoomAllocation() error = %v", err)
	}
	if err := f.allocRepo.Create(context.Background(), other, nil); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	result, err := f.uc.Execute(context.Background(), ChangeRoomCommand{
		AllocationID: old.ID(),
		NewRoomID:    205,
		ChangedBy:    "manager",
	})
	if !errors.IsConflictError(err) {
		t.Fatalf("Execute() error = %v, want Conflict", err)
	}
	if result == nil || len(result.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v, want the occupying allocation listed", result)
	}
	if old.IsActive() != true {
		t.Error("failed change must leave the old allocation untouched")
	}
}

func TestChangeRoom_NotFound(t *testing.T) {
	f := newChangeFixture(t)

	if _, err := f.uc.Execute(context.Background(), ChangeRoomCommand{
		AllocationID: 42, NewRoomID: 205, ChangedBy: "manager",
	}); !errors.IsNotFoundError(err) {
		t.Errorf("missing allocation error = %v, want NotFound", err)
	}

	old := f.seedAllocation(t)
	_ = old.Cancel("manager", "guest cancelled")
	if _, err := f.uc.Execute(context.Background(), ChangeRoomCommand{
		AllocationID: old.ID(), NewRoomID: 205, ChangedBy: "manager",
	}); !errors.IsNotFoundError(err) {
		t.Errorf("cancelled allocation error = %v, want NotFound", err)
	}
}
