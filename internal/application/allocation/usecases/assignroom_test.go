package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/application/allocation/testutil"
	"innkeep/internal/domain/alert"
	alertvo "innkeep/internal/domain/alert/valueobjects"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type assignFixture struct {
	allocRepo *testutil.MockAllocationRepository
	blockRepo *testutil.MockBlockRepository
	alertRepo *testutil.MockAlertRepository
	bookings  *testutil.MockBookingReader
	rooms     *testutil.MockRoomReader
	uc        *AssignRoomUseCase
}

func newAssignFixture(t *testing.T) *assignFixture {
	t.Helper()
	f := &assignFixture{
		allocRepo: testutil.NewMockAllocationRepository(),
		blockRepo: testutil.NewMockBlockRepository(),
		alertRepo: testutil.NewMockAlertRepository(),
		bookings:  testutil.NewMockBookingReader(),
		rooms:     testutil.NewMockRoomReader(),
	}
	f.uc = NewAssignRoomUseCase(f.allocRepo, f.blockRepo, f.alertRepo,
		f.bookings, f.rooms, services.NewRoomLocks(), nil, testutil.NewMockLogger())

	f.rooms.Put(booking.RoomView{ID: 101, RoomNumber: "101", RoomTypeID: 7, Floor: 1, IsActive: true})
	return f
}

func (f *assignFixture) addBooking(id uint, checkIn, checkOut time.Time) {
	f.bookings.Put(booking.BookingView{
		ID:           id,
		Status:       booking.BookingStatusConfirmed,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		RoomTypeID:   7,
		GuestID:      id,
		GuestName:    "Guest",
	})
}

func (f *assignFixture) assign(t *testing.T, bookingID uint, override bool) (*AssignRoomResult, error) {
	t.Helper()
	return f.uc.Execute(context.Background(), AssignRoomCommand{
		BookingID:         bookingID,
		RoomID:            101,
		Reason:            "front desk request",
		OverrideConflicts: override,
		AssignedBy:        "front-desk",
		OriginalRate:      decimal.NewFromInt(100),
		AllocatedRate:     decimal.NewFromInt(100),
	})
}

// Room 101 holds 09-10 to 09-12; a 09-11 to 09-13 request must fail with the
// colliding allocation listed, and succeed with one warning under override.
func TestAssignRoom_OverlapConflictAndOverride(t *testing.T) {
	f := newAssignFixture(t)
	f.addBooking(1, day(2025, 9, 10), day(2025, 9, 12))
	f.addBooking(2, day(2025, 9, 11), day(2025, 9, 13))

	if _, err := f.assign(t, 1, false); err != nil {
		t.Fatalf("first assignment error = %v", err)
	}

	result, err := f.assign(t, 2, false)
	if !errors.IsConflictError(err) {
		t.Fatalf("overlapping assignment error = %v, want Conflict", err)
	}
	if result == nil || len(result.Conflicts) != 1 {
		t.Fatalf("conflicting result = %+v, want one conflict listed", result)
	}
	if result.Conflicts[0].Kind != services.SourceAllocation {
		t.Errorf("conflict kind = %v, want allocation", result.Conflicts[0].Kind)
	}

	result, err = f.assign(t, 2, true)
	if err != nil {
		t.Fatalf("override assignment error = %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("override warnings = %v, want exactly one", result.Warnings)
	}
	if result.AllocationID == 0 {
		t.Error("override assignment should create an allocation")
	}
}

// Same-day turnover: a stay starting on another stay's checkout date is not a
// conflict under half-open interval semantics.
func TestAssignRoom_SameDayTurnover(t *testing.T) {
	f := newAssignFixture(t)
	f.addBooking(1, day(2025, 9, 10), day(2025, 9, 12))
	f.addBooking(2, day(2025, 9, 12), day(2025, 9, 14))

	if _, err := f.assign(t, 1, false); err != nil {
		t.Fatalf("first assignment error = %v", err)
	}

	result, err := f.assign(t, 2, false)
	if err != nil {
		t.Fatalf("turnover assignment error = %v, want success", err)
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("turnover conflicts = %v, want none", result.Conflicts)
	}
}

func TestAssignRoom_Idempotent(t *testing.T) {
	f := newAssignFixture(t)
	f.addBooking(1, day(2025, 9, 10), day(2025, 9, 12))

	first, err := f.assign(t, 1, false)
	if err != nil {
		t.Fatalf("first assignment error = %v", err)
	}
	second, err := f.assign(t, 1, false)
	if err != nil {
		t.Fatalf("repeat assignment error = %v, want no-op", err)
	}
	if second.AllocationID != first.AllocationID {
		t.Errorf("repeat AllocationID = %d, want %d (no duplicate row)",
			second.AllocationID, first.AllocationID)
	}
}

func TestAssignRoom_GuaranteedBookingLocks(t *testing.T) {
	f := newAssignFixture(t)
	f.bookings.Put(booking.BookingView{
		ID:           1,
		Status:       booking.BookingStatusConfirmed,
		CheckInDate:  day(2025, 9, 10),
		CheckOutDate: day(2025, 9, 12),
		RoomTypeID:   7,
		IsGuaranteed: true,
	})

	result, err := f.assign(t, 1, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Status != vo.AssignmentStatusLocked.String() {
		t.Errorf("Status = %s, want locked for guaranteed booking", result.Status)
	}
}

func TestAssignRoom_BlockConflict(t *testing.T) {
	f := newAssignFixture(t)
	f.addBooking(1, day(2025, 9, 10), day(2025, 9, 12))

	createBlock := NewCreateBlockUseCase(f.blockRepo, f.allocRepo,
		testutil.NewMockHistoryRepository(), f.rooms, services.NewRoomLocks(), nil,
		testutil.NewMockLogger())
	if _, err := createBlock.Execute(context.Background(), CreateBlockCommand{
		RoomID:    101,
		StartDate: "2025-09-11",
		EndDate:   "2025-09-11",
		BlockType: "maintenance",
		Reason:    "leaking shower",
		CreatedBy: "engineering",
	}); err != nil {
		t.Fatalf("CreateBlock error = %v", err)
	}

	result, err := f.assign(t, 1, false)
	if !errors.IsConflictError(err) {
		t.Fatalf("Execute() error = %v, want Conflict from active block", err)
	}
	if result == nil || len(result.Conflicts) != 1 || result.Conflicts[0].Kind != services.SourceBlock {
		t.Fatalf("conflicts = %+v, want the block listed", result)
	}
}

func TestAssignRoom_AutoResolvesOpenAlert(t *testing.T) {
	f := newAssignFixture(t)
	f.addBooking(1, day(2025, 9, 10), day(2025, 9, 12))

	open, err := alert.NewAllocationAlert(1, nil, alertvo.AlertTypeUnassigned24h, alertvo.SeverityWarning)
	if err != nil {
		t.Fatalf("NewAllocationAlert() error = %v", err)
	}
	if err := f.alertRepo.Create(context.Background(), open); err != nil {
		t.Fatalf("alert create error = %v", err)
	}

	if _, err := f.assign(t, 1, false); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	stored, _ := f.alertRepo.GetByID(context.Background(), open.ID())
	if !stored.IsResolved() || !stored.AutoResolved() {
		t.Error("open unassigned alert should be auto-resolved by the assignment")
	}
}

func TestAssignRoom_NotFoundAndValidation(t *testing.T) {
	f := newAssignFixture(t)

	if _, err := f.assign(t, 99, false); !errors.IsNotFoundError(err) {
		t.Errorf("missing booking error = %v, want NotFound", err)
	}

	f.addBooking(1, day(2025, 9, 10), day(2025, 9, 12))
	if _, err := f.uc.Execute(context.Background(), AssignRoomCommand{
		BookingID: 1, RoomID: 999, AssignedBy: "front-desk",
	}); !errors.IsNotFoundError(err) {
		t.Errorf("missing room error = %v, want NotFound", err)
	}

	if _, err := f.uc.Execute(context.Background(), AssignRoomCommand{RoomID: 101}); !errors.IsValidationError(err) {
		t.Errorf("missing booking ID error = %v, want Validation", err)
	}

	// Inverted dates from upstream surface as BadRequest, not a panic.
	f.bookings.Put(booking.BookingView{
		ID:           3,
		Status:       booking.BookingStatusConfirmed,
		CheckInDate:  day(2025, 9, 12),
		CheckOutDate: day(2025, 9, 10),
		RoomTypeID:   7,
	})
	if _, err := f.assign(t, 3, false); !errors.IsBadRequestError(err) {
		t.Errorf("inverted dates error = %v, want BadRequest", err)
	}
}
