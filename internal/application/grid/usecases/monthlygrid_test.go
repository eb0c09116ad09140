package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/testutil"
	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
)

func day(d int) time.Time {
	return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC)
}

type gridFixture struct {
	allocRepo *testutil.MockAllocationRepository
	blockRepo *testutil.MockBlockRepository
	rooms     *testutil.MockRoomReader
	bookings  *testutil.MockBookingReader
	uc        *MonthlyGridUseCase
}

func newGridFixture(t *testing.T) *gridFixture {
	t.Helper()
	f := &gridFixture{
		allocRepo: testutil.NewMockAllocationRepository(),
		blockRepo: testutil.NewMockBlockRepository(),
		rooms:     testutil.NewMockRoomReader(),
		bookings:  testutil.NewMockBookingReader(),
	}
	f.uc = NewMonthlyGridUseCase(f.allocRepo, f.blockRepo, f.rooms, f.bookings, testutil.NewMockLogger())
	f.rooms.Put(booking.RoomView{ID: 101, RoomNumber: "101", RoomTypeID: 7, Floor: 1, IsActive: true})
	return f
}

func (f *gridFixture) seedAllocation(t *testing.T, bookingID uint, start, end time.Time) *alloc.RoomAllocation {
	t.Helper()
	a, err := alloc.NewRoomAllocation(bookingID, 101, "manual",
		vo.MustDateRange(start, end), "front-desk", false, false, 7,
		decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("NewRoomAllocation() error = %v", err)
	}
	if err := f.allocRepo.Create(alloc.WithConflictOverride(context.Background(), true), a, nil); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}
	f.bookings.Put(booking.BookingView{
		ID: bookingID, Status: booking.BookingStatusConfirmed,
		CheckInDate: start, CheckOutDate: end, RoomTypeID: 7, GuestName: "Guest",
	})
	return a
}

func (f *gridFixture) project(t *testing.T) *MonthlyGridResult {
	t.Helper()
	result, err := f.uc.Execute(context.Background(), MonthlyGridCommand{Year: 2025, Month: time.September})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return result
}

func cellFor(t *testing.T, row RoomGridRow, date string) DayCell {
	t.Helper()
	for _, c := range row.Days {
		if c.Date == date {
			return c
		}
	}
	t.Fatalf("no cell for %s", date)
	return DayCell{}
}

// A 09-10 to 09-12 stay shows occupied on the 10th and 11th and leaves the
// checkout day available.
func TestMonthlyGrid_SingleStay(t *testing.T) {
	f := newGridFixture(t)
	f.seedAllocation(t, 1, day(10), day(12))

	result := f.project(t)
	if len(result.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(result.Rooms))
	}
	row := result.Rooms[0]
	if len(row.Days) != 30 {
		t.Fatalf("days = %d, want 30 for September", len(row.Days))
	}

	checkIn := cellFor(t, row, "2025-09-10")
	if checkIn.Status != StatusOccupied || !checkIn.IsArrival {
		t.Errorf("check-in cell = %+v, want occupied with arrival flag", checkIn)
	}
	mid := cellFor(t, row, "2025-09-11")
	if mid.Status != StatusOccupied || mid.IsArrival || mid.IsDeparture {
		t.Errorf("mid-stay cell = %+v, want plain occupied", mid)
	}
	checkOut := cellFor(t, row, "2025-09-12")
	if checkOut.Status != StatusAvailable || !checkOut.IsDeparture {
		t.Errorf("checkout cell = %+v, want available with departure flag", checkOut)
	}
	if before := cellFor(t, row, "2025-09-09"); before.Status != StatusAvailable {
		t.Errorf("pre-stay cell = %+v, want available", before)
	}

	if row.OccupiedNights != 2 {
		t.Errorf("OccupiedNights = %d, want 2", row.OccupiedNights)
	}
	if got := result.Summary.OccupancyRate; got != 2.0/30.0 {
		t.Errorf("OccupancyRate = %v, want 2/30", got)
	}
}

// Same-day turnover renders the shared day as arriving with both flags.
func TestMonthlyGrid_SameDayTurnover(t *testing.T) {
	f := newGridFixture(t)
	f.seedAllocation(t, 1, day(10), day(12))
	f.seedAllocation(t, 2, day(12), day(14))

	row := f.project(t).Rooms[0]
	turnover := cellFor(t, row, "2025-09-12")
	if turnover.Status != StatusArriving {
		t.Errorf("turnover status = %s, want arriving", turnover.Status)
	}
	if !turnover.IsArrival || !turnover.IsDeparture {
		t.Errorf("turnover flags = %+v, want both set", turnover)
	}
	if turnover.BookingID != 2 {
		t.Errorf("turnover cell BookingID = %d, want the arriving booking", turnover.BookingID)
	}
}

func TestMonthlyGrid_BlockWins(t *testing.T) {
	f := newGridFixture(t)
	block, err := alloc.NewRoomBlock(101, day(5), day(6), vo.BlockTypeMaintenance,
		"pipe burst", false, 0, "engineering")
	if err != nil {
		t.Fatalf("NewRoomBlock() error = %v", err)
	}
	if err := f.blockRepo.Create(context.Background(), block); err != nil {
		t.Fatalf("block Create() error = %v", err)
	}

	row := f.project(t).Rooms[0]
	for _, date := range []string{"2025-09-05", "2025-09-06"} {
		if c := cellFor(t, row, date); c.Status != StatusBlocked || c.BlockID != block.ID() {
			t.Errorf("cell %s = %+v, want blocked", date, c)
		}
	}
	if c := cellFor(t, row, "2025-09-07"); c.Status != StatusAvailable {
		t.Errorf("day after block = %+v, want available", c)
	}
	if row.BlockedNights != 2 {
		t.Errorf("BlockedNights = %d, want 2", row.BlockedNights)
	}
}

func TestMonthlyGrid_PreAssignedShownButNotOccupied(t *testing.T) {
	f := newGridFixture(t)
	a, err := alloc.NewPreAssignment(1, 101, "auto", vo.MustDateRange(day(20), day(22)),
		"scheduler", false, 7, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("NewPreAssignment() error = %v", err)
	}
	if err := f.allocRepo.Create(context.Background(), a, nil); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}
	f.bookings.Put(booking.BookingView{ID: 1, Status: booking.BookingStatusConfirmed,
		CheckInDate: day(20), CheckOutDate: day(22), RoomTypeID: 7, GuestName: "Guest"})

	row := f.project(t).Rooms[0]
	if c := cellFor(t, row, "2025-09-20"); c.Status != StatusPreAssigned {
		t.Errorf("pre-assigned cell = %+v", c)
	}
	if row.OccupiedNights != 0 {
		t.Errorf("OccupiedNights = %d, want 0 for tentative hold", row.OccupiedNights)
	}
}

func TestMonthlyGrid_ShiftBookingSubCells(t *testing.T) {
	f := newGridFixture(t)
	shiftDate := day(15)
	a, err := alloc.NewRoomAllocation(1, 101, "manual",
		vo.MustDateRange(shiftDate, day(16)), "front-desk", false, false, 7,
		decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("NewRoomAllocation() error = %v", err)
	}
	if err := f.allocRepo.Create(context.Background(), a, nil); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}
	f.bookings.Put(booking.BookingView{
		ID: 1, Status: booking.BookingStatusConfirmed,
		CheckInDate: shiftDate, CheckOutDate: day(16), RoomTypeID: 7,
		GuestName: "Guest", ShiftType: booking.ShiftTypeDay, ShiftDate: &shiftDate,
	})

	row := f.project(t).Rooms[0]
	c := cellFor(t, row, "2025-09-15")
	if c.DayShift == nil || c.DayShift.BookingID != 1 {
		t.Errorf("day-shift sub-cell = %+v, want booking 1", c.DayShift)
	}
	if c.NightShift != nil {
		t.Errorf("night-shift sub-cell = %+v, want empty", c.NightShift)
	}
}

func TestMonthlyGrid_Validation(t *testing.T) {
	f := newGridFixture(t)

	if _, err := f.uc.Execute(context.Background(), MonthlyGridCommand{Year: 2025, Month: 13}); !errors.IsBadRequestError(err) {
		t.Errorf("invalid month error = %v, want BadRequest", err)
	}
	if _, err := f.uc.Execute(context.Background(), MonthlyGridCommand{Year: 99, Month: time.May}); !errors.IsBadRequestError(err) {
		t.Errorf("invalid year error = %v, want BadRequest", err)
	}
}
