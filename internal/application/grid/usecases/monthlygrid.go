package usecases

import (
	"context"
	"fmt"
	"time"

	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/biztime"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

// Day cell statuses.
const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusBlocked     = "blocked"
	StatusArriving    = "arriving"
	StatusDeparting   = "departing"
	StatusPreAssigned = "pre_assigned"
	StatusCleaning    = "cleaning"
)

type MonthlyGridCommand struct {
	Year       int
	Month      time.Month
	RoomID     *uint
	Floor      *int
	RoomTypeID *uint
}

// ShiftCell is a sub-booking occupying only the day or night shift of a
// shift-based stay.
type ShiftCell struct {
	AllocationID uint
	BookingID    uint
	GuestName    string
}

// DayCell is one room-day of the grid. Arrival and departure flags are set
// when the day equals an allocation boundary regardless of the status shown.
type DayCell struct {
	Date         string
	Status       string
	IsArrival    bool
	IsDeparture  bool
	AllocationID uint
	BookingID    uint
	GuestName    string
	BlockID      uint
	DayShift     *ShiftCell
	NightShift   *ShiftCell
}

type RoomGridRow struct {
	RoomID         uint
	RoomNumber     string
	RoomTypeID     uint
	Floor          int
	Days           []DayCell
	OccupiedNights int
	BlockedNights  int
}

// GridSummary aggregates occupancy over the month: occupied room-nights over
// room-nights not lost to blocks.
type GridSummary struct {
	Rooms          int
	DaysInMonth    int
	OccupiedNights int
	BlockedNights  int
	OccupancyRate  float64
}

type MonthlyGridResult struct {
	Year    int
	Month   time.Month
	Rooms   []RoomGridRow
	Summary GridSummary
}

// MonthlyGridUseCase projects the day-by-room occupancy matrix for one
// calendar month. A pure read: it reflects a snapshot and never mutates.
type MonthlyGridUseCase struct {
	allocRepo alloc.AllocationRepository
	blockRepo alloc.BlockRepository
	rooms     booking.RoomReader
	bookings  booking.BookingReader
	logger    logger.Interface
}

func NewMonthlyGridUseCase(
	allocRepo alloc.AllocationRepository,
	blockRepo alloc.BlockRepository,
	rooms booking.RoomReader,
	bookings booking.BookingReader,
	logger logger.Interface,
) *MonthlyGridUseCase {
	return &MonthlyGridUseCase{
		allocRepo: allocRepo,
		blockRepo: blockRepo,
		rooms:     rooms,
		bookings:  bookings,
		logger:    logger,
	}
}

func (uc *MonthlyGridUseCase) Execute(ctx context.Context, cmd MonthlyGridCommand) (*MonthlyGridResult, error) {
	if cmd.Year < 2000 || cmd.Year > 2200 {
		return nil, errors.NewBadRequestError(fmt.Sprintf("invalid year: %d", cmd.Year))
	}
	if cmd.Month < time.January || cmd.Month > time.December {
		return nil, errors.NewBadRequestError(fmt.Sprintf("invalid month: %d", cmd.Month))
	}

	first, nextFirst := biztime.MonthRange(cmd.Year, cmd.Month)
	daysInMonth := int(nextFirst.Sub(first).Hours() / 24)

	rooms, err := uc.loadRooms(ctx, cmd)
	if err != nil {
		return nil, err
	}

	result := &MonthlyGridResult{
		Year:  cmd.Year,
		Month: cmd.Month,
		Summary: GridSummary{
			Rooms:       len(rooms),
			DaysInMonth: daysInMonth,
		},
	}
	if len(rooms) == 0 {
		return result, nil
	}

	roomIDs := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		roomIDs = append(roomIDs, r.ID)
	}

	// Pre-assigned holds are shown on the grid even though they never block
	// assignments.
	allocations, err := uc.allocRepo.FindActiveInRange(ctx, first, nextFirst, roomIDs, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations: %w", err)
	}
	blocks, err := uc.blockRepo.FindActiveInRange(ctx, first, nextFirst, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}

	allocsByRoom := make(map[uint][]*alloc.RoomAllocation)
	for _, a := range allocations {
		allocsByRoom[a.RoomID()] = append(allocsByRoom[a.RoomID()], a)
	}
	blocksByRoom := make(map[uint][]*alloc.RoomBlock)
	for _, b := range blocks {
		blocksByRoom[b.RoomID()] = append(blocksByRoom[b.RoomID()], b)
	}
	bookingCache := uc.loadBookings(ctx, allocations)

	today := biztime.DateOf(time.Now())
	for _, room := range rooms {
		row := uc.projectRoom(room, first, daysInMonth, today,
			allocsByRoom[room.ID], blocksByRoom[room.ID], bookingCache)
		result.Rooms = append(result.Rooms, row)
		result.Summary.OccupiedNights += row.OccupiedNights
		result.Summary.BlockedNights += row.BlockedNights
	}

	sellable := result.Summary.Rooms*daysInMonth - result.Summary.BlockedNights
	if sellable > 0 {
		result.Summary.OccupancyRate = float64(result.Summary.OccupiedNights) / float64(sellable)
	}
	return result, nil
}

func (uc *MonthlyGridUseCase) projectRoom(
	room booking.RoomView,
	first time.Time,
	daysInMonth int,
	today time.Time,
	allocations []*alloc.RoomAllocation,
	blocks []*alloc.RoomBlock,
	bookings map[uint]*booking.BookingView,
) RoomGridRow {
	row := RoomGridRow{
		RoomID:     room.ID,
		RoomNumber: room.RoomNumber,
		RoomTypeID: room.RoomTypeID,
		Floor:      room.Floor,
		Days:       make([]DayCell, 0, daysInMonth),
	}

	for i := 0; i < daysInMonth; i++ {
		d := first.AddDate(0, 0, i)
		cell := DayCell{Date: d.Format(time.DateOnly), Status: StatusAvailable}

		var covering, arriving, departing, preAssigned *alloc.RoomAllocation
		for _, a := range allocations {
			stay := a.Stay()
			boundsDay := !d.Before(stay.Start()) && d.Before(stay.End())
			if a.Status() == vo.AssignmentStatusPreAssigned {
				if boundsDay {
					preAssigned = a
				}
				continue
			}
			if !a.IsActive() {
				continue
			}
			if boundsDay {
				covering = a
				if d.Equal(stay.Start()) {
					arriving = a
				}
			}
			if d.Equal(stay.End()) {
				departing = a
			}
		}
		cell.IsArrival = arriving != nil
		cell.IsDeparture = departing != nil

		var blocked *alloc.RoomBlock
		for _, b := range blocks {
			if b.Range().Contains(d) {
				blocked = b
				break
			}
		}

		switch {
		case blocked != nil:
			cell.Status = StatusBlocked
			cell.BlockID = blocked.ID()
			row.BlockedNights++
		case covering != nil:
			// Same-day turnover shows as arriving; a plain check-in day is
			// occupied with the arrival flag set.
			cell.Status = StatusOccupied
			if arriving != nil && departing != nil {
				cell.Status = StatusArriving
			}
			uc.fillOccupant(&cell, covering, bookings)
			row.OccupiedNights++
		case preAssigned != nil:
			cell.Status = StatusPreAssigned
			uc.fillOccupant(&cell, preAssigned, bookings)
		case departing != nil && departing.RequiresInspection():
			// Departure day of a stay that needs post-checkout inspection
			// stays out of sale until housekeeping signs it off.
			cell.Status = StatusCleaning
		case departing != nil && d.Equal(today):
			cell.Status = StatusDeparting
		}

		row.Days = append(row.Days, cell)
	}
	return row
}

// fillOccupant attaches the occupying allocation and, for shift-based
// bookings, the day and night shift sub-cells.
func (uc *MonthlyGridUseCase) fillOccupant(cell *DayCell, a *alloc.RoomAllocation, bookings map[uint]*booking.BookingView) {
	cell.AllocationID = a.ID()
	cell.BookingID = a.BookingID()

	b := bookings[a.BookingID()]
	if b == nil {
		return
	}
	cell.GuestName = b.GuestName
	if !b.ShiftType.IsShiftBased() {
		return
	}

	shift := &ShiftCell{
		AllocationID: a.ID(),
		BookingID:    b.ID,
		GuestName:    b.GuestName,
	}
	switch b.ShiftType {
	case booking.ShiftTypeDay:
		cell.DayShift = shift
	case booking.ShiftTypeNight:
		cell.NightShift = shift
	case booking.ShiftTypeFullDay:
		cell.DayShift = shift
		cell.NightShift = shift
	}
}

func (uc *MonthlyGridUseCase) loadRooms(ctx context.Context, cmd MonthlyGridCommand) ([]booking.RoomView, error) {
	rooms, err := uc.rooms.ListActive(ctx, cmd.RoomTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	var out []booking.RoomView
	for _, r := range rooms {
		if cmd.RoomID != nil && r.ID != *cmd.RoomID {
			continue
		}
		if cmd.Floor != nil && r.Floor != *cmd.Floor {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (uc *MonthlyGridUseCase) loadBookings(ctx context.Context, allocations []*alloc.RoomAllocation) map[uint]*booking.BookingView {
	out := make(map[uint]*booking.BookingView)
	for _, a := range allocations {
		id := a.BookingID()
		if _, seen := out[id]; seen {
			continue
		}
		b, err := uc.bookings.GetByID(ctx, id)
		if err != nil {
			uc.logger.Warnw("failed to load booking for grid", "booking_id", id, "error", err)
			continue
		}
		out[id] = b
	}
	return out
}
