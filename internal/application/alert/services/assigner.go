// Package services bridges the alert layer to the assignment engine.
package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/application/allocation/strategies"
	allocuc "innkeep/internal/application/allocation/usecases"
	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

// AssignmentBridge satisfies the alert layer's Assigner port by delegating to
// the single-booking assignment use case. The automatic path scores free rooms
// the same way the batch engine does, but for exactly one booking.
type AssignmentBridge struct {
	assignRoom   *allocuc.AssignRoomUseCase
	availability *services.AvailabilityMapService
	bookings     booking.BookingReader
	prefRepo     alloc.PreferenceRepository
	logger       logger.Interface
}

func NewAssignmentBridge(
	assignRoom *allocuc.AssignRoomUseCase,
	availability *services.AvailabilityMapService,
	bookings booking.BookingReader,
	prefRepo alloc.PreferenceRepository,
	logger logger.Interface,
) *AssignmentBridge {
	return &AssignmentBridge{
		assignRoom:   assignRoom,
		availability: availability,
		bookings:     bookings,
		prefRepo:     prefRepo,
		logger:       logger,
	}
}

func (br *AssignmentBridge) AssignManually(ctx context.Context, bookingID, roomID uint, actor string) (uint, error) {
	result, err := br.assignRoom.Execute(ctx, allocuc.AssignRoomCommand{
		BookingID:      bookingID,
		RoomID:         roomID,
		AssignmentType: string(vo.AssignmentTypeManual),
		Reason:         "bulk alert resolution",
		AssignedBy:     actor,
		OriginalRate:   decimal.Zero,
		AllocatedRate:  decimal.Zero,
	})
	if err != nil {
		return 0, err
	}
	return result.AllocationID, nil
}

func (br *AssignmentBridge) AssignAutomatically(ctx context.Context, bookingID uint, strategy, actor string) (uint, error) {
	if strategy == "" {
		strategy = strategies.OptimizeOccupancy
	}
	scorer, err := strategies.Get(strategy)
	if err != nil {
		return 0, err
	}

	b, err := br.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to get booking: %w", err)
	}
	if b == nil {
		return 0, errors.NewNotFoundError(fmt.Sprintf("booking %d not found", bookingID))
	}

	stay, err := vo.NewDateRange(b.CheckInDate, b.CheckOutDate)
	if err != nil {
		return 0, errors.NewBadRequestError("booking has invalid dates", err.Error())
	}

	avail, err := br.availability.Build(ctx, stay, &b.RoomTypeID)
	if err != nil {
		return 0, err
	}

	var pref *alloc.GuestRoomPreferences
	if b.GuestID != 0 {
		if p, err := br.prefRepo.GetByGuestID(ctx, b.GuestID); err == nil {
			pref = p
		} else if !errors.IsNotFoundError(err) {
			br.logger.Warnw("failed to load guest preferences",
				"guest_id", b.GuestID, "error", err)
		}
	}

	sctx := &strategies.Context{Availability: avail, Now: stay.Start().UTC()}
	var best *services.RoomAvailability
	var bestScore float64
	for _, ra := range avail.Rooms {
		if ra.Room.RoomTypeID != b.RoomTypeID || !ra.Room.IsActive || !ra.IsFree(stay) {
			continue
		}
		if pref != nil && pref.AvoidsRoom(ra.Room.ID) {
			continue
		}
		score := scorer.Score(*b, ra.Room, sctx) + strategies.PreferenceScore(pref, ra.Room)
		if best == nil || score > bestScore || (score == bestScore && ra.Room.ID < best.Room.ID) {
			best, bestScore = ra, score
		}
	}
	if best == nil {
		return 0, errors.NewConflictError(fmt.Sprintf("no room of type %d is free for booking %d", b.RoomTypeID, bookingID))
	}

	result, err := br.assignRoom.Execute(ctx, allocuc.AssignRoomCommand{
		BookingID:      bookingID,
		RoomID:         best.Room.ID,
		AssignmentType: string(vo.AssignmentTypeAuto),
		Reason:         "bulk alert resolution",
		AssignedBy:     actor,
		OriginalRate:   decimal.Zero,
		AllocatedRate:  decimal.Zero,
	})
	if err != nil {
		return 0, err
	}
	return result.AllocationID, nil
}
