package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/application/allocation/strategies"
	"innkeep/internal/domain/alert"
	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

// Failure reasons reported per booking by the batch.
const (
	FailureNoRoomsAvailable   = "no_rooms_available"
	FailureTypeMismatch       = "type_mismatch"
	FailurePreferenceConflict = "preference_conflict"
	FailureWriteConflict      = "write_conflict"
)

type AutoAssignCommand struct {
	From               time.Time
	To                 time.Time
	Strategy           string
	RespectPreferences bool
	RoomTypeID         *uint
	VIPOnly            bool
	AssignedBy         string
}

// AutoAssignDetail is the per-booking outcome inside a batch.
type AutoAssignDetail struct {
	BookingID     uint
	GuestName     string
	RoomID        uint
	RoomNumber    string
	AllocationID  uint
	Assigned      bool
	FailureReason string
}

type AutoAssignResult struct {
	CreatedCount int
	FailedCount  int
	Details      []AutoAssignDetail
}

// AutoAssignUseCase assigns rooms to every confirmed-but-unassigned booking
// in a date range using a named scoring strategy. One booking's failure never
// aborts the batch; cancellation stops scheduling new bookings and returns
// the partial result with the context error.
type AutoAssignUseCase struct {
	allocRepo    alloc.AllocationRepository
	blockRepo    alloc.BlockRepository
	alertRepo    alert.AlertRepository
	prefRepo     alloc.PreferenceRepository
	ruleRepo     alloc.RuleRepository
	bookings     booking.BookingReader
	availability *services.AvailabilityMapService
	locks        *services.RoomLocks
	cache        services.SnapshotCache
	vipThreshold int
	logger       logger.Interface
}

func NewAutoAssignUseCase(
	allocRepo alloc.AllocationRepository,
	blockRepo alloc.BlockRepository,
	alertRepo alert.AlertRepository,
	prefRepo alloc.PreferenceRepository,
	ruleRepo alloc.RuleRepository,
	bookings booking.BookingReader,
	availability *services.AvailabilityMapService,
	locks *services.RoomLocks,
	cache services.SnapshotCache,
	vipThreshold int,
	logger logger.Interface,
) *AutoAssignUseCase {
	return &AutoAssignUseCase{
		allocRepo:    allocRepo,
		blockRepo:    blockRepo,
		alertRepo:    alertRepo,
		prefRepo:     prefRepo,
		ruleRepo:     ruleRepo,
		bookings:     bookings,
		availability: availability,
		locks:        locks,
		cache:        cache,
		vipThreshold: vipThreshold,
		logger:       logger,
	}
}

func (uc *AutoAssignUseCase) Execute(ctx context.Context, cmd AutoAssignCommand) (*AutoAssignResult, error) {
	uc.logger.Infow("executing auto assign use case",
		"from", cmd.From.Format(time.DateOnly),
		"to", cmd.To.Format(time.DateOnly),
		"strategy", cmd.Strategy,
		"vip_only", cmd.VIPOnly,
	)

	window, err := vo.NewDateRange(cmd.From, cmd.To)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid date range", err.Error())
	}
	scorer, err := strategies.Get(cmd.Strategy)
	if err != nil {
		return nil, err
	}

	pending, err := uc.bookings.ListConfirmedUnassigned(ctx, window.Start(), window.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned bookings: %w", err)
	}

	result := &AutoAssignResult{}
	if len(pending) == 0 {
		return result, nil
	}

	prefs := uc.loadPreferences(ctx, pending)
	if cmd.VIPOnly {
		pending = uc.filterVIP(pending, prefs)
	}

	rules, err := uc.ruleRepo.ListEnabled(ctx)
	if err != nil {
		uc.logger.Warnw("failed to load allocation rules, continuing without", "error", err)
		rules = nil
	}

	horizon := batchHorizon(window, pending)
	avail, err := uc.availability.Build(ctx, horizon, cmd.RoomTypeID)
	if err != nil {
		return nil, err
	}

	sctx := &strategies.Context{
		Availability: avail,
		Preferences:  prefs,
		Now:          time.Now().UTC(),
	}
	if cmd.Strategy == strategies.DistributeWear {
		roomIDs := make([]uint, 0, len(avail.Rooms))
		for id := range avail.Rooms {
			roomIDs = append(roomIDs, id)
		}
		last, err := uc.allocRepo.LastAssignmentTimes(ctx, roomIDs)
		if err != nil {
			uc.logger.Warnw("failed to load last assignment times", "error", err)
			last = map[uint]time.Time{}
		}
		sctx.LastAssigned = last
	}

	strategies.SortBookings(cmd.Strategy, pending, prefs, uc.vipThreshold)

	created := 0
	for _, b := range pending {
		if ctx.Err() != nil {
			uc.logger.Warnw("auto assign cancelled, returning partial result",
				"processed", len(result.Details), "pending", len(pending)-len(result.Details))
			if created > 0 {
				uc.invalidateAvailability(context.WithoutCancel(ctx))
			}
			return result, ctx.Err()
		}

		detail := uc.assignOne(ctx, b, cmd, scorer, sctx, rules)
		result.Details = append(result.Details, detail)
		if detail.Assigned {
			created++
			result.CreatedCount++
		} else {
			result.FailedCount++
		}
	}

	if created > 0 {
		uc.invalidateAvailability(ctx)
	}

	uc.logger.Infow("auto assign finished",
		"strategy", cmd.Strategy,
		"created", result.CreatedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (uc *AutoAssignUseCase) assignOne(
	ctx context.Context,
	b booking.BookingView,
	cmd AutoAssignCommand,
	scorer strategies.Scorer,
	sctx *strategies.Context,
	rules []*alloc.AllocationRule,
) AutoAssignDetail {
	detail := AutoAssignDetail{BookingID: b.ID, GuestName: b.GuestName}

	stay, err := stayFromBooking(b.CheckInDate, b.CheckOutDate, b.ShiftDate, b.ShiftType.IsShiftBased())
	if err != nil {
		uc.logger.Warnw("booking has invalid dates, skipping",
			"booking_id", b.ID, "error", err)
		detail.FailureReason = FailureNoRoomsAvailable
		return detail
	}

	if cmd.RoomTypeID != nil && b.RoomTypeID != *cmd.RoomTypeID {
		detail.FailureReason = FailureTypeMismatch
		return detail
	}

	pref := sctx.Preferences[b.GuestID]

	// Candidate rooms: correct type, free for the stay, not on the guest's
	// avoid list when preferences are respected.
	var free, candidates []*services.RoomAvailability
	for _, ra := range sctx.Availability.Rooms {
		if ra.Room.RoomTypeID != b.RoomTypeID || !ra.Room.IsActive {
			continue
		}
		if !ra.IsFree(stay) {
			continue
		}
		free = append(free, ra)
		if cmd.RespectPreferences && pref != nil && pref.AvoidsRoom(ra.Room.ID) {
			continue
		}
		candidates = append(candidates, ra)
	}
	if len(free) == 0 {
		detail.FailureReason = FailureNoRoomsAvailable
		return detail
	}
	if len(candidates) == 0 {
		detail.FailureReason = FailurePreferenceConflict
		return detail
	}

	best := uc.pickBest(b, candidates, cmd, scorer, sctx, rules, pref)

	if err := uc.commit(ctx, b, best.Room, stay, cmd.AssignedBy, sctx, &detail); err != nil {
		uc.logger.Warnw("auto assignment failed",
			"booking_id", b.ID, "room_id", best.Room.ID, "error", err)
		if errors.IsConflictError(err) {
			detail.FailureReason = FailureWriteConflict
		} else {
			detail.FailureReason = FailureNoRoomsAvailable
		}
	}
	return detail
}

func (uc *AutoAssignUseCase) pickBest(
	b booking.BookingView,
	candidates []*services.RoomAvailability,
	cmd AutoAssignCommand,
	scorer strategies.Scorer,
	sctx *strategies.Context,
	rules []*alloc.AllocationRule,
	pref *alloc.GuestRoomPreferences,
) *services.RoomAvailability {
	best := candidates[0]
	bestScore := uc.score(b, best.Room, cmd, scorer, sctx, rules, pref)
	for _, ra := range candidates[1:] {
		score := uc.score(b, ra.Room, cmd, scorer, sctx, rules, pref)
		// Ties go to the lowest room ID so batches are deterministic.
		if score > bestScore || (score == bestScore && ra.Room.ID < best.Room.ID) {
			best, bestScore = ra, score
		}
	}
	return best
}

func (uc *AutoAssignUseCase) score(
	b booking.BookingView,
	room booking.RoomView,
	cmd AutoAssignCommand,
	scorer strategies.Scorer,
	sctx *strategies.Context,
	rules []*alloc.AllocationRule,
	pref *alloc.GuestRoomPreferences,
) float64 {
	score := scorer.Score(b, room, sctx)
	if cmd.RespectPreferences {
		score += strategies.PreferenceScore(pref, room)
	}
	score += strategies.RuleScore(rules, b, room, sctx.Now)
	return score
}

// commit writes one allocation under the room's lock and feeds the new
// interval back into the batch's availability snapshot.
func (uc *AutoAssignUseCase) commit(
	ctx context.Context,
	b booking.BookingView,
	room booking.RoomView,
	stay vo.DateRange,
	assignedBy string,
	sctx *strategies.Context,
	detail *AutoAssignDetail,
) error {
	unlock := uc.locks.Lock(room.ID)
	defer unlock()

	a, err := alloc.NewRoomAllocation(b.ID, room.ID, vo.AssignmentTypeAuto, stay,
		assignedBy, b.IsVIP, b.IsGuaranteed, b.RoomTypeID,
		decimal.Zero, decimal.Zero)
	if err != nil {
		return err
	}
	newRoomID := room.ID
	entry, err := alloc.NewHistoryEntry(0, b.ID, alloc.HistoryActionAutoAssigned,
		nil, &newRoomID, nil, &stay, "", a.Status().String(),
		decimal.Zero, assignedBy, "automated batch assignment")
	if err != nil {
		return err
	}

	if err := uc.allocRepo.Create(ctx, a, entry); err != nil {
		return err
	}

	sctx.Availability.AddBusy(room.ID, services.BusyInterval{
		Kind:  services.SourceAllocation,
		ID:    a.ID(),
		Range: stay,
	})
	if sctx.LastAssigned != nil {
		sctx.LastAssigned[room.ID] = sctx.Now
	}

	detail.Assigned = true
	detail.RoomID = room.ID
	detail.RoomNumber = room.RoomNumber
	detail.AllocationID = a.ID()

	uc.autoResolveAlert(ctx, b.ID, a.ID())
	return nil
}

func (uc *AutoAssignUseCase) loadPreferences(ctx context.Context, bookings []booking.BookingView) map[uint]*alloc.GuestRoomPreferences {
	prefs := make(map[uint]*alloc.GuestRoomPreferences)
	for _, b := range bookings {
		if b.GuestID == 0 {
			continue
		}
		if _, seen := prefs[b.GuestID]; seen {
			continue
		}
		p, err := uc.prefRepo.GetByGuestID(ctx, b.GuestID)
		if err != nil {
			if !errors.IsNotFoundError(err) {
				uc.logger.Warnw("failed to load guest preferences",
					"guest_id", b.GuestID, "error", err)
			}
			continue
		}
		if p != nil {
			prefs[b.GuestID] = p
		}
	}
	return prefs
}

func (uc *AutoAssignUseCase) filterVIP(bookings []booking.BookingView, prefs map[uint]*alloc.GuestRoomPreferences) []booking.BookingView {
	var out []booking.BookingView
	for _, b := range bookings {
		if b.IsVIP {
			out = append(out, b)
			continue
		}
		if p, ok := prefs[b.GuestID]; ok && p.PriorityLevel >= uc.vipThreshold {
			out = append(out, b)
		}
	}
	return out
}

func (uc *AutoAssignUseCase) invalidateAvailability(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warnw("failed to invalidate availability cache", "error", err)
	}
}

func (uc *AutoAssignUseCase) autoResolveAlert(ctx context.Context, bookingID, allocationID uint) {
	open, err := uc.alertRepo.FindOpenByBookingID(ctx, bookingID)
	if err != nil {
		uc.logger.Warnw("failed to look up open alert", "error", err, "booking_id", bookingID)
		return
	}
	if open == nil || !open.Type().IsUnassigned() {
		return
	}
	open.LinkAllocation(allocationID)
	if err := open.AutoResolve("room assigned"); err != nil {
		return
	}
	if err := uc.alertRepo.Update(ctx, open); err != nil {
		uc.logger.Warnw("failed to persist auto-resolved alert", "error", err, "alert_id", open.ID())
	}
}

// batchHorizon is the smallest interval covering the request window and every
// pending stay, so gap scoring sees each booking's full extent.
func batchHorizon(window vo.DateRange, bookings []booking.BookingView) vo.DateRange {
	start, end := window.Start(), window.End()
	for _, b := range bookings {
		if !b.CheckInDate.IsZero() && b.CheckInDate.Before(start) {
			start = b.CheckInDate
		}
		if !b.CheckOutDate.IsZero() && b.CheckOutDate.After(end) {
			end = b.CheckOutDate
		}
		if b.ShiftDate != nil && b.ShiftDate.AddDate(0, 0, 1).After(end) {
			end = b.ShiftDate.AddDate(0, 0, 1)
		}
	}
	h, err := vo.NewDateRange(start, end)
	if err != nil {
		return window
	}
	return h
}
