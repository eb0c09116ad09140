package usecases

import (
	"context"
	"fmt"
	"time"

	"innkeep/internal/domain/alert"
	vo "innkeep/internal/domain/alert/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type ScanUnassignedCommand struct {
	From time.Time
	To   time.Time
}

// UnassignedAlertInfo is one scan finding.
type UnassignedAlertInfo struct {
	AlertID     uint
	BookingID   uint
	GuestName   string
	CheckInDate time.Time
	HoursUntil  float64
	AlertType   string
	Severity    string
}

type ScanUnassignedResult struct {
	Created   int
	Refreshed int
	Alerts    []UnassignedAlertInfo
	// SummaryCounts tallies open findings per severity.
	SummaryCounts   map[string]int
	Recommendations []string
}

// ScanUnassignedUseCase finds confirmed bookings without an active room
// allocation and raises or refreshes one alert per booking. A pure scan plus
// alert upserts: it never assigns rooms itself.
type ScanUnassignedUseCase struct {
	alertRepo alert.AlertRepository
	bookings  booking.BookingReader
	logger    logger.Interface
}

func NewScanUnassignedUseCase(
	alertRepo alert.AlertRepository,
	bookings booking.BookingReader,
	logger logger.Interface,
) *ScanUnassignedUseCase {
	return &ScanUnassignedUseCase{
		alertRepo: alertRepo,
		bookings:  bookings,
		logger:    logger,
	}
}

func (uc *ScanUnassignedUseCase) Execute(ctx context.Context, cmd ScanUnassignedCommand) (*ScanUnassignedResult, error) {
	if !cmd.To.After(cmd.From) {
		return nil, errors.NewBadRequestError("scan window end must be after start")
	}

	uc.logger.Infow("scanning for unassigned bookings",
		"from", cmd.From.Format(time.DateOnly),
		"to", cmd.To.Format(time.DateOnly),
	)

	pending, err := uc.bookings.ListConfirmedUnassigned(ctx, cmd.From, cmd.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned bookings: %w", err)
	}

	now := time.Now().UTC()
	result := &ScanUnassignedResult{SummaryCounts: make(map[string]int)}

	for _, b := range pending {
		checkIn := checkInInstant(b)
		until := checkIn.Sub(now)
		if until < 0 {
			// Past check-ins are an operational mess, not a scheduling one;
			// keep them at maximum urgency.
			until = 0
		}
		severity := vo.SeverityForLeadTime(until)
		alertType := alertTypeForLeadTime(until)

		open, err := uc.alertRepo.FindOpenByBookingID(ctx, b.ID)
		if err != nil {
			uc.logger.Errorw("failed to look up open alert", "error", err, "booking_id", b.ID)
			continue
		}
		if open == nil {
			open, err = alert.NewAllocationAlert(b.ID, nil, alertType, severity)
			if err != nil {
				uc.logger.Errorw("failed to build alert", "error", err, "booking_id", b.ID)
				continue
			}
			if err := uc.alertRepo.Create(ctx, open); err != nil {
				uc.logger.Errorw("failed to create alert", "error", err, "booking_id", b.ID)
				continue
			}
			result.Created++
		} else {
			if err := open.Refresh(alertType, severity); err != nil {
				uc.logger.Warnw("failed to refresh alert", "error", err, "alert_id", open.ID())
				continue
			}
			if err := uc.alertRepo.Update(ctx, open); err != nil {
				uc.logger.Errorw("failed to update alert", "error", err, "alert_id", open.ID())
				continue
			}
			result.Refreshed++
		}

		result.Alerts = append(result.Alerts, UnassignedAlertInfo{
			AlertID:     open.ID(),
			BookingID:   b.ID,
			GuestName:   b.GuestName,
			CheckInDate: b.CheckInDate,
			HoursUntil:  until.Hours(),
			AlertType:   open.Type().String(),
			Severity:    open.Severity().String(),
		})
		result.SummaryCounts[open.Severity().String()]++
	}

	result.Recommendations = buildRecommendations(result.SummaryCounts)

	uc.logger.Infow("unassigned scan finished",
		"findings", len(result.Alerts),
		"created", result.Created,
		"refreshed", result.Refreshed,
	)
	return result, nil
}

// checkInInstant prefers the booking's check-in time of day when the feed
// provides one; otherwise the day boundary stands in.
func checkInInstant(b booking.BookingView) time.Time {
	if !b.CheckInTime.IsZero() {
		return b.CheckInTime
	}
	return b.CheckInDate
}

// alertTypeForLeadTime mirrors the severity mapping with one extra rung for
// the final hour.
func alertTypeForLeadTime(until time.Duration) vo.AlertType {
	switch {
	case until <= time.Hour:
		return vo.AlertTypeUnassigned1h
	case until <= 6*time.Hour:
		return vo.AlertTypeUnassignedCritical
	default:
		return vo.AlertTypeUnassigned24h
	}
}

func buildRecommendations(counts map[string]int) []string {
	var recs []string
	if n := counts[vo.SeverityCritical.String()] + counts[vo.SeverityEmergency.String()]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d booking(s) check in within 6 hours and need immediate manual assignment", n))
	}
	if n := counts[vo.SeverityWarning.String()]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d booking(s) check in within 24 hours, consider running auto-assignment", n))
	}
	if n := counts[vo.SeverityInfo.String()]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d booking(s) further out are still unassigned", n))
	}
	return recs
}
