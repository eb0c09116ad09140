// Package alert holds the allocation alert aggregate: a time-sensitive
// notice that a confirmed booking still has no room, or that an assignment
// needs operator attention.
package alert

import (
	"fmt"
	"sync"
	"time"

	vo "innkeep/internal/domain/alert/valueobjects"
)

// AllocationAlert is created by the unassigned-booking scan, mutated only by
// resolution or escalation, and never duplicated for the same booking while
// unresolved.
type AllocationAlert struct {
	id                   uint
	bookingID            uint
	allocationID         *uint
	alertType            vo.AlertType
	severity             vo.Severity
	isResolved           bool
	resolvedAt           *time.Time
	resolvedBy           string
	resolutionNotes      string
	autoResolved         bool
	escalationLevel      int
	escalatedAt          *time.Time
	escalatedTo          []string
	notifiedUsers        []string
	notificationChannels []string
	createdAt            time.Time
	updatedAt            time.Time
	mu                   sync.RWMutex
}

// NewAllocationAlert creates an open alert for a booking.
func NewAllocationAlert(
	bookingID uint,
	allocationID *uint,
	alertType vo.AlertType,
	severity vo.Severity,
) (*AllocationAlert, error) {
	if bookingID == 0 {
		return nil, fmt.Errorf("booking ID is required")
	}
	if !alertType.IsValid() {
		return nil, fmt.Errorf("invalid alert type: %s", alertType)
	}
	if !severity.IsValid() {
		return nil, fmt.Errorf("invalid severity: %s", severity)
	}

	now := time.Now().UTC()
	return &AllocationAlert{
		bookingID:    bookingID,
		allocationID: allocationID,
		alertType:    alertType,
		severity:     severity,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructAllocationAlert rebuilds an alert from persistence.
func ReconstructAllocationAlert(
	id uint,
	bookingID uint,
	allocationID *uint,
	alertType vo.AlertType,
	severity vo.Severity,
	isResolved bool,
	resolvedAt *time.Time,
	resolvedBy string,
	resolutionNotes string,
	autoResolved bool,
	escalationLevel int,
	escalatedAt *time.Time,
	escalatedTo []string,
	notifiedUsers []string,
	notificationChannels []string,
	createdAt, updatedAt time.Time,
) (*AllocationAlert, error) {
	if id == 0 {
		return nil, fmt.Errorf("alert ID cannot be zero")
	}
	if !alertType.IsValid() {
		return nil, fmt.Errorf("invalid alert type: %s", alertType)
	}
	if !severity.IsValid() {
		return nil, fmt.Errorf("invalid severity: %s", severity)
	}

	return &AllocationAlert{
		id:                   id,
		bookingID:            bookingID,
		allocationID:         allocationID,
		alertType:            alertType,
		severity:             severity,
		isResolved:           isResolved,
		resolvedAt:           resolvedAt,
		resolvedBy:           resolvedBy,
		resolutionNotes:      resolutionNotes,
		autoResolved:         autoResolved,
		escalationLevel:      escalationLevel,
		escalatedAt:          escalatedAt,
		escalatedTo:          escalatedTo,
		notifiedUsers:        notifiedUsers,
		notificationChannels: notificationChannels,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}, nil
}

func (a *AllocationAlert) ID() uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id
}

func (a *AllocationAlert) BookingID() uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bookingID
}

func (a *AllocationAlert) AllocationID() *uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.allocationID
}

func (a *AllocationAlert) Type() vo.AlertType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.alertType
}

func (a *AllocationAlert) Severity() vo.Severity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.severity
}

func (a *AllocationAlert) IsResolved() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isResolved
}

func (a *AllocationAlert) ResolvedAt() *time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolvedAt
}

func (a *AllocationAlert) ResolvedBy() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolvedBy
}

func (a *AllocationAlert) ResolutionNotes() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolutionNotes
}

func (a *AllocationAlert) AutoResolved() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.autoResolved
}

func (a *AllocationAlert) EscalationLevel() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.escalationLevel
}

func (a *AllocationAlert) EscalatedAt() *time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.escalatedAt
}

func (a *AllocationAlert) EscalatedTo() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.escalatedTo
}

func (a *AllocationAlert) NotifiedUsers() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.notifiedUsers
}

func (a *AllocationAlert) NotificationChannels() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.notificationChannels
}

func (a *AllocationAlert) CreatedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.createdAt
}

func (a *AllocationAlert) UpdatedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.updatedAt
}

func (a *AllocationAlert) SetID(id uint) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.id != 0 {
		return fmt.Errorf("alert ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("alert ID cannot be zero")
	}
	a.id = id
	return nil
}

// Refresh updates the computed type and severity on re-scan. Severity never
// decreases on an open alert; urgency only grows as check-in approaches.
func (a *AllocationAlert) Refresh(alertType vo.AlertType, severity vo.Severity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isResolved {
		return fmt.Errorf("resolved alert cannot be refreshed")
	}
	a.alertType = alertType
	if severity.Rank() > a.severity.Rank() {
		a.severity = severity
	}
	a.updatedAt = time.Now().UTC()
	return nil
}

// Resolve transitions the alert to RESOLVED.
func (a *AllocationAlert) Resolve(by, notes string) error {
	return a.resolve(by, notes, false)
}

// AutoResolve marks the alert resolved by the system, typically because the
// booking just received a room.
func (a *AllocationAlert) AutoResolve(notes string) error {
	return a.resolve("system", notes, true)
}

// Dismiss resolves the alert without any assignment having happened.
func (a *AllocationAlert) Dismiss(by, notes string) error {
	if notes == "" {
		notes = "dismissed"
	}
	return a.resolve(by, notes, false)
}

func (a *AllocationAlert) resolve(by, notes string, auto bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isResolved {
		return fmt.Errorf("alert is already resolved")
	}
	now := time.Now().UTC()
	a.isResolved = true
	a.resolvedAt = &now
	a.resolvedBy = by
	a.resolutionNotes = notes
	a.autoResolved = auto
	a.updatedAt = now
	return nil
}

// Escalate raises the alert's escalation level and records the widened
// recipient set.
func (a *AllocationAlert) Escalate(recipients []string, channels []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isResolved {
		return fmt.Errorf("resolved alert cannot be escalated")
	}
	now := time.Now().UTC()
	a.escalationLevel++
	a.escalatedAt = &now
	a.escalatedTo = appendMissing(a.escalatedTo, recipients)
	a.notifiedUsers = appendMissing(a.notifiedUsers, recipients)
	a.notificationChannels = appendMissing(a.notificationChannels, channels)
	if a.escalationLevel > 1 {
		a.severity = vo.SeverityEmergency
	}
	a.updatedAt = now
	return nil
}

// LinkAllocation records the allocation that satisfied (or failed) this
// alert's booking.
func (a *AllocationAlert) LinkAllocation(allocationID uint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.allocationID = &allocationID
	a.updatedAt = time.Now().UTC()
}

func appendMissing(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range incoming {
		if !seen[v] {
			existing = append(existing, v)
			seen[v] = true
		}
	}
	return existing
}
