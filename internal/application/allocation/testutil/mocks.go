// Package testutil provides in-memory mock implementations for testing the
// allocation application layer.
package testutil

import (
	"context"
	"sync"
	"time"

	"innkeep/internal/domain/alert"
	alertvo "innkeep/internal/domain/alert/valueobjects"
	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

// MockAllocationRepository is an in-memory alloc.AllocationRepository. Like
// the real implementation it re-checks overlaps inside Create and Supersede,
// so conflict-race tests behave the same way against the mock.
type MockAllocationRepository struct {
	mu          sync.RWMutex
	allocations map[uint]*alloc.RoomAllocation
	entries     []*alloc.AllocationHistory
	nextID      uint

	// Error injection for testing
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockAllocationRepository() *MockAllocationRepository {
	return &MockAllocationRepository{
		allocations: make(map[uint]*alloc.RoomAllocation),
	}
}

func (m *MockAllocationRepository) Create(ctx context.Context, a *alloc.RoomAllocation, entry *alloc.AllocationHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if !alloc.ConflictOverridden(ctx) {
		for _, existing := range m.allocations {
			if existing.RoomID() == a.RoomID() && existing.IsActive() && existing.Stay().Overlaps(a.Stay()) {
				return errors.NewConflictError("overlapping active allocation on room")
			}
		}
	}

	m.nextID++
	if err := a.SetID(m.nextID); err != nil {
		return err
	}
	m.allocations[a.ID()] = a
	if entry != nil {
		entry.SetAllocationID(a.ID())
		m.appendEntryLocked(entry)
	}
	return nil
}

func (m *MockAllocationRepository) Supersede(ctx context.Context, old, replacement *alloc.RoomAllocation, entry *alloc.AllocationHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	if !alloc.ConflictOverridden(ctx) {
		for _, existing := range m.allocations {
			if existing.ID() == old.ID() || existing.RoomID() != replacement.RoomID() {
				continue
			}
			if existing.IsActive() && existing.Stay().Overlaps(replacement.Stay()) {
				return errors.NewConflictError("overlapping active allocation on room")
			}
		}
	}

	m.allocations[old.ID()] = old
	m.nextID++
	if err := replacement.SetID(m.nextID); err != nil {
		return err
	}
	m.allocations[replacement.ID()] = replacement
	if entry != nil {
		entry.SetAllocationID(replacement.ID())
		m.appendEntryLocked(entry)
	}
	return nil
}

func (m *MockAllocationRepository) Update(ctx context.Context, a *alloc.RoomAllocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.allocations[a.ID()] = a
	return nil
}

func (m *MockAllocationRepository) GetByID(ctx context.Context, id uint) (*alloc.RoomAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.allocations[id], nil
}

func (m *MockAllocationRepository) GetActiveByBookingID(ctx context.Context, bookingID uint) (*alloc.RoomAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, a := range m.allocations {
		if a.BookingID() == bookingID && a.IsActive() {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockAllocationRepository) FindOverlapping(ctx context.Context, roomID uint, stay vo.DateRange, excludeID uint) ([]*alloc.RoomAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	var out []*alloc.RoomAllocation
	for _, a := range m.allocations {
		if a.RoomID() != roomID || a.ID() == excludeID || !a.IsActive() {
			continue
		}
		if a.Stay().Overlaps(stay) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAllocationRepository) FindActiveInRange(ctx context.Context, from, to time.Time, roomIDs []uint, includePreAssigned bool) ([]*alloc.RoomAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	window, err := vo.NewDateRange(from, to)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid range", err.Error())
	}
	var out []*alloc.RoomAllocation
	for _, a := range m.allocations {
		if len(roomIDs) > 0 && !containsID(roomIDs, a.RoomID()) {
			continue
		}
		if !a.IsActive() && !(includePreAssigned && a.Status() == vo.AssignmentStatusPreAssigned) {
			continue
		}
		if a.Stay().Overlaps(window) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAllocationRepository) LastAssignmentTimes(ctx context.Context, roomIDs []uint) (map[uint]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[uint]time.Time)
	for _, a := range m.allocations {
		if a.Status() == vo.AssignmentStatusCancelled {
			continue
		}
		if len(roomIDs) > 0 && !containsID(roomIDs, a.RoomID()) {
			continue
		}
		if cur, ok := out[a.RoomID()]; !ok || a.AssignedAt().After(cur) {
			out[a.RoomID()] = a.AssignedAt()
		}
	}
	return out, nil
}

// Entries returns the recorded history entries in insertion order.
func (m *MockAllocationRepository) Entries() []*alloc.AllocationHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*alloc.AllocationHistory(nil), m.entries...)
}

func (m *MockAllocationRepository) appendEntryLocked(entry *alloc.AllocationHistory) {
	if entry.ID() == 0 {
		_ = entry.SetID(uint(len(m.entries) + 1))
	}
	m.entries = append(m.entries, entry)
}

// MockBlockRepository is an in-memory alloc.BlockRepository.
type MockBlockRepository struct {
	mu     sync.RWMutex
	blocks map[uint]*alloc.RoomBlock
	nextID uint

	CreateError error
	GetError    error
}

func NewMockBlockRepository() *MockBlockRepository {
	return &MockBlockRepository{blocks: make(map[uint]*alloc.RoomBlock)}
}

func (m *MockBlockRepository) Create(ctx context.Context, b *alloc.RoomBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	m.nextID++
	if err := b.SetID(m.nextID); err != nil {
		return err
	}
	m.blocks[b.ID()] = b
	return nil
}

func (m *MockBlockRepository) Update(ctx context.Context, b *alloc.RoomBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[b.ID()] = b
	return nil
}

func (m *MockBlockRepository) GetByID(ctx context.Context, id uint) (*alloc.RoomBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.blocks[id], nil
}

func (m *MockBlockRepository) FindActiveInRange(ctx context.Context, from, to time.Time, roomIDs []uint) ([]*alloc.RoomBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	window, err := vo.NewDateRange(from, to)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid range", err.Error())
	}
	var out []*alloc.RoomBlock
	for _, b := range m.blocks {
		if !b.IsActive() {
			continue
		}
		if len(roomIDs) > 0 && !containsID(roomIDs, b.RoomID()) {
			continue
		}
		if b.Range().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

// MockHistoryRepository is an in-memory alloc.HistoryRepository.
type MockHistoryRepository struct {
	mu      sync.RWMutex
	entries []*alloc.AllocationHistory

	CreateError error
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Create(ctx context.Context, entry *alloc.AllocationHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if entry.ID() == 0 {
		_ = entry.SetID(uint(len(m.entries) + 1))
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockHistoryRepository) ListByAllocation(ctx context.Context, allocationID uint) ([]*alloc.AllocationHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*alloc.AllocationHistory
	for _, e := range m.entries {
		if e.AllocationID() == allocationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockHistoryRepository) ListByBooking(ctx context.Context, bookingID uint) ([]*alloc.AllocationHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*alloc.AllocationHistory
	for _, e := range m.entries {
		if e.BookingID() == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Entries returns all recorded entries.
func (m *MockHistoryRepository) Entries() []*alloc.AllocationHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*alloc.AllocationHistory(nil), m.entries...)
}

// MockPreferenceRepository is an in-memory alloc.PreferenceRepository.
type MockPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[uint]*alloc.GuestRoomPreferences
}

func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{prefs: make(map[uint]*alloc.GuestRoomPreferences)}
}

func (m *MockPreferenceRepository) Put(p *alloc.GuestRoomPreferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[p.GuestID] = p
}

func (m *MockPreferenceRepository) GetByGuestID(ctx context.Context, guestID uint) (*alloc.GuestRoomPreferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs[guestID], nil
}

// MockRuleRepository is an in-memory alloc.RuleRepository.
type MockRuleRepository struct {
	mu    sync.RWMutex
	rules []*alloc.AllocationRule
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{}
}

func (m *MockRuleRepository) Put(r *alloc.AllocationRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, r)
}

func (m *MockRuleRepository) ListEnabled(ctx context.Context) ([]*alloc.AllocationRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*alloc.AllocationRule
	for _, r := range m.rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}

// MockAlertRepository is an in-memory alert.AlertRepository.
type MockAlertRepository struct {
	mu     sync.RWMutex
	alerts map[uint]*alert.AllocationAlert
	nextID uint

	CreateError error
	UpdateError error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{alerts: make(map[uint]*alert.AllocationAlert)}
}

func (m *MockAlertRepository) Create(ctx context.Context, a *alert.AllocationAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	m.nextID++
	if err := a.SetID(m.nextID); err != nil {
		return err
	}
	m.alerts[a.ID()] = a
	return nil
}

func (m *MockAlertRepository) Update(ctx context.Context, a *alert.AllocationAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.alerts[a.ID()] = a
	return nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id uint) (*alert.AllocationAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alerts[id], nil
}

func (m *MockAlertRepository) FindOpenByBookingID(ctx context.Context, bookingID uint) (*alert.AllocationAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.alerts {
		if a.BookingID() == bookingID && !a.IsResolved() {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockAlertRepository) ListUnresolved(ctx context.Context, limit, offset int) ([]*alert.AllocationAlert, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var open []*alert.AllocationAlert
	for _, a := range m.alerts {
		if !a.IsResolved() {
			open = append(open, a)
		}
	}
	total := int64(len(open))
	if offset >= len(open) {
		return nil, total, nil
	}
	open = open[offset:]
	if limit > 0 && limit < len(open) {
		open = open[:limit]
	}
	return open, total, nil
}

func (m *MockAlertRepository) ListStale(ctx context.Context, minSeverity alertvo.Severity, createdBefore time.Time) ([]*alert.AllocationAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*alert.AllocationAlert
	for _, a := range m.alerts {
		if a.IsResolved() || !a.Severity().AtLeast(minSeverity) {
			continue
		}
		if a.CreatedAt().Before(createdBefore) {
			out = append(out, a)
		}
	}
	return out, nil
}

// MockBookingReader is an in-memory booking.BookingReader.
type MockBookingReader struct {
	mu       sync.RWMutex
	bookings map[uint]booking.BookingView
}

func NewMockBookingReader() *MockBookingReader {
	return &MockBookingReader{bookings: make(map[uint]booking.BookingView)}
}

func (m *MockBookingReader) Put(b booking.BookingView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *MockBookingReader) GetByID(ctx context.Context, id uint) (*booking.BookingView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// ListConfirmedUnassigned returns confirmed bookings with check-in inside
// [from, to). The mock does not track allocations; tests remove bookings once
// assigned when that matters.
func (m *MockBookingReader) ListConfirmedUnassigned(ctx context.Context, from, to time.Time) ([]booking.BookingView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []booking.BookingView
	for _, b := range m.bookings {
		if !b.IsConfirmed() {
			continue
		}
		if b.CheckInDate.Before(from) || !b.CheckInDate.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// MockRoomReader is an in-memory booking.RoomReader.
type MockRoomReader struct {
	mu    sync.RWMutex
	rooms map[uint]booking.RoomView
}

func NewMockRoomReader() *MockRoomReader {
	return &MockRoomReader{rooms: make(map[uint]booking.RoomView)}
}

func (m *MockRoomReader) Put(r booking.RoomView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID] = r
}

func (m *MockRoomReader) GetByID(ctx context.Context, id uint) (*booking.RoomView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MockRoomReader) ListActive(ctx context.Context, roomTypeID *uint) ([]booking.RoomView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []booking.RoomView
	for _, r := range m.rooms {
		if !r.IsActive {
			continue
		}
		if roomTypeID != nil && r.RoomTypeID != *roomTypeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// MockLogger is a no-op logger.Interface for tests.
type MockLogger struct{}

func NewMockLogger() *MockLogger { return &MockLogger{} }

func (l *MockLogger) Debug(msg string, args ...any)                   {}
func (l *MockLogger) Info(msg string, args ...any)                    {}
func (l *MockLogger) Warn(msg string, args ...any)                    {}
func (l *MockLogger) Error(msg string, args ...any)                   {}
func (l *MockLogger) With(args ...any) logger.Interface               { return l }
func (l *MockLogger) Named(name string) logger.Interface              { return l }
func (l *MockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *MockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *MockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *MockLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
