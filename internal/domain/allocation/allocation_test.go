package allocation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	vo "innkeep/internal/domain/allocation/valueobjects"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testStay(t *testing.T) vo.DateRange {
	t.Helper()
	return vo.MustDateRange(date(2025, 9, 10), date(2025, 9, 12))
}

func TestNewRoomAllocation(t *testing.T) {
	stay := testStay(t)

	tests := []struct {
		name         string
		bookingID    uint
		roomID       uint
		assignType   vo.AssignmentType
		isGuaranteed bool
		wantErr      bool
		wantStatus   vo.AssignmentStatus
	}{
		{"manual assignment", 1, 101, vo.AssignmentTypeManual, false, false, vo.AssignmentStatusAssigned},
		{"guaranteed booking locks", 1, 101, vo.AssignmentTypeManual, true, false, vo.AssignmentStatusLocked},
		{"auto assignment", 2, 102, vo.AssignmentTypeAuto, false, false, vo.AssignmentStatusAssigned},
		{"missing booking", 0, 101, vo.AssignmentTypeManual, false, true, ""},
		{"missing room", 1, 0, vo.AssignmentTypeManual, false, true, ""},
		{"invalid type", 1, 101, vo.AssignmentType("bogus"), false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewRoomAllocation(tt.bookingID, tt.roomID, tt.assignType, stay,
				"front-desk", false, tt.isGuaranteed, 7,
				decimal.NewFromInt(100), decimal.NewFromInt(100))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRoomAllocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if a.Status() != tt.wantStatus {
				t.Errorf("Status() = %v, want %v", a.Status(), tt.wantStatus)
			}
			if !a.IsActive() {
				t.Error("new allocation should be active")
			}
		})
	}
}

func TestRoomAllocation_RateDifference(t *testing.T) {
	a, err := NewRoomAllocation(1, 101, vo.AssignmentTypeUpgrade, testStay(t),
		"front-desk", false, false, 7,
		decimal.NewFromInt(100), decimal.NewFromFloat(135.50))
	if err != nil {
		t.Fatalf("NewRoomAllocation() error = %v", err)
	}

	want := decimal.NewFromFloat(35.50)
	if !a.RateDifference().Equal(want) {
		t.Errorf("RateDifference() = %s, want %s", a.RateDifference(), want)
	}
}

func TestNewPreAssignment(t *testing.T) {
	a, err := NewPreAssignment(1, 101, vo.AssignmentTypeAuto, testStay(t),
		"scheduler", false, 7, decimal.NewFromInt(90), decimal.NewFromInt(90))
	if err != nil {
		t.Fatalf("NewPreAssignment() error = %v", err)
	}

	if a.Status() != vo.AssignmentStatusPreAssigned {
		t.Errorf("Status() = %v, want pre_assigned", a.Status())
	}
	if a.IsActive() {
		t.Error("pre-assigned allocation must not occupy the room")
	}

	if err := a.Confirm(); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if a.Status() != vo.AssignmentStatusAssigned {
		t.Errorf("Status() after Confirm = %v, want assigned", a.Status())
	}
	if err := a.Confirm(); err == nil {
		t.Error("Confirm() on assigned allocation should fail")
	}
}

func TestRoomAllocation_Lock(t *testing.T) {
	a, _ := NewRoomAllocation(1, 101, vo.AssignmentTypeManual, testStay(t),
		"front-desk", false, false, 7, decimal.NewFromInt(100), decimal.NewFromInt(100))

	if err := a.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if a.Status() != vo.AssignmentStatusLocked {
		t.Errorf("Status() = %v, want locked", a.Status())
	}
	if err := a.Lock(); err == nil {
		t.Error("Lock() on locked allocation should fail")
	}
}

func TestRoomAllocation_Cancel(t *testing.T) {
	a, _ := NewRoomAllocation(1, 101, vo.AssignmentTypeManual, testStay(t),
		"front-desk", false, false, 7, decimal.NewFromInt(100), decimal.NewFromInt(100))

	if err := a.Cancel("manager", "guest no-show"); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if a.IsActive() {
		t.Error("cancelled allocation should not be active")
	}
	if a.ChangedBy() != "manager" || a.ChangeReason() != "guest no-show" {
		t.Errorf("change audit fields = (%q, %q), want (manager, guest no-show)",
			a.ChangedBy(), a.ChangeReason())
	}
	if err := a.Cancel("manager", "again"); err == nil {
		t.Error("Cancel() on cancelled allocation should fail")
	}
}

func TestRoomAllocation_ChangeTo(t *testing.T) {
	a, _ := NewRoomAllocation(1, 101, vo.AssignmentTypeManual, testStay(t),
		"front-desk", true, false, 7, decimal.NewFromInt(100), decimal.NewFromInt(100))
	if err := a.SetID(55); err != nil {
		t.Fatalf("SetID() error = %v", err)
	}

	repl, err := a.ChangeTo(205, decimal.NewFromInt(150), true, "manager", "guest upgrade")
	if err != nil {
		t.Fatalf("ChangeTo() error = %v", err)
	}

	if a.Status() != vo.AssignmentStatusCancelled {
		t.Errorf("old allocation status = %v, want cancelled", a.Status())
	}
	if repl.RoomID() != 205 {
		t.Errorf("replacement RoomID() = %d, want 205", repl.RoomID())
	}
	if repl.PreviousRoomID() == nil || *repl.PreviousRoomID() != 101 {
		t.Errorf("replacement PreviousRoomID() = %v, want 101", repl.PreviousRoomID())
	}
	if repl.BookingID() != a.BookingID() {
		t.Error("replacement must keep the booking")
	}
	if !repl.Stay().Start().Equal(a.Stay().Start()) || !repl.Stay().End().Equal(a.Stay().End()) {
		t.Error("replacement must keep the stay dates")
	}
	if repl.AssignmentType() != vo.AssignmentTypeUpgrade {
		t.Errorf("replacement type = %v, want upgrade", repl.AssignmentType())
	}
	if !repl.RateDifference().Equal(decimal.NewFromInt(50)) {
		t.Errorf("replacement RateDifference() = %s, want 50", repl.RateDifference())
	}
	if !repl.IsVIP() {
		t.Error("replacement must keep the VIP flag")
	}
}

func TestRoomAllocation_ChangeTo_WithoutCharges(t *testing.T) {
	a, _ := NewRoomAllocation(1, 101, vo.AssignmentTypeManual, testStay(t),
		"front-desk", false, false, 7, decimal.NewFromInt(100), decimal.NewFromInt(100))

	repl, err := a.ChangeTo(205, decimal.NewFromInt(150), false, "manager", "maintenance issue")
	if err != nil {
		t.Fatalf("ChangeTo() error = %v", err)
	}

	if !repl.RateDifference().IsZero() {
		t.Errorf("RateDifference() = %s, want 0 when charges are not applied", repl.RateDifference())
	}
	if repl.AssignmentType() != vo.AssignmentTypeManual {
		t.Errorf("replacement type = %v, want manual", repl.AssignmentType())
	}
}

func TestRoomAllocation_ChangeTo_Errors(t *testing.T) {
	a, _ := NewRoomAllocation(1, 101, vo.AssignmentTypeManual, testStay(t),
		"front-desk", false, false, 7, decimal.NewFromInt(100), decimal.NewFromInt(100))

	if _, err := a.ChangeTo(101, decimal.NewFromInt(100), false, "manager", "same room"); err == nil {
		t.Error("ChangeTo() same room should fail")
	}

	_ = a.Cancel("manager", "cancelled")
	if _, err := a.ChangeTo(205, decimal.NewFromInt(100), false, "manager", "late change"); err == nil {
		t.Error("ChangeTo() on cancelled allocation should fail")
	}
}

func TestRoomBlock_Lifecycle(t *testing.T) {
	b, err := NewRoomBlock(101, date(2025, 9, 10), date(2025, 9, 10),
		vo.BlockTypeMaintenance, "leaking shower", false, 0, "engineering")
	if err != nil {
		t.Fatalf("NewRoomBlock() error = %v", err)
	}

	// A single-day block occupies exactly that day in half-open space.
	r := b.Range()
	if !r.Contains(date(2025, 9, 10)) {
		t.Error("single-day block should occupy its day")
	}
	if r.Contains(date(2025, 9, 11)) {
		t.Error("single-day block should not spill into the next day")
	}

	if err := b.Release("engineering"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if b.IsActive() {
		t.Error("released block should be inactive")
	}
	if b.ReleasedAt() == nil {
		t.Error("released block should record the release time")
	}
	if err := b.Release("engineering"); err == nil {
		t.Error("Release() on released block should fail")
	}
}

func TestNewRoomBlock_InvertedDates(t *testing.T) {
	if _, err := NewRoomBlock(101, date(2025, 9, 12), date(2025, 9, 10),
		vo.BlockTypeMaintenance, "", false, 0, "engineering"); err == nil {
		t.Error("NewRoomBlock() with end before start should fail")
	}
}
