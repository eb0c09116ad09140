package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/application/allocation/testutil"
	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
)

type blockFixture struct {
	blockRepo   *testutil.MockBlockRepository
	allocRepo   *testutil.MockAllocationRepository
	historyRepo *testutil.MockHistoryRepository
	rooms       *testutil.MockRoomReader
	create      *CreateBlockUseCase
	release     *ReleaseBlockUseCase
}

func newBlockFixture(t *testing.T) *blockFixture {
	t.Helper()
	f := &blockFixture{
		blockRepo:   testutil.NewMockBlockRepository(),
		allocRepo:   testutil.NewMockAllocationRepository(),
		historyRepo: testutil.NewMockHistoryRepository(),
		rooms:       testutil.NewMockRoomReader(),
	}
	log := testutil.NewMockLogger()
	locks := services.NewRoomLocks()
	f.create = NewCreateBlockUseCase(f.blockRepo, f.allocRepo, f.historyRepo, f.rooms, locks, nil, log)
	f.release = NewReleaseBlockUseCase(f.blockRepo, f.historyRepo, nil, log)

	f.rooms.Put(booking.RoomView{ID: 101, RoomNumber: "101", RoomTypeID: 7, Floor: 1, IsActive: true})
	return f
}

func TestCreateBlock_Lifecycle(t *testing.T) {
	f := newBlockFixture(t)

	created, err := f.create.Execute(context.Background(), CreateBlockCommand{
		RoomID:    101,
		StartDate: "2025-09-10",
		EndDate:   "2025-09-12",
		BlockType: "renovation",
		Reason:    "bathroom refit",
		CreatedBy: "engineering",
	})
	if err != nil {
		t.Fatalf("create Execute() error = %v", err)
	}
	if created.BlockID == 0 {
		t.Fatal("block should be persisted with an ID")
	}
	if len(f.historyRepo.Entries()) != 1 {
		t.Errorf("history entries = %d, want 1 block_created record", len(f.historyRepo.Entries()))
	}

	released, err := f.release.Execute(context.Background(), ReleaseBlockCommand{
		BlockID:    created.BlockID,
		Reason:     "work finished",
		ReleasedBy: "engineering",
	})
	if err != nil {
		t.Fatalf("release Execute() error = %v", err)
	}
	if released.RoomID != 101 {
		t.Errorf("released RoomID = %d, want 101", released.RoomID)
	}

	block, _ := f.blockRepo.GetByID(context.Background(), created.BlockID)
	if block.IsActive() {
		t.Error("released block should be inactive")
	}
	if len(f.historyRepo.Entries()) != 2 {
		t.Errorf("history entries = %d, want block_created and block_released", len(f.historyRepo.Entries()))
	}

	if _, err := f.release.Execute(context.Background(), ReleaseBlockCommand{
		BlockID: created.BlockID, ReleasedBy: "engineering",
	}); !errors.IsBusinessRuleError(err) {
		t.Errorf("double release error = %v, want BusinessRule", err)
	}
}

func TestCreateBlock_WarnsOnOverlappingAllocation(t *testing.T) {
	f := newBlockFixture(t)

	occupant, err := alloc.NewRoomAllocation(1, 101, "manual", testStayRange(t),
		"front-desk", false, false, 7, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("NewRoomAllocation() error = %v", err)
	}
	if err := f.allocRepo.Create(context.Background(), occupant, nil); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	created, err := f.create.Execute(context.Background(), CreateBlockCommand{
		RoomID:    101,
		StartDate: "2025-09-11",
		EndDate:   "2025-09-11",
		BlockType: "maintenance",
		Reason:    "ac failure",
		CreatedBy: "engineering",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, block creation should proceed with warnings", err)
	}
	if len(created.Warnings) != 1 || !strings.Contains(created.Warnings[0], "booking 1") {
		t.Fatalf("Warnings = %v, want one naming the displaced booking", created.Warnings)
	}
}

func TestCreateBlock_Validation(t *testing.T) {
	f := newBlockFixture(t)

	tests := []struct {
		name string
		cmd  CreateBlockCommand
	}{
		{"unknown block type", CreateBlockCommand{RoomID: 101, StartDate: "2025-09-10", EndDate: "2025-09-11", BlockType: "fumigation"}},
		{"malformed date", CreateBlockCommand{RoomID: 101, StartDate: "10/09/2025", EndDate: "2025-09-11", BlockType: "maintenance"}},
		{"inverted dates", CreateBlockCommand{RoomID: 101, StartDate: "2025-09-12", EndDate: "2025-09-10", BlockType: "maintenance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.create.Execute(context.Background(), tt.cmd); !errors.IsBadRequestError(err) {
				t.Errorf("Execute() error = %v, want BadRequest", err)
			}
		})
	}

	if _, err := f.create.Execute(context.Background(), CreateBlockCommand{
		RoomID: 999, StartDate: "2025-09-10", EndDate: "2025-09-11", BlockType: "maintenance",
	}); !errors.IsNotFoundError(err) {
		t.Errorf("missing room error = %v, want NotFound", err)
	}
}
