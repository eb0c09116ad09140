package services

import "sync"

// RoomLocks serializes writes per room. Every assignment and room change
// follows a check-then-act pattern, so two concurrent requests for the same
// room must not interleave between the availability read and the allocation
// write. Reads never take these locks.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the room's critical section and returns the unlock func.
//
//	unlock := locks.Lock(roomID)
//	defer unlock()
func (l *RoomLocks) Lock(roomID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
