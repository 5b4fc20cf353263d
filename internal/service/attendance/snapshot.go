package attendance

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

// Snapshot is one fetch of both sources. It is never modified after it is
// stored; a refresh replaces it whole.
type Snapshot struct {
	Records   []attendance.Record
	Movements []movement.Movement
	FetchedAt time.Time
}

// ViewKey identifies what a dashboard looks at.
type ViewKey struct {
	EmployeeNumber int
	Range          calendar.Range
}

type snapshotEntry struct {
	snap       Snapshot
	lastAccess atomic.Int64 // unix nanos
}

// SnapshotStore keeps the latest good snapshot per view. Writers replace
// entries atomically, so readers see either the old or the new snapshot.
type SnapshotStore struct {
	mu      sync.RWMutex
	entries map[ViewKey]*snapshotEntry
	now     func() time.Time
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		entries: make(map[ViewKey]*snapshotEntry),
		now:     time.Now,
	}
}

// Put replaces the snapshot for key.
func (s *SnapshotStore) Put(key ViewKey, snap Snapshot) {
	e := &snapshotEntry{snap: snap}
	e.lastAccess.Store(s.now().UnixNano())

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Get returns the snapshot for key and marks it as used.
func (s *SnapshotStore) Get(key ViewKey) (Snapshot, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}
	e.lastAccess.Store(s.now().UnixNano())
	return e.snap, true
}

// Prune drops snapshots not read or written for longer than ttl and reports
// how many were removed.
func (s *SnapshotStore) Prune(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.lastAccess.Load() < cutoff {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
