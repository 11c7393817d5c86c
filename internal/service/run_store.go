package service

import (
	"sync"
	"time"

	"github.com/noah-isme/timetable-engine/internal/dto"
)

// timetableRun is a finished generation kept around so the caller can
// re-fetch or export it. Runs live in memory only; durable history is the
// caller's concern.
type timetableRun struct {
	Response    dto.GenerateTimetableResponse
	CompletedAt time.Time
}

type runStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableRun
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		items: make(map[string]timetableRun),
	}
}

// Save retains the run and sweeps out entries past their TTL, so runs that
// are never fetched again still get released.
func (s *runStore) Save(run timetableRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.items {
		if time.Since(existing.CompletedAt) > s.ttl {
			delete(s.items, id)
		}
	}
	s.items[run.Response.RunID] = run
}

func (s *runStore) Get(id string) (timetableRun, bool) {
	s.mu.RLock()
	run, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableRun{}, false
	}
	if time.Since(run.CompletedAt) > s.ttl {
		s.Delete(id)
		return timetableRun{}, false
	}
	return run, true
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
