package memory

import (
	"context"
	"slices"
	"sync"

	"soukscan/internal/audit"
	id "soukscan/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*audit.AdminActionLog
	nextID  id.LogID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.nextID = 0
}

func (s *InMemoryStore) Append(_ context.Context, entry *audit.AdminActionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry.ID = s.nextID
	stored := *entry
	s.entries = append(s.entries, &stored)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, q audit.Query) ([]*audit.AdminActionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*audit.AdminActionLog
	for _, e := range s.entries {
		if q.Matches(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	// Newest first; ties broken by id so insertion order is stable.
	slices.SortStableFunc(out, func(a, b *audit.AdminActionLog) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})

	if q.Offset >= len(out) {
		return []*audit.AdminActionLog{}, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}
