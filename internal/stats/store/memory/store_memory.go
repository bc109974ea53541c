package memory

import (
	"context"
	"sync"
	"time"

	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
	"soukscan/pkg/platform/sentinel"
)

// InMemoryStore keeps counters in maps. Returned values are copies so callers
// cannot mutate stored state without SaveUser/SaveVendor.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]stats.UserStats
	vendors map[id.VendorID]stats.VendorStats
}

func New() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[id.UserID]stats.UserStats),
		vendors: make(map[id.VendorID]stats.VendorStats),
	}
}

func (s *InMemoryStore) EnsureUser(_ context.Context, userID id.UserID, now time.Time) (*stats.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.users[userID]
	if !ok {
		st = *stats.NewUserStats(userID, now)
		s.users[userID] = st
	}
	return &st, nil
}

func (s *InMemoryStore) SaveUser(_ context.Context, st *stats.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[st.UserID] = *st
	return nil
}

func (s *InMemoryStore) GetUser(_ context.Context, userID id.UserID) (*stats.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &st, nil
}

func (s *InMemoryStore) EnsureVendor(_ context.Context, vendorID id.VendorID, now time.Time) (*stats.VendorStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.vendors[vendorID]
	if !ok {
		st = *stats.NewVendorStats(vendorID, now)
		s.vendors[vendorID] = st
	}
	return &st, nil
}

func (s *InMemoryStore) SaveVendor(_ context.Context, st *stats.VendorStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendors[st.VendorID] = *st
	return nil
}

func (s *InMemoryStore) GetVendor(_ context.Context, vendorID id.VendorID) (*stats.VendorStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.vendors[vendorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &st, nil
}

func (s *InMemoryStore) Totals(_ context.Context) (users, vendors, warnings int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		warnings += u.WarningCount
	}
	return int64(len(s.users)), int64(len(s.vendors)), warnings, nil
}
