package memory

import (
	"context"
	"sort"
	"sync"

	"soukscan/internal/moderation"
	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
	"soukscan/pkg/platform/sentinel"
)

// InMemoryStore keeps moderation records in maps and hands out copies.
type InMemoryStore struct {
	mu           sync.RWMutex
	reports      map[id.ReportID]moderation.Report
	actions      []moderation.Action
	priceReports map[id.PriceReportID]moderation.PriceReport
	nextReport   id.ReportID
	nextAction   id.ActionID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		reports:      make(map[id.ReportID]moderation.Report),
		priceReports: make(map[id.PriceReportID]moderation.PriceReport),
	}
}

func (s *InMemoryStore) CreateReport(_ context.Context, r *moderation.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextReport++
	r.ID = s.nextReport
	s.reports[r.ID] = *r
	return nil
}

func (s *InMemoryStore) GetReport(_ context.Context, reportID id.ReportID) (*moderation.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) UpdateReportStatus(_ context.Context, r *moderation.Report, from moderation.ReportStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.reports[r.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Status != from {
		return sentinel.ErrConflict
	}
	stored.Status = r.Status
	stored.UpdatedAt = r.UpdatedAt
	s.reports[r.ID] = stored
	return nil
}

func (s *InMemoryStore) ListReportsByStatus(_ context.Context, status moderation.ReportStatus) ([]*moderation.Report, error) {
	return s.filterReports(func(r moderation.Report) bool { return r.Status == status }), nil
}

func (s *InMemoryStore) ListReportsByReporter(_ context.Context, reporterID id.UserID) ([]*moderation.Report, error) {
	return s.filterReports(func(r moderation.Report) bool { return r.ReporterID == reporterID }), nil
}

// filterReports returns matches oldest first.
func (s *InMemoryStore) filterReports(match func(moderation.Report) bool) []*moderation.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*moderation.Report, 0)
	for _, r := range s.reports {
		if match(r) {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *InMemoryStore) CreateAction(_ context.Context, a *moderation.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAction++
	a.ID = s.nextAction
	stored := *a
	if a.ReportID != nil {
		v := *a.ReportID
		stored.ReportID = &v
	}
	s.actions = append(s.actions, stored)
	return nil
}

func (s *InMemoryStore) ListActions(_ context.Context) ([]*moderation.Action, error) {
	return s.filterActions(func(moderation.Action) bool { return true }), nil
}

func (s *InMemoryStore) ListActionsByAdmin(_ context.Context, adminID id.AdminID) ([]*moderation.Action, error) {
	return s.filterActions(func(a moderation.Action) bool { return a.AdminID == adminID }), nil
}

// filterActions returns matches newest first.
func (s *InMemoryStore) filterActions(match func(moderation.Action) bool) []*moderation.Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*moderation.Action, 0)
	for i := len(s.actions) - 1; i >= 0; i-- {
		if a := s.actions[i]; match(a) {
			out = append(out, &a)
		}
	}
	return out
}

func (s *InMemoryStore) InsertPriceReport(_ context.Context, p *moderation.PriceReport) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.priceReports[p.ID]; ok {
		return false, nil
	}
	s.priceReports[p.ID] = *p
	return true, nil
}

func (s *InMemoryStore) GetPriceReport(_ context.Context, priceReportID id.PriceReportID) (*moderation.PriceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.priceReports[priceReportID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) SavePriceReport(_ context.Context, p *moderation.PriceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.priceReports[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.priceReports[p.ID] = *p
	return nil
}

func (s *InMemoryStore) ListPriceReports(_ context.Context, status moderation.PriceStatus) ([]*moderation.PriceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*moderation.PriceReport, 0, len(s.priceReports))
	for _, p := range s.priceReports {
		if status == "" || p.Status == status {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ModerationTotals(_ context.Context) (stats.ModerationTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := stats.ModerationTotals{
		Reports:      int64(len(s.reports)),
		Actions:      int64(len(s.actions)),
		PriceReports: int64(len(s.priceReports)),
	}
	for _, a := range s.actions {
		if a.ActionType == moderation.ActionBlock {
			totals.Blocks++
		}
	}
	return totals, nil
}
