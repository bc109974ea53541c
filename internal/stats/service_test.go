package stats_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"soukscan/internal/stats"
	"soukscan/internal/stats/lock"
	"soukscan/internal/stats/store/memory"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/requestcontext"
)

type EngineSuite struct {
	suite.Suite
	store  *memory.InMemoryStore
	engine *stats.Engine
	ctx    context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.store = memory.New()
	engine, err := stats.New(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)), stats.WithLocker(lock.NewLocal()))
	s.Require().NoError(err)
	s.engine = engine
	s.ctx = context.Background()
}

func (s *EngineSuite) TestEnsure() {
	s.Run("new user starts at zero", func() {
		st, err := s.engine.EnsureUserStats(s.ctx, 1)
		s.Require().NoError(err)
		s.Zero(st.TotalReportsSubmitted)
		s.Zero(st.WarningCount)
	})

	s.Run("new vendor trusts fully", func() {
		st, err := s.engine.EnsureVendorStats(s.ctx, 42)
		s.Require().NoError(err)
		s.Equal(100.0, st.TrustScore)
	})

	s.Run("ensure is idempotent", func() {
		_, err := s.engine.RecordReportSubmitted(s.ctx, 3)
		s.Require().NoError(err)
		st, err := s.engine.EnsureUserStats(s.ctx, 3)
		s.Require().NoError(err)
		s.EqualValues(1, st.TotalReportsSubmitted)
	})
}

func (s *EngineSuite) TestAccuracyScore() {
	for i := 0; i < 4; i++ {
		_, err := s.engine.RecordReportSubmitted(s.ctx, 5)
		s.Require().NoError(err)
	}
	for i := 0; i < 3; i++ {
		_, err := s.engine.RecordModerationOutcome(s.ctx, 5, stats.OutcomeApprove)
		s.Require().NoError(err)
	}

	st, err := s.engine.UserStats(s.ctx, 5)
	s.Require().NoError(err)
	s.Equal(75.0, st.AccuracyScore())

	empty, err := s.engine.UserStats(s.ctx, 6)
	s.Require().NoError(err)
	s.Equal(0.0, empty.AccuracyScore())
}

func (s *EngineSuite) TestReputationIsNeverNegative() {
	for i := 0; i < 3; i++ {
		_, err := s.engine.RecordModerationOutcome(s.ctx, 8, stats.OutcomeWarn)
		s.Require().NoError(err)
	}
	_, err := s.engine.RecordModerationOutcome(s.ctx, 8, stats.OutcomeReject)
	s.Require().NoError(err)

	st, err := s.engine.UserStats(s.ctx, 8)
	s.Require().NoError(err)
	s.Equal(0.0, st.Reputation())
}

func (s *EngineSuite) TestApproveCountsValidButNotSubmitted() {
	_, err := s.engine.RecordReportSubmitted(s.ctx, 9)
	s.Require().NoError(err)

	st, err := s.engine.RecordModerationOutcome(s.ctx, 9, stats.OutcomeApprove)
	s.Require().NoError(err)
	s.EqualValues(1, st.TotalValidReports)
	s.EqualValues(1, st.TotalReportsSubmitted)
}

func (s *EngineSuite) TestModerationOutcomeSetsLastActivity() {
	at := time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC)
	st, err := s.engine.RecordModerationOutcome(requestcontext.WithTime(s.ctx, at), 11, stats.OutcomeReject)
	s.Require().NoError(err)
	s.Equal(at, st.LastActivity)
	s.EqualValues(1, st.TotalRejectedReports)
}

func (s *EngineSuite) TestUnknownOutcome() {
	_, err := s.engine.RecordModerationOutcome(s.ctx, 1, stats.Outcome("escalate"))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.engine.RecordVendorReport(s.ctx, 42, stats.OutcomeWarn)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *EngineSuite) TestVendorTrust() {
	s.Run("approved reports lower trust", func() {
		_, err := s.engine.RecordVendorReport(s.ctx, 42, stats.OutcomeApprove)
		s.Require().NoError(err)
		st, err := s.engine.RecordVendorReport(s.ctx, 42, stats.OutcomeReject)
		s.Require().NoError(err)
		s.EqualValues(2, st.TotalReportsAgainstVendor)
		s.Equal(50.0, st.TrustScore)
	})

	s.Run("touch keeps the score", func() {
		st, err := s.engine.TouchVendor(s.ctx, 42)
		s.Require().NoError(err)
		s.Equal(50.0, st.TrustScore)
	})

	s.Run("every report upheld bottoms out at zero", func() {
		st, err := s.engine.RecordVendorReport(s.ctx, 43, stats.OutcomeApprove)
		s.Require().NoError(err)
		s.Equal(0.0, st.TrustScore)
	})
}

func (s *EngineSuite) TestReadsDoNotCreateRows() {
	_, err := s.engine.UserStats(s.ctx, 100)
	s.Require().NoError(err)
	_, err = s.engine.VendorStats(s.ctx, 100)
	s.Require().NoError(err)

	global, err := s.engine.GlobalStats(s.ctx)
	s.Require().NoError(err)
	s.Zero(global.TotalUsers)
	s.Zero(global.TotalVendors)
}

func (s *EngineSuite) TestGlobalStatsIncludesModeration() {
	engine, err := stats.New(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)),
		stats.WithModerationCounter(fixedCounter{totals: stats.ModerationTotals{Reports: 4, Actions: 3, Blocks: 1, PriceReports: 2}}))
	s.Require().NoError(err)
	_, err = engine.RecordModerationOutcome(s.ctx, 1, stats.OutcomeWarn)
	s.Require().NoError(err)

	global, err := engine.GlobalStats(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, global.TotalUsers)
	s.EqualValues(1, global.TotalWarnings)
	s.EqualValues(4, global.TotalModerationReports)
	s.EqualValues(3, global.TotalModerationActions)
	s.EqualValues(1, global.TotalBlockedUsers)
	s.EqualValues(2, global.TotalPriceReports)

	failing, err := stats.New(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)),
		stats.WithModerationCounter(fixedCounter{err: errors.New("db down")}))
	s.Require().NoError(err)
	_, err = failing.GlobalStats(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *EngineSuite) TestConcurrentDecisionsDoNotLoseIncrements() {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.engine.RecordReportSubmitted(s.ctx, 77)
			s.NoError(err)
		}()
	}
	wg.Wait()

	st, err := s.engine.UserStats(s.ctx, 77)
	s.Require().NoError(err)
	s.EqualValues(50, st.TotalReportsSubmitted)
}

func (s *EngineSuite) TestNilStore() {
	_, err := stats.New(nil, nil)
	s.Error(err)
}

type fixedCounter struct {
	totals stats.ModerationTotals
	err    error
}

func (f fixedCounter) ModerationTotals(context.Context) (stats.ModerationTotals, error) {
	return f.totals, f.err
}
