package audit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"soukscan/internal/audit"
	"soukscan/internal/audit/store/memory"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/requestcontext"
)

type LedgerSuite struct {
	suite.Suite
	store  *memory.InMemoryStore
	ledger *audit.Ledger
	ctx    context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.store = memory.NewInMemoryStore()
	s.ledger = audit.NewLedger(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = context.Background()
}

func (s *LedgerSuite) at(minute int) context.Context {
	return requestcontext.WithTime(s.ctx, time.Date(2026, 5, 1, 10, minute, 0, 0, time.UTC))
}

func (s *LedgerSuite) TestAppend() {
	s.Run("stores the entry with a fresh id and request time", func() {
		entry, err := s.ledger.Append(s.at(0), 7, audit.ActionVendorVerified, audit.TargetVendor, 42, "Vendor verified by admin. Document: license.pdf")
		s.Require().NoError(err)
		s.NotZero(entry.ID)
		s.Equal(id.AdminID(7), entry.AdminID)
		s.Equal(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), entry.CreatedAt)
	})

	s.Run("zero admin id is a validation error", func() {
		_, err := s.ledger.Append(s.ctx, 0, audit.ActionUserBlocked, audit.TargetUser, 5, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty action type is a validation error", func() {
		_, err := s.ledger.Append(s.ctx, 7, "", audit.TargetUser, 5, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty comment is accepted", func() {
		_, err := s.ledger.Append(s.ctx, 7, audit.ActionUserBlocked, audit.TargetUser, 5, "")
		s.NoError(err)
	})
}

func (s *LedgerSuite) TestReadsAreEqualityFiltersNewestFirst() {
	_, _ = s.ledger.Append(s.at(1), 7, audit.ActionVendorVerified, audit.TargetVendor, 42, "a")
	_, _ = s.ledger.Append(s.at(2), 8, audit.ActionReportApproved, audit.TargetReport, 3, "b")
	_, _ = s.ledger.Append(s.at(3), 7, audit.ActionUserWarned, audit.TargetUser, 42, "c")

	all, err := s.ledger.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("c", all[0].Comment)
	s.Equal("a", all[2].Comment)

	byAdmin, _ := s.ledger.ListByAdmin(s.ctx, 7)
	s.Len(byAdmin, 2)

	byAction, _ := s.ledger.ListByActionType(s.ctx, audit.ActionReportApproved)
	s.Len(byAction, 1)

	byTargetType, _ := s.ledger.ListByTargetType(s.ctx, audit.TargetVendor)
	s.Len(byTargetType, 1)

	byTargetID, _ := s.ledger.ListByTargetID(s.ctx, 42)
	s.Len(byTargetID, 2, "target id filter does not look at target type")

	page, _ := s.ledger.List(s.ctx, audit.Query{Limit: 1, Offset: 1})
	s.Require().Len(page, 1)
	s.Equal("b", page[0].Comment)

	_, err = s.ledger.List(s.ctx, audit.Query{Limit: -1})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *LedgerSuite) TestReturnedEntriesAreCopies() {
	_, _ = s.ledger.Append(s.ctx, 7, audit.ActionUserBlocked, audit.TargetUser, 1, "original")
	got, _ := s.ledger.ListAll(s.ctx)
	got[0].Comment = "tampered"

	again, _ := s.ledger.ListAll(s.ctx)
	s.Equal("original", again[0].Comment)
}
