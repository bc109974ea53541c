package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"soukscan/internal/audit"
	"soukscan/internal/events"
	"soukscan/internal/moderation"
	"soukscan/internal/platform/httpclient"
	"soukscan/internal/platform/metrics"
	"soukscan/internal/stats"
	"soukscan/internal/vendoradmin"
	"soukscan/internal/vendoradmin/document"
	"soukscan/internal/workflow"
	"soukscan/internal/workflow/mocks"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/requestcontext"
)

var fixedNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type OrchestratorSuite struct {
	suite.Suite
	ctx        context.Context
	detached   gomock.Matcher
	ctrl       *gomock.Controller
	vendors    *mocks.MockVendorRemote
	documents  *mocks.MockDocumentGate
	stats      *mocks.MockStats
	ledger     *mocks.MockLedger
	moderation *mocks.MockModeration
	publisher  *mocks.MockPublisher
	metrics    *metrics.Metrics
	wf         *workflow.Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorSuite))
}

func (s *OrchestratorSuite) SetupTest() {
	base, cancel := context.WithCancel(context.Background())
	s.T().Cleanup(cancel)
	s.ctx = requestcontext.WithTime(base, fixedNow)
	s.detached = detachedFrom(s.ctx)
	s.ctrl = gomock.NewController(s.T())
	s.vendors = mocks.NewMockVendorRemote(s.ctrl)
	s.documents = mocks.NewMockDocumentGate(s.ctrl)
	s.stats = mocks.NewMockStats(s.ctrl)
	s.ledger = mocks.NewMockLedger(s.ctrl)
	s.moderation = mocks.NewMockModeration(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.wf = workflow.New(s.vendors, s.documents, s.stats, s.ledger, s.moderation, s.publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		workflow.WithMetrics(s.metrics),
	)
}

func (s *OrchestratorSuite) TearDownTest() {
	s.ctrl.Finish()
}

// detachedMatcher matches a context that keeps the request's values but can
// no longer be cancelled by the caller.
type detachedMatcher struct{ parent context.Context }

func detachedFrom(ctx context.Context) gomock.Matcher { return detachedMatcher{parent: ctx} }

func (m detachedMatcher) Matches(x any) bool {
	ctx, ok := x.(context.Context)
	if !ok {
		return false
	}
	return ctx.Done() == nil && requestcontext.Now(ctx).Equal(requestcontext.Now(m.parent))
}

func (m detachedMatcher) String() string { return "is a context detached from the request" }

func license() *document.Metadata {
	return &document.Metadata{VendorID: 42, FileName: "license.pdf", UploadedAt: "2026-06-01T08:00:00"}
}

func missingDocument() error {
	return dErrors.Wrap(document.ErrDocumentNotFound, dErrors.CodeNotFound, "verification document is required but not found for vendor 42")
}

func timedOut() error {
	return &httpclient.ExternalServiceError{Service: "vendor-service", Cause: context.DeadlineExceeded}
}

func (s *OrchestratorSuite) transitions(op, outcome string) float64 {
	return promtest.ToFloat64(s.metrics.WorkflowTransitions.WithLabelValues(op, outcome))
}

func (s *OrchestratorSuite) TestVerifyVendor() {
	s.Run("document on file commits remotely then records locally", func() {
		remote := &vendoradmin.RemoteState{ID: 42, Status: "VERIFIED"}
		gomock.InOrder(
			s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).Return(license(), nil),
			s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionVerify, id.AdminID(7), "").Return(remote, nil),
			s.stats.EXPECT().TouchVendor(s.detached, id.VendorID(42)).Return(&stats.VendorStats{VendorID: 42}, nil),
			s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionVendorVerified, audit.TargetVendor, int64(42),
				"Vendor verified by admin. Document: license.pdf").Return(&audit.AdminActionLog{ID: 1}, nil),
			s.publisher.EXPECT().Publish(s.detached, "vendor.status.changed", "42",
				events.NewVendorVerification(42, events.ActionVendorApproved, 7, license(), fixedNow)),
		)

		state, err := s.wf.VerifyVendor(s.ctx, 42, 7)
		s.Require().NoError(err)
		s.Same(remote, state)
		s.Equal(1.0, s.transitions("verify_vendor", "success"))
	})

	s.Run("missing document stops before the remote call", func() {
		s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).Return(nil, missingDocument())

		_, err := s.wf.VerifyVendor(s.ctx, 42, 7)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.ErrorIs(err, document.ErrDocumentNotFound)
		s.Equal(1.0, s.transitions("verify_vendor", "not_found"))
	})

	s.Run("remote timeout leaves no local trace", func() {
		s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).Return(license(), nil)
		s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionVerify, id.AdminID(7), "").Return(nil, timedOut())

		_, err := s.wf.VerifyVendor(s.ctx, 42, 7)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
		ext, ok := httpclient.AsExternal(err)
		s.Require().True(ok)
		s.True(ext.Timeout())
	})

	s.Run("remote 404 is not found", func() {
		s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).Return(license(), nil)
		s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionVerify, id.AdminID(7), "").
			Return(nil, &httpclient.ExternalServiceError{Service: "vendor-service", StatusCode: http.StatusNotFound, Cause: errors.New("no vendor")})

		_, err := s.wf.VerifyVendor(s.ctx, 42, 7)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("audit failure after remote commit skips the event", func() {
		s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).Return(license(), nil)
		s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionVerify, id.AdminID(7), "").Return(&vendoradmin.RemoteState{ID: 42}, nil)
		s.stats.EXPECT().TouchVendor(s.detached, id.VendorID(42)).Return(&stats.VendorStats{VendorID: 42}, nil)
		s.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("disk full"), dErrors.CodeInternal, "failed to append audit entry"))

		_, err := s.wf.VerifyVendor(s.ctx, 42, 7)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("ids are required", func() {
		_, err := s.wf.VerifyVendor(s.ctx, 0, 7)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.wf.VerifyVendor(s.ctx, 42, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *OrchestratorSuite) TestRejectVendor() {
	s.Run("proceeds without a document", func() {
		gomock.InOrder(
			s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).Return(nil, missingDocument()),
			s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionReject, id.AdminID(7), "fraud").Return(&vendoradmin.RemoteState{ID: 42, Status: "REJECTED"}, nil),
			s.stats.EXPECT().TouchVendor(s.detached, id.VendorID(42)).Return(&stats.VendorStats{VendorID: 42}, nil),
			s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionVendorRejected, audit.TargetVendor, int64(42),
				"Vendor rejected. Reason: fraud. Document: no document").Return(&audit.AdminActionLog{ID: 2}, nil),
			s.publisher.EXPECT().Publish(s.detached, "vendor.status.changed", "42",
				events.NewVendorVerification(42, events.ActionVendorRejected, 7, nil, fixedNow)),
		)

		state, err := s.wf.RejectVendor(s.ctx, 42, 7, "fraud")
		s.Require().NoError(err)
		s.Equal("REJECTED", state.Status)
	})

	s.Run("names the document when present", func() {
		s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).Return(license(), nil)
		s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionReject, id.AdminID(7), "blurry scan").Return(&vendoradmin.RemoteState{ID: 42}, nil)
		s.stats.EXPECT().TouchVendor(s.detached, id.VendorID(42)).Return(&stats.VendorStats{VendorID: 42}, nil)
		s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionVendorRejected, audit.TargetVendor, int64(42),
			"Vendor rejected. Reason: blurry scan. Document: license.pdf").Return(&audit.AdminActionLog{ID: 3}, nil)
		s.publisher.EXPECT().Publish(s.detached, "vendor.status.changed", "42",
			events.NewVendorVerification(42, events.ActionVendorRejected, 7, license(), fixedNow))

		_, err := s.wf.RejectVendor(s.ctx, 42, 7, "  blurry scan ")
		s.Require().NoError(err)
	})

	s.Run("document service outage aborts", func() {
		s.documents.EXPECT().RequireDocument(s.ctx, id.VendorID(42)).
			Return(nil, dErrors.Wrap(timedOut(), dErrors.CodeExternalService, "failed to fetch document metadata"))

		_, err := s.wf.RejectVendor(s.ctx, 42, 7, "fraud")
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
	})

	s.Run("reason is required", func() {
		_, err := s.wf.RejectVendor(s.ctx, 42, 7, "   ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *OrchestratorSuite) TestSuspendAndActivate() {
	s.Run("suspend carries the reason", func() {
		gomock.InOrder(
			s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionSuspend, id.AdminID(7), "fraud").Return(&vendoradmin.RemoteState{ID: 42, Status: "SUSPENDED"}, nil),
			s.stats.EXPECT().TouchVendor(s.detached, id.VendorID(42)).Return(&stats.VendorStats{VendorID: 42}, nil),
			s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionVendorSuspended, audit.TargetVendor, int64(42),
				"Vendor suspended. Reason: fraud").Return(&audit.AdminActionLog{ID: 4}, nil),
			s.publisher.EXPECT().Publish(s.detached, "vendor.status.changed", "42",
				events.NewVendorStatusChanged(42, events.StatusSuspended, 7, "fraud", fixedNow)),
		)

		_, err := s.wf.SuspendVendor(s.ctx, 42, 7, "fraud")
		s.Require().NoError(err)
	})

	s.Run("suspend without a reason", func() {
		gomock.InOrder(
			s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionSuspend, id.AdminID(7), "").Return(&vendoradmin.RemoteState{ID: 42, Status: "SUSPENDED"}, nil),
			s.stats.EXPECT().TouchVendor(s.detached, id.VendorID(42)).Return(&stats.VendorStats{VendorID: 42}, nil),
			s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionVendorSuspended, audit.TargetVendor, int64(42),
				"Vendor suspended").Return(&audit.AdminActionLog{ID: 4}, nil),
			s.publisher.EXPECT().Publish(s.detached, "vendor.status.changed", "42", gomock.Any()).
				Do(func(_ context.Context, _, _ string, payload any) {
					ev, ok := payload.(events.VendorStatusChanged)
					s.Require().True(ok)
					s.Equal(events.StatusSuspended, ev.Status)
					s.Nil(ev.Reason)
				}),
		)

		_, err := s.wf.SuspendVendor(s.ctx, 42, 7, "  ")
		s.Require().NoError(err)
	})

	s.Run("activate has no reason", func() {
		s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionActivate, id.AdminID(7), "").Return(&vendoradmin.RemoteState{ID: 42, Status: "ACTIVE"}, nil)
		s.stats.EXPECT().TouchVendor(s.detached, id.VendorID(42)).Return(&stats.VendorStats{VendorID: 42}, nil)
		s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionVendorActivated, audit.TargetVendor, int64(42),
			"Vendor activated by admin").Return(&audit.AdminActionLog{ID: 5}, nil)
		s.publisher.EXPECT().Publish(s.detached, "vendor.status.changed", "42", gomock.Any()).
			Do(func(_ context.Context, _, _ string, payload any) {
				ev, ok := payload.(events.VendorStatusChanged)
				s.Require().True(ok)
				s.Equal(events.StatusActivated, ev.Status)
				s.Nil(ev.Reason)
			})

		_, err := s.wf.ActivateVendor(s.ctx, 42, 7)
		s.Require().NoError(err)
	})

	s.Run("remote failure stops activation", func() {
		s.vendors.EXPECT().UpdateStatus(s.ctx, id.VendorID(42), vendoradmin.TransitionActivate, id.AdminID(7), "").
			Return(nil, &httpclient.ExternalServiceError{Service: "vendor-service", StatusCode: http.StatusBadGateway, Cause: errors.New("bad gateway")})

		_, err := s.wf.ActivateVendor(s.ctx, 42, 7)
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
		s.Equal(1.0, s.transitions("activate_vendor", "external_service_error"))
	})
}

func pendingReport(target moderation.TargetType, targetID int64) *moderation.Report {
	return &moderation.Report{ID: 11, ReporterID: 5, TargetID: targetID, TargetType: target, Status: moderation.StatusPending}
}

func (s *OrchestratorSuite) TestApproveReport() {
	s.Run("vendor report updates reporter and vendor", func() {
		decided := pendingReport(moderation.TargetVendor, 42)
		decided.Status = moderation.StatusApproved
		action := &moderation.Action{ID: 3, AdminID: 7, ActionType: moderation.ActionApprove, Comment: "Report approved"}
		gomock.InOrder(
			s.moderation.EXPECT().Decide(s.ctx, id.ReportID(11), moderation.ActionApprove, id.AdminID(7), "Report approved").Return(decided, action, nil),
			s.stats.EXPECT().RecordModerationOutcome(s.detached, id.UserID(5), stats.OutcomeApprove).Return(&stats.UserStats{UserID: 5}, nil),
			s.stats.EXPECT().RecordVendorReport(s.detached, id.VendorID(42), stats.OutcomeApprove).Return(&stats.VendorStats{VendorID: 42}, nil),
			s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionReportApproved, audit.TargetReport, int64(11), "Report approved").Return(&audit.AdminActionLog{ID: 6}, nil),
		)

		got, err := s.wf.ApproveReport(s.ctx, 11, 7, "")
		s.Require().NoError(err)
		s.Same(action, got)
	})

	s.Run("decided report is a conflict", func() {
		s.moderation.EXPECT().Decide(s.ctx, id.ReportID(11), moderation.ActionApprove, id.AdminID(7), "Report approved").
			Return(nil, nil, dErrors.New(dErrors.CodeConflict, "report already decided"))

		_, err := s.wf.ApproveReport(s.ctx, 11, 7, "")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown report", func() {
		s.moderation.EXPECT().Decide(s.ctx, id.ReportID(99), moderation.ActionApprove, id.AdminID(7), "looks right").
			Return(nil, nil, dErrors.New(dErrors.CodeNotFound, "report 99 not found"))

		_, err := s.wf.ApproveReport(s.ctx, 99, 7, "looks right")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *OrchestratorSuite) TestRejectReport() {
	decided := pendingReport(moderation.TargetProduct, 8)
	decided.Status = moderation.StatusRejected
	s.moderation.EXPECT().Decide(s.ctx, id.ReportID(11), moderation.ActionReject, id.AdminID(7), "duplicate").
		Return(decided, &moderation.Action{ID: 4}, nil)
	s.stats.EXPECT().RecordModerationOutcome(s.detached, id.UserID(5), stats.OutcomeReject).Return(&stats.UserStats{UserID: 5}, nil)
	s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionReportRejected, audit.TargetReport, int64(11), "duplicate").Return(&audit.AdminActionLog{ID: 7}, nil)

	_, err := s.wf.RejectReport(s.ctx, 11, 7, "duplicate")
	s.Require().NoError(err)
}

func (s *OrchestratorSuite) TestWarnUser() {
	s.moderation.EXPECT().Warn(s.ctx, id.ReportID(11), id.AdminID(7), "User warned").
		Return(pendingReport(moderation.TargetVendor, 42), &moderation.Action{ID: 5, ActionType: moderation.ActionWarn}, nil)
	s.stats.EXPECT().RecordModerationOutcome(s.detached, id.UserID(5), stats.OutcomeWarn).Return(&stats.UserStats{UserID: 5, WarningCount: 1}, nil)
	s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionUserWarned, audit.TargetUser, int64(5), "User warned").Return(&audit.AdminActionLog{ID: 8}, nil)

	action, err := s.wf.WarnUser(s.ctx, 11, 7, "")
	s.Require().NoError(err)
	s.Equal(moderation.ActionWarn, action.ActionType)
}

func (s *OrchestratorSuite) TestBlockUser() {
	s.Run("records without a remote call", func() {
		s.moderation.EXPECT().Block(s.ctx, id.UserID(9), id.AdminID(7), "User blocked").Return(&moderation.Action{ID: 6, ActionType: moderation.ActionBlock}, nil)
		s.stats.EXPECT().TouchUser(s.detached, id.UserID(9)).Return(&stats.UserStats{UserID: 9}, nil)
		s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionUserBlocked, audit.TargetUser, int64(9), "User blocked").Return(&audit.AdminActionLog{ID: 9}, nil)

		_, err := s.wf.BlockUser(s.ctx, 9, 7, "")
		s.Require().NoError(err)
	})

	s.Run("user id is required", func() {
		_, err := s.wf.BlockUser(s.ctx, 0, 7, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *OrchestratorSuite) TestValidatePriceReport() {
	s.Run("stores, audits and announces the verdict", func() {
		validatedBy := int64(7)
		stored := &moderation.PriceReport{ID: 31, Status: moderation.PriceValid, ValidatedBy: &validatedBy}
		s.moderation.EXPECT().UpdatePriceReportStatus(s.ctx, id.PriceReportID(31), moderation.PriceValid, int64(7), "ok").Return(stored, nil)
		s.ledger.EXPECT().Append(s.detached, id.AdminID(7), audit.ActionPriceReportValidated, audit.TargetPriceReport, int64(31),
			"Price report marked VALID. Comment: ok").Return(&audit.AdminActionLog{ID: 10}, nil)
		s.publisher.EXPECT().Publish(s.detached, "price.validated", "31", gomock.Any()).
			Do(func(_ context.Context, _, _ string, payload any) {
				ev, ok := payload.(events.PriceValidated)
				s.Require().True(ok)
				s.Equal("VALID", ev.Status)
				s.Equal("7", ev.ValidatedBy)
				s.Equal(events.Source, ev.Source)
			})

		got, err := s.wf.ValidatePriceReport(s.ctx, 31, 7, "VALID", " ok ")
		s.Require().NoError(err)
		s.Same(stored, got)
	})

	s.Run("pending is not a verdict", func() {
		_, err := s.wf.ValidatePriceReport(s.ctx, 31, 7, moderation.PricePending, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown price report", func() {
		s.moderation.EXPECT().UpdatePriceReportStatus(s.ctx, id.PriceReportID(404), moderation.PriceInvalid, int64(7), "").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "price report 404 not found"))

		_, err := s.wf.ValidatePriceReport(s.ctx, 404, 7, moderation.PriceInvalid, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
