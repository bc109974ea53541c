package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"soukscan/internal/moderation"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/httputil"
	request "soukscan/pkg/platform/middleware/request"
	"soukscan/pkg/requestcontext"
)

// Reader is the non-workflow side of moderation.
type Reader interface {
	SubmitReport(ctx context.Context, in moderation.SubmitReportInput) (*moderation.Report, error)
	GetReport(ctx context.Context, reportID id.ReportID) (*moderation.Report, error)
	ListPending(ctx context.Context) ([]*moderation.Report, error)
	ListReportsByReporter(ctx context.Context, reporterID id.UserID) ([]*moderation.Report, error)
	ListActions(ctx context.Context) ([]*moderation.Action, error)
	ListActionsByAdmin(ctx context.Context, adminID id.AdminID) ([]*moderation.Action, error)
	GetPriceReport(ctx context.Context, priceReportID id.PriceReportID) (*moderation.PriceReport, error)
	ListPriceReportsByStatus(ctx context.Context, status moderation.PriceStatus) ([]*moderation.PriceReport, error)
}

// Workflow performs the audited decisions.
type Workflow interface {
	ApproveReport(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (*moderation.Action, error)
	RejectReport(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (*moderation.Action, error)
	WarnUser(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (*moderation.Action, error)
	BlockUser(ctx context.Context, userID id.UserID, adminID id.AdminID, comment string) (*moderation.Action, error)
	ValidatePriceReport(ctx context.Context, priceReportID id.PriceReportID, adminID id.AdminID, status moderation.PriceStatus, comment string) (*moderation.PriceReport, error)
}

// Handler serves /admin/moderation and /admin/price-reports.
type Handler struct {
	reader   Reader
	workflow Workflow
	logger   *slog.Logger
}

func New(reader Reader, workflow Workflow, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, workflow: workflow, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/moderation", func(r chi.Router) {
		r.Post("/reports", h.handleSubmit)
		r.Get("/reports/pending", h.handlePending)
		r.Get("/reports/{id}", h.handleGetReport)
		r.Post("/reports/{id}/approve", h.handleDecision(h.workflow.ApproveReport))
		r.Post("/reports/{id}/reject", h.handleDecision(h.workflow.RejectReport))
		r.Post("/reports/{id}/warn", h.handleDecision(h.workflow.WarnUser))
		r.Get("/users/{id}/reports", h.handleReportsByUser)
		r.Post("/users/{id}/block", h.handleBlock)
		r.Get("/actions", h.handleActions)
	})
	r.Route("/admin/price-reports", func(r chi.Router) {
		r.Get("/", h.handlePriceReports)
		r.Get("/{id}", h.handleGetPriceReport)
		r.Patch("/{id}/status", h.handlePriceStatus)
	})
}

type actionRequest struct {
	Comment string `json:"comment"`
}

type priceStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var in moderation.SubmitReportInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	report, err := h.reader.SubmitReport(ctx, in)
	if err != nil {
		h.fail(ctx, w, "failed to submit report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reader.ListPending(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "failed to list pending reports", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := id.ParseReportID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	report, err := h.reader.GetReport(r.Context(), reportID)
	if err != nil {
		h.fail(r.Context(), w, "failed to load report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

type decisionFunc func(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (*moderation.Action, error)

func (h *Handler) handleDecision(fn decisionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reportID, err := id.ParseReportID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		adminID, ok := callerOrFail(w, r)
		if !ok {
			return
		}
		var body actionRequest
		if err := decodeOptional(r, &body); err != nil {
			httputil.WriteError(w, err)
			return
		}
		action, err := fn(ctx, reportID, adminID, body.Comment)
		if err != nil {
			h.fail(ctx, w, "moderation decision failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, action)
	}
}

func (h *Handler) handleReportsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reports, err := h.reader.ListReportsByReporter(r.Context(), userID)
	if err != nil {
		h.fail(r.Context(), w, "failed to list reports", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleBlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	adminID, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	var body actionRequest
	if err := decodeOptional(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	action, err := h.workflow.BlockUser(ctx, userID, adminID, body.Comment)
	if err != nil {
		h.fail(ctx, w, "failed to block user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, action)
}

func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		actions []*moderation.Action
		err     error
	)
	if raw := r.URL.Query().Get("adminId"); raw != "" {
		adminID, perr := id.ParseAdminID(raw)
		if perr != nil {
			httputil.WriteError(w, perr)
			return
		}
		actions, err = h.reader.ListActionsByAdmin(ctx, adminID)
	} else {
		actions, err = h.reader.ListActions(ctx)
	}
	if err != nil {
		h.fail(ctx, w, "failed to list actions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, actions)
}

func (h *Handler) handlePriceReports(w http.ResponseWriter, r *http.Request) {
	var status moderation.PriceStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := moderation.ParsePriceStatus(raw)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown price report status"))
			return
		}
		status = parsed
	}
	out, err := h.reader.ListPriceReportsByStatus(r.Context(), status)
	if err != nil {
		h.fail(r.Context(), w, "failed to list price reports", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetPriceReport(w http.ResponseWriter, r *http.Request) {
	priceReportID, err := id.ParsePriceReportID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.reader.GetPriceReport(r.Context(), priceReportID)
	if err != nil {
		h.fail(r.Context(), w, "failed to load price report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handlePriceStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	priceReportID, err := id.ParsePriceReportID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	adminID, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	var body priceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	status, valid := moderation.ParsePriceStatus(body.Status)
	if !valid {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "status must be one of: pending valid invalid"))
		return
	}
	p, err := h.workflow.ValidatePriceReport(ctx, priceReportID, adminID, status, body.Comment)
	if err != nil {
		h.fail(ctx, w, "failed to update price report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func callerOrFail(w http.ResponseWriter, r *http.Request) (id.AdminID, bool) {
	adminID := requestcontext.CallerID(r.Context())
	if adminID == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authenticated admin required"))
		return 0, false
	}
	return adminID, true
}

// decodeOptional decodes a JSON body when one was sent.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body")
	}
	return nil
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
