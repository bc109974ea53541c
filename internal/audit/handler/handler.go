package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"soukscan/internal/audit"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/httputil"
	request "soukscan/pkg/platform/middleware/request"
)

// Service is the read side of the audit ledger.
type Service interface {
	List(ctx context.Context, q audit.Query) ([]*audit.AdminActionLog, error)
}

// Handler serves /admin/logs.
type Handler struct {
	ledger Service
	logger *slog.Logger
}

func New(ledger Service, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, logger: logger}
}

// Register mounts the ledger routes on r. Authentication and role checks are
// applied by the caller's router group.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/logs", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/admin/{adminId}", h.handleByAdmin)
		r.Get("/action/{actionType}", h.handleByAction)
		r.Get("/target/{targetType}", h.handleByTargetType)
		r.Get("/target-id/{targetId}", h.handleByTargetID)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, audit.Query{})
}

func (h *Handler) handleByAdmin(w http.ResponseWriter, r *http.Request) {
	adminID, err := id.ParseAdminID(chi.URLParam(r, "adminId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.list(w, r, audit.Query{AdminID: adminID})
}

func (h *Handler) handleByAction(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, audit.Query{ActionType: audit.ActionType(chi.URLParam(r, "actionType"))})
}

func (h *Handler) handleByTargetType(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, audit.Query{TargetType: audit.TargetType(chi.URLParam(r, "targetType"))})
}

func (h *Handler) handleByTargetID(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "targetId"), 10, 64)
	if err != nil || targetID <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid target id"))
		return
	}
	h.list(w, r, audit.Query{TargetID: targetID})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, q audit.Query) {
	ctx := r.Context()
	var err error
	if q.Limit, err = intParam(r, "limit"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if q.Offset, err = intParam(r, "offset"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.ledger.List(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit entries",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid "+name)
	}
	return v, nil
}
