package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
	"soukscan/pkg/platform/httputil"
	request "soukscan/pkg/platform/middleware/request"
)

// Service is the read side of the stats engine.
type Service interface {
	GlobalStats(ctx context.Context) (*stats.GlobalStats, error)
	UserStats(ctx context.Context, userID id.UserID) (*stats.UserStats, error)
	VendorStats(ctx context.Context, vendorID id.VendorID) (*stats.VendorStats, error)
}

type Handler struct {
	engine Service
	logger *slog.Logger
}

func New(engine Service, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Get("/global", h.handleGlobal)
		r.Get("/users/{id}", h.handleUser)
		r.Get("/vendors/{id}", h.handleVendor)
	})
}

func (h *Handler) handleGlobal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.engine.GlobalStats(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to compute global stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.engine.UserStats(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "failed to load user stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats.NewUserView(st))
}

func (h *Handler) handleVendor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vendorID, err := id.ParseVendorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.engine.VendorStats(ctx, vendorID)
	if err != nil {
		h.fail(ctx, w, "failed to load vendor stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
