package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"soukscan/internal/product"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/httputil"
	request "soukscan/pkg/platform/middleware/request"
	"soukscan/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, productID id.ProductID) (*product.Product, error)
	Create(ctx context.Context, p *product.Product, adminID id.AdminID) (*product.Product, error)
	Update(ctx context.Context, productID id.ProductID, p *product.Product, adminID id.AdminID) (*product.Product, error)
	Delete(ctx context.Context, productID id.ProductID, adminID id.AdminID) error
	SearchByName(ctx context.Context, name string) ([]product.Product, error)
	ByCategory(ctx context.Context, category string) ([]product.Product, error)
	Suggestions(ctx context.Context, query string) ([]product.Product, error)
}

// Handler serves /admin/products.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/products", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/search", h.handleSearch)
		r.Get("/suggestions", h.handleSuggestions)
		r.Get("/category/{category}", h.handleCategory)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	h.respond(w, r, out, err)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.SearchByName(r.Context(), r.URL.Query().Get("name"))
	h.respond(w, r, out, err)
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Suggestions(r.Context(), r.URL.Query().Get("query"))
	h.respond(w, r, out, err)
}

func (h *Handler) handleCategory(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ByCategory(r.Context(), chi.URLParam(r, "category"))
	h.respond(w, r, out, err)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.service.Get(r.Context(), productID)
	h.respond(w, r, out, err)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminOrFail(w, r)
	if !ok {
		return
	}
	var body product.Product
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	out, err := h.service.Create(r.Context(), &body, adminID)
	if err != nil {
		h.fail(r.Context(), w, "failed to create product", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, out)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	adminID, ok := adminOrFail(w, r)
	if !ok {
		return
	}
	var body product.Product
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	out, err := h.service.Update(r.Context(), productID, &body, adminID)
	h.respond(w, r, out, err)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	adminID, ok := adminOrFail(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), productID, adminID); err != nil {
		h.fail(r.Context(), w, "failed to delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, out any, err error) {
	if err != nil {
		h.fail(r.Context(), w, "product request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func adminOrFail(w http.ResponseWriter, r *http.Request) (id.AdminID, bool) {
	adminID := requestcontext.CallerID(r.Context())
	if adminID == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authenticated admin required"))
		return 0, false
	}
	return adminID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
