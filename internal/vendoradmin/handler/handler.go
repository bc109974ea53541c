package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"soukscan/internal/platform/httpclient"
	"soukscan/internal/vendoradmin"
	"soukscan/internal/vendoradmin/document"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/httputil"
	request "soukscan/pkg/platform/middleware/request"
	"soukscan/pkg/requestcontext"
)

// Directory reads vendors from the vendor service.
type Directory interface {
	List(ctx context.Context) (httpclient.RemotePayload, error)
	ListPending(ctx context.Context) (httpclient.RemotePayload, error)
	Get(ctx context.Context, vendorID id.VendorID) (*vendoradmin.RemoteState, error)
	Document(ctx context.Context, vendorID id.VendorID) (httpclient.RemotePayload, error)
}

// Documents resolves verification document metadata.
type Documents interface {
	RequireDocument(ctx context.Context, vendorID id.VendorID) (*document.Metadata, error)
}

// Workflow performs the audited status transitions.
type Workflow interface {
	VerifyVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID) (*vendoradmin.RemoteState, error)
	RejectVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, reason string) (*vendoradmin.RemoteState, error)
	SuspendVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, reason string) (*vendoradmin.RemoteState, error)
	ActivateVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID) (*vendoradmin.RemoteState, error)
}

// Handler serves /admin/vendors.
type Handler struct {
	directory Directory
	documents Documents
	workflow  Workflow
	logger    *slog.Logger
}

func New(directory Directory, documents Documents, workflow Workflow, logger *slog.Logger) *Handler {
	return &Handler{directory: directory, documents: documents, workflow: workflow, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/vendors", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/pending", h.handlePending)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Get("/document", h.handleDocument)
			r.Get("/document/metadata", h.handleDocumentMetadata)
			for _, method := range []string{http.MethodPost, http.MethodPatch} {
				r.Method(method, "/verify", http.HandlerFunc(h.handleVerify))
				r.Method(method, "/reject", http.HandlerFunc(h.handleReject))
				r.Method(method, "/suspend", http.HandlerFunc(h.handleSuspend))
				r.Method(method, "/activate", http.HandlerFunc(h.handleActivate))
			}
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	payload, err := h.directory.List(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "failed to list vendors", httpclient.Classify(err, "failed to list vendors"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	payload, err := h.directory.ListPending(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "failed to list pending vendors", httpclient.Classify(err, "failed to list pending vendors"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := vendorIDParam(w, r)
	if !ok {
		return
	}
	state, err := h.directory.Get(r.Context(), vendorID)
	if err != nil {
		h.fail(r.Context(), w, "failed to fetch vendor", httpclient.Classify(err, "vendor not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := vendorIDParam(w, r)
	if !ok {
		return
	}
	payload, err := h.directory.Document(r.Context(), vendorID)
	if err != nil {
		h.fail(r.Context(), w, "failed to fetch vendor document", httpclient.Classify(err, "document not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleDocumentMetadata(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := vendorIDParam(w, r)
	if !ok {
		return
	}
	meta, err := h.documents.RequireDocument(r.Context(), vendorID)
	if err != nil {
		h.fail(r.Context(), w, "failed to fetch document metadata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, meta)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, _ string) (*vendoradmin.RemoteState, error) {
		return h.workflow.VerifyVendor(ctx, vendorID, adminID)
	})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workflow.RejectVendor)
}

func (h *Handler) handleSuspend(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workflow.SuspendVendor)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, _ string) (*vendoradmin.RemoteState, error) {
		return h.workflow.ActivateVendor(ctx, vendorID, adminID)
	})
}

type transitionFunc func(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, reason string) (*vendoradmin.RemoteState, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	ctx := r.Context()
	vendorID, ok := vendorIDParam(w, r)
	if !ok {
		return
	}
	adminID := requestcontext.CallerID(ctx)
	if adminID == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authenticated admin required"))
		return
	}
	reason, err := reasonFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := fn(ctx, vendorID, adminID, reason)
	if err != nil {
		h.fail(ctx, w, "vendor transition failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

// reasonFrom reads the reason from the query string, falling back to a JSON
// body {"reason": "..."}.
func reasonFrom(r *http.Request) (string, error) {
	if reason := strings.TrimSpace(r.URL.Query().Get("reason")); reason != "" {
		return reason, nil
	}
	if r.Body == nil || r.ContentLength == 0 {
		return "", nil
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body")
	}
	return strings.TrimSpace(body.Reason), nil
}

func vendorIDParam(w http.ResponseWriter, r *http.Request) (id.VendorID, bool) {
	vendorID, err := id.ParseVendorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return vendorID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeExternalService {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
