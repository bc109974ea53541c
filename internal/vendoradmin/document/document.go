// Package document checks whether a vendor has a verification document on
// file with the vendor service. Documents are never stored locally.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"soukscan/internal/platform/httpclient"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
)

// ErrDocumentNotFound is the cause of every "no document on file" failure.
var ErrDocumentNotFound = errors.New("verification document not found")

// Metadata describes a verification document held by the vendor service.
type Metadata struct {
	VendorID           id.VendorID `json:"vendorId"`
	FileName           string      `json:"fileName"`
	ContentType        string      `json:"contentType,omitempty"`
	FileSize           int64       `json:"fileSize,omitempty"`
	UploadedAt         string      `json:"uploadedAt,omitempty"`
	VerificationStatus string      `json:"verificationStatus,omitempty"`
	DownloadURL        string      `json:"downloadUrl,omitempty"`
	DocumentPath       string      `json:"documentPath,omitempty"`
}

// UploadedTime parses UploadedAt, which the vendor service sends either as
// RFC3339 or as a zone-less local timestamp.
func (m *Metadata) UploadedTime() (time.Time, bool) {
	if m == nil || m.UploadedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, m.UploadedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Fetcher reads document metadata. Implementations return the downstream
// error unchanged so the gate can tell "not found" from an outage.
type Fetcher interface {
	DocumentMetadata(ctx context.Context, vendorID id.VendorID) (httpclient.RemotePayload, error)
}

type Gate struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewGate(fetcher Fetcher, logger *slog.Logger) *Gate {
	return &Gate{fetcher: fetcher, logger: logger}
}

// RequireDocument returns the vendor's document metadata. A downstream 404 or
// an empty answer fails with ErrDocumentNotFound (code not_found); any other
// failure is an external_service_error carrying the *ExternalServiceError.
func (g *Gate) RequireDocument(ctx context.Context, vendorID id.VendorID) (*Metadata, error) {
	payload, err := g.fetcher.DocumentMetadata(ctx, vendorID)
	if err != nil {
		if httpclient.IsNotFound(err) || errors.Is(err, httpclient.ErrEmptyResponse) {
			return nil, notFound(vendorID)
		}
		g.logger.ErrorContext(ctx, "failed to fetch document metadata",
			"vendor_id", vendorID,
			"error", err,
		)
		return nil, httpclient.Classify(err, "failed to fetch document metadata")
	}
	if payload.IsEmpty() {
		return nil, notFound(vendorID)
	}

	var meta Metadata
	if err := payload.Decode(&meta); err != nil {
		return nil, dErrors.Wrap(&httpclient.ExternalServiceError{Service: payload.Service, Cause: err},
			dErrors.CodeExternalService, "malformed document metadata")
	}
	if meta.VendorID == 0 {
		meta.VendorID = vendorID
	}
	return &meta, nil
}

// HasDocument is a non-failing probe. Any error, not only "not found",
// reads as false.
func (g *Gate) HasDocument(ctx context.Context, vendorID id.VendorID) bool {
	_, err := g.RequireDocument(ctx, vendorID)
	if err != nil && !errors.Is(err, ErrDocumentNotFound) {
		g.logger.WarnContext(ctx, "document probe failed", "vendor_id", vendorID, "error", err)
	}
	return err == nil
}

func notFound(vendorID id.VendorID) error {
	return dErrors.Wrap(ErrDocumentNotFound, dErrors.CodeNotFound,
		fmt.Sprintf("verification document is required but not found for vendor %d", vendorID))
}
