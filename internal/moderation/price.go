package moderation

import (
	"context"
	"errors"
	"fmt"

	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/sentinel"
	"soukscan/pkg/requestcontext"
)

// RecordPriceReport mirrors a price report announced by the price service.
// Redelivered announcements leave the stored report untouched.
func (s *Service) RecordPriceReport(ctx context.Context, p *PriceReport) (bool, error) {
	if p.ID == 0 {
		return false, dErrors.New(dErrors.CodeValidation, "price report id is required")
	}
	if p.Status == "" {
		p.Status = PricePending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = requestcontext.Now(ctx).UTC()
	}
	created, err := s.store.InsertPriceReport(ctx, p)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save price report")
	}
	return created, nil
}

func (s *Service) GetPriceReport(ctx context.Context, priceReportID id.PriceReportID) (*PriceReport, error) {
	p, err := s.store.GetPriceReport(ctx, priceReportID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("price report %d not found", priceReportID))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load price report")
	}
	return p, nil
}

func (s *Service) ListPriceReports(ctx context.Context) ([]*PriceReport, error) {
	return s.ListPriceReportsByStatus(ctx, "")
}

// ListPriceReportsByStatus filters by status; an empty status lists all.
func (s *Service) ListPriceReportsByStatus(ctx context.Context, status PriceStatus) ([]*PriceReport, error) {
	out, err := s.store.ListPriceReports(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list price reports")
	}
	return out, nil
}

// UpdatePriceReportStatus sets the validation outcome of a price report.
// validatedBy is zero when the outcome did not come from a known admin.
func (s *Service) UpdatePriceReportStatus(ctx context.Context, priceReportID id.PriceReportID, status PriceStatus, validatedBy int64, comment string) (*PriceReport, error) {
	if _, ok := ParsePriceStatus(string(status)); !ok {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown price report status %q", status))
	}

	var p *PriceReport
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.GetPriceReport(ctx, priceReportID)
		if err != nil {
			return err
		}
		p.Status = status
		if comment != "" {
			p.Comment = comment
		}
		if validatedBy != 0 {
			p.ValidatedBy = &validatedBy
		}
		if status != PricePending {
			now := requestcontext.Now(ctx).UTC()
			p.ValidatedAt = &now
		}
		if err := s.store.SavePriceReport(ctx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save price report")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
