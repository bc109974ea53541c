package product

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"soukscan/internal/audit"
	"soukscan/internal/platform/httpclient"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
)

// Remote is the product service.
type Remote interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, productID id.ProductID) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, productID id.ProductID, p *Product) (*Product, error)
	Delete(ctx context.Context, productID id.ProductID) error
	SearchByName(ctx context.Context, name string) ([]Product, error)
	ByCategory(ctx context.Context, category string) ([]Product, error)
	Suggestions(ctx context.Context, query string) ([]Product, error)
}

type Ledger interface {
	Append(ctx context.Context, adminID id.AdminID, actionType audit.ActionType, targetType audit.TargetType, targetID int64, comment string) (*audit.AdminActionLog, error)
}

// Service forwards reads untouched. Writes are audited once the product
// service has accepted them.
type Service struct {
	remote   Remote
	ledger   Ledger
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(remote Remote, ledger Ledger, logger *slog.Logger) *Service {
	return &Service{
		remote:   remote,
		ledger:   ledger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	out, err := s.remote.List(ctx)
	return out, remoteError(err, "failed to list products")
}

func (s *Service) Get(ctx context.Context, productID id.ProductID) (*Product, error) {
	out, err := s.remote.Get(ctx, productID)
	return out, remoteError(err, "failed to fetch product "+productID.String())
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	out, err := s.remote.SearchByName(ctx, name)
	return out, remoteError(err, "failed to search products")
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]Product, error) {
	out, err := s.remote.ByCategory(ctx, category)
	return out, remoteError(err, "failed to list products by category")
}

func (s *Service) Suggestions(ctx context.Context, query string) ([]Product, error) {
	out, err := s.remote.Suggestions(ctx, strings.TrimSpace(query))
	return out, remoteError(err, "failed to fetch product suggestions")
}

func (s *Service) Create(ctx context.Context, p *Product, adminID id.AdminID) (*Product, error) {
	if err := s.check(p, adminID); err != nil {
		return nil, err
	}
	created, err := s.remote.Create(ctx, p)
	if err != nil {
		return nil, remoteError(err, "failed to create product")
	}
	if err := s.record(ctx, adminID, audit.ActionProductCreated, created.ID, "Product created: "+created.Name); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, productID id.ProductID, p *Product, adminID id.AdminID) (*Product, error) {
	if err := s.check(p, adminID); err != nil {
		return nil, err
	}
	updated, err := s.remote.Update(ctx, productID, p)
	if err != nil {
		return nil, remoteError(err, "failed to update product "+productID.String())
	}
	if err := s.record(ctx, adminID, audit.ActionProductUpdated, productID, "Product updated: "+updated.Name); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, productID id.ProductID, adminID id.AdminID) error {
	if adminID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "admin id is required")
	}
	if err := s.remote.Delete(ctx, productID); err != nil {
		return remoteError(err, "failed to delete product "+productID.String())
	}
	return s.record(ctx, adminID, audit.ActionProductDeleted, productID, "Product deleted")
}

func (s *Service) check(p *Product, adminID id.AdminID) error {
	if adminID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "admin id is required")
	}
	if p == nil {
		return dErrors.New(dErrors.CodeBadRequest, "product body is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := s.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return dErrors.New(dErrors.CodeValidation, field+" is invalid ("+verrs[0].Tag()+")")
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid product")
	}
	return nil
}

func (s *Service) record(ctx context.Context, adminID id.AdminID, action audit.ActionType, productID id.ProductID, comment string) error {
	if _, err := s.ledger.Append(ctx, adminID, action, audit.TargetProduct, int64(productID), comment); err != nil {
		s.logger.ErrorContext(ctx, "product change committed but not audited",
			"action", action,
			"product_id", int64(productID),
			"error", err,
		)
		return err
	}
	return nil
}

// remoteError maps product service failures; nil stays nil.
func remoteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	classified := httpclient.Classify(err, msg)
	var de *dErrors.Error
	if errors.As(classified, &de) {
		return classified
	}
	return dErrors.Wrap(err, dErrors.CodeExternalService, msg)
}
