package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/coupon-rules-engine/internal/engine"
	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CouponService provides business logic for the coupon lifecycle and for
// evaluating stored coupons against carts.
type CouponService struct {
	repo CouponRepositoryInterface
	now  func() time.Time
}

// NewCouponService creates a new CouponService backed by the given repository.
func NewCouponService(repo CouponRepositoryInterface) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// NewCouponServiceWithClock creates a CouponService with a custom clock.
// Primarily used for testing expiration behavior deterministically.
func NewCouponServiceWithClock(repo CouponRepositoryInterface, now func() time.Time) *CouponService {
	return &CouponService{repo: repo, now: now}
}

// buildCoupon decodes and validates the variant payload of a request.
// Returns ErrInvalidRequest for unknown types or malformed details.
func buildCoupon(req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	couponType := model.CouponType(req.Type)
	details, err := model.DecodeDetails(couponType, req.Details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return &model.Coupon{
		Type:           couponType,
		Details:        details,
		ExpirationDate: req.ExpirationDate,
	}, nil
}

// Create validates the request, assigns a fresh id and stores the coupon.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	coupon, err := buildCoupon(req)
	if err != nil {
		return nil, err
	}
	coupon.ID = uuid.NewString()

	if err := s.repo.Insert(ctx, coupon); err != nil {
		return nil, fmt.Errorf("insert coupon: %w", err)
	}
	return coupon, nil
}

// List returns every stored coupon in retrieval order, expired ones included.
func (s *CouponService) List(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}

// GetByID retrieves one coupon.
// Returns ErrCouponNotFound if the id is unknown.
func (s *CouponService) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Update replaces the stored definition of a coupon while keeping its id and
// creation timestamp. Returns ErrCouponNotFound if the id is unknown.
func (s *CouponService) Update(ctx context.Context, id string, req *model.CreateCouponRequest) (*model.Coupon, error) {
	coupon, err := buildCoupon(req)
	if err != nil {
		return nil, err
	}
	coupon.ID = id

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	if updated == nil {
		return nil, ErrCouponNotFound
	}
	return updated, nil
}

// Delete removes a coupon by id.
// Returns ErrCouponNotFound if the id is unknown.
func (s *CouponService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if !deleted {
		return ErrCouponNotFound
	}
	return nil
}

// ListApplicable evaluates every stored coupon against the cart and returns
// the applicable ones in retrieval order. The listing is read-only: the cart
// is never modified and failing coupons are omitted, not errored.
// Returns ErrInvalidRequest for malformed carts and ErrNoCoupons when the
// store is empty.
func (s *CouponService) ListApplicable(ctx context.Context, cart *model.Cart) ([]model.ApplicableCoupon, error) {
	if cart == nil || cart.Items == nil {
		return nil, fmt.Errorf("%w: invalid cart format", ErrInvalidRequest)
	}

	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	if len(coupons) == 0 {
		return nil, ErrNoCoupons
	}

	now := s.now()
	applicable := make([]model.ApplicableCoupon, 0)
	for i := range coupons {
		discount, ok := engine.Evaluate(&coupons[i], cart, now)
		if !ok {
			continue
		}
		applicable = append(applicable, model.ApplicableCoupon{
			CouponID: coupons[i].ID,
			Type:     coupons[i].Type,
			Discount: discount,
		})
	}
	return applicable, nil
}

// ApplyCoupon looks up one coupon and commits its effect onto a copy of the
// cart. Engine errors (expired, condition not met, invalid type) pass
// through unchanged for the transport layer to map.
func (s *CouponService) ApplyCoupon(ctx context.Context, id string, cart *model.Cart) (*model.AppliedCart, error) {
	if cart == nil || cart.Items == nil {
		return nil, fmt.Errorf("%w: invalid cart format", ErrInvalidRequest)
	}

	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	return engine.Apply(coupon, cart, s.now())
}
