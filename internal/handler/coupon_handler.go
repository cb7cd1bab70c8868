package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/coupon-rules-engine/internal/engine"
	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
	"github.com/fairyhunter13/coupon-rules-engine/internal/service"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	GetByID(ctx context.Context, id string) (*model.Coupon, error)
	Update(ctx context.Context, id string, req *model.CreateCouponRequest) (*model.Coupon, error)
	Delete(ctx context.Context, id string) error
	ListApplicable(ctx context.Context, cart *model.Cart) ([]model.ApplicableCoupon, error)
	ApplyCoupon(ctx context.Context, id string, cart *model.Cart) (*model.AppliedCart, error)
}

// CouponHandler handles HTTP requests for coupon CRUD, applicability listing
// and coupon application.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// formatValidationError converts validator errors into user-facing messages.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Field() {
			case "Type":
				if fe.Tag() == "required" {
					return "invalid request: type is required"
				}
				return "invalid request: type must be one of cart-wise, product-wise, bxgy"
			case "Details":
				return "invalid request: details are required"
			default:
				return "invalid request: " + fe.Field() + " is invalid"
			}
		}
	}
	return "invalid request"
}

// CreateCoupon handles POST /api/coupons.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": formatValidationError(err)})
	}

	coupon, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		log.Error().Err(err).Str("coupon_type", req.Type).Msg("failed to create coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"coupon":  coupon,
		"message": "coupon created successfully",
	})
}

// ListCoupons handles GET /api/coupons. Expired coupons stay listed; they
// are only excluded from applicability and application.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
	return c.JSON(fiber.Map{
		"coupons": coupons,
		"message": "coupons fetched successfully",
	})
}

// GetCoupon handles GET /api/coupons/:id.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	id := c.Params("id")

	coupon, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
		}
		log.Error().Err(err).Str("coupon_id", id).Msg("failed to get coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
	return c.JSON(fiber.Map{
		"coupon":  coupon,
		"message": "coupon fetched successfully",
	})
}

// UpdateCoupon handles PUT /api/coupons/:id. The stored definition is fully
// replaced; the id and creation timestamp are kept.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	id := c.Params("id")

	var req model.CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": formatValidationError(err)})
	}

	coupon, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			log.Error().Err(err).Str("coupon_id", id).Msg("failed to update coupon")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
		}
	}
	return c.JSON(fiber.Map{
		"coupon":  coupon,
		"message": "coupon updated successfully",
	})
}

// DeleteCoupon handles DELETE /api/coupons/:id.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
		}
		log.Error().Err(err).Str("coupon_id", id).Msg("failed to delete coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
	return c.JSON(fiber.Map{"message": "coupon deleted successfully"})
}

// GetApplicableCoupons handles POST /api/coupons/applicable-coupons. The
// listing degrades gracefully: coupons that are expired, unknown, or whose
// conditions fail are omitted rather than errored.
func (h *CouponHandler) GetApplicableCoupons(c *fiber.Ctx) error {
	var req model.ApplicableCouponsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	applicable, err := h.service.ListApplicable(c.Context(), req.Cart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid cart format"})
		case errors.Is(err, service.ErrNoCoupons):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no coupons found"})
		default:
			log.Error().Err(err).Msg("failed to list applicable coupons")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
		}
	}

	log.Info().Int("applicable_count", len(applicable)).Msg("applicable coupons computed")

	return c.JSON(fiber.Map{"applicable_coupons": applicable})
}

// ApplyCoupon handles POST /api/coupons/apply-coupon/:id. Application is
// strict: the first failing precondition aborts with a specific error.
func (h *CouponHandler) ApplyCoupon(c *fiber.Ctx) error {
	id := c.Params("id")

	var req model.ApplyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	result, err := h.service.ApplyCoupon(c.Context(), id, req.Cart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid cart format"})
		case errors.Is(err, service.ErrCouponNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
		case errors.Is(err, engine.ErrExpired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "coupon is expired"})
		case errors.Is(err, engine.ErrConditionNotMet), errors.Is(err, engine.ErrInvalidCouponType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			log.Error().Err(err).Str("coupon_id", id).Msg("failed to apply coupon")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
		}
	}

	log.Info().
		Str("coupon_id", id).
		Float64("total_discount", result.TotalDiscount).
		Float64("final_price", result.FinalPrice).
		Msg("coupon applied")

	return c.JSON(fiber.Map{"updated_cart": result})
}
