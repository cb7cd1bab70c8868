package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
)

// New creates a new validator instance with the coupon-specific validations
// registered. This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// "coupontype" accepts only the closed set of known coupon types.
	// Unknown types must be rejected at creation, not discovered at evaluation.
	_ = v.RegisterValidation("coupontype", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return model.CouponType(str).Valid()
	})

	return v
}
