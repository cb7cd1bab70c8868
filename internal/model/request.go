package model

import (
	"encoding/json"
	"time"
)

// CreateCouponRequest is the DTO for creating or replacing a coupon. Details
// stays raw until the type is known, then DecodeDetails resolves the variant.
type CreateCouponRequest struct {
	Type           string          `json:"type" validate:"required,coupontype"`
	Details        json.RawMessage `json:"details" validate:"required"`
	ExpirationDate *time.Time      `json:"expiration_date"`
}

// ApplicableCouponsRequest is the DTO for the applicability listing endpoint.
type ApplicableCouponsRequest struct {
	Cart *Cart `json:"cart"`
}

// ApplyCouponRequest is the DTO for the apply-coupon endpoint.
type ApplyCouponRequest struct {
	Cart *Cart `json:"cart"`
}
