package engine

import "errors"

var (
	// ErrExpired is returned when applying a coupon past its expiration date
	ErrExpired = errors.New("coupon is expired")

	// ErrConditionNotMet is returned when the cart does not satisfy the coupon's conditions
	ErrConditionNotMet = errors.New("coupon conditions not met")

	// ErrInvalidCouponType is returned when a coupon carries an unrecognized type
	ErrInvalidCouponType = errors.New("invalid coupon type")
)
