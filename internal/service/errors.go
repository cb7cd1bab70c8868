package service

import "errors"

var (
	// ErrCouponNotFound is returned when a coupon id is unknown
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrNoCoupons is returned by the applicability listing when the store
	// holds no coupons at all, as opposed to none being applicable
	ErrNoCoupons = errors.New("no coupons found")

	// ErrInvalidRequest is returned when request data is malformed, including
	// carts without an item list
	ErrInvalidRequest = errors.New("invalid request")
)
