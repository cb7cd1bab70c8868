// Package engine implements the coupon rule core: cart totals, expiration
// checks, read-only applicability evaluation, and cart application. Every
// function is a pure computation over its inputs; the current time is always
// an explicit parameter so callers control the clock.
package engine

import (
	"time"

	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
)

// CartTotal returns the pre-discount total of the cart: the sum of
// price times quantity over all items. An empty cart totals 0.
func CartTotal(cart *model.Cart) float64 {
	var total float64
	for _, item := range cart.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// IsExpired reports whether the coupon's expiration date lies strictly
// before now. Coupons without an expiration date never expire, and a coupon
// expiring at exactly now is still valid.
func IsExpired(c *model.Coupon, now time.Time) bool {
	if c.ExpirationDate == nil {
		return false
	}
	return c.ExpirationDate.Before(now)
}

// findItem returns the first cart item matching the product id, or nil.
// Carts are not assumed to be deduplicated.
func findItem(items []model.CartItem, productID int64) *model.CartItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}
