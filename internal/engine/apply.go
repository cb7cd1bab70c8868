package engine

import (
	"fmt"
	"time"

	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
)

// Apply commits the coupon's effect onto a copy of the cart and returns the
// rewritten items together with the aggregate totals. The input cart is
// never mutated. Unlike Evaluate, unmet conditions surface as errors so the
// caller can report why the application failed.
func Apply(c *model.Coupon, cart *model.Cart, now time.Time) (*model.AppliedCart, error) {
	if IsExpired(c, now) {
		return nil, ErrExpired
	}

	updated := cart.Clone()
	var totalDiscount float64

	switch details := c.Details.(type) {
	case *model.CartWiseDetails:
		total := CartTotal(cart)
		if total <= details.Threshold {
			return nil, fmt.Errorf("cart total must exceed %v: %w", details.Threshold, ErrConditionNotMet)
		}
		totalDiscount = details.Discount / 100 * total

	case *model.ProductWiseDetails:
		item := findItem(updated.Items, details.ProductID)
		if item == nil {
			return nil, fmt.Errorf("product %d not found in cart: %w", details.ProductID, ErrConditionNotMet)
		}
		discount := details.Discount / 100 * item.Price * float64(item.Quantity)
		item.TotalDiscount = discount
		totalDiscount = discount

	case *model.BxGyDetails:
		repeat := bxgyRepeat(details, cart)
		if repeat <= 0 {
			return nil, fmt.Errorf("cart does not meet the buy requirement: %w", ErrConditionNotMet)
		}
		for _, g := range details.GetProducts {
			freeQty := g.Quantity * repeat
			if item := findItem(updated.Items, g.ProductID); item != nil {
				freeValue := item.Price * float64(freeQty)
				item.Quantity += freeQty
				item.TotalDiscount += freeValue
				totalDiscount += freeValue
			} else {
				freeValue := g.Price * float64(freeQty)
				updated.Items = append(updated.Items, model.CartItem{
					ProductID:     g.ProductID,
					Quantity:      freeQty,
					Price:         g.Price,
					TotalDiscount: freeValue,
				})
				totalDiscount += freeValue
			}
		}

	default:
		return nil, ErrInvalidCouponType
	}

	// The reported total is always the pre-discount total of the original
	// cart, even when free items were added.
	totalPrice := CartTotal(cart)
	return &model.AppliedCart{
		Items:         updated.Items,
		TotalPrice:    totalPrice,
		TotalDiscount: totalDiscount,
		FinalPrice:    totalPrice - totalDiscount,
	}, nil
}
