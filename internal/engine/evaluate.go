package engine

import (
	"time"

	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
)

// Evaluate computes the discount the coupon would grant for the cart without
// mutating anything. The second return value is false when the coupon is not
// applicable: expired, unknown type, or conditions unmet. Not being
// applicable is a normal outcome, not an error.
func Evaluate(c *model.Coupon, cart *model.Cart, now time.Time) (float64, bool) {
	if IsExpired(c, now) {
		return 0, false
	}
	switch details := c.Details.(type) {
	case *model.CartWiseDetails:
		return evaluateCartWise(details, cart)
	case *model.ProductWiseDetails:
		return evaluateProductWise(details, cart)
	case *model.BxGyDetails:
		return evaluateBxGy(details, cart)
	default:
		return 0, false
	}
}

// evaluateCartWise applies when the cart total strictly exceeds the
// threshold; a total exactly at the threshold does not qualify.
func evaluateCartWise(d *model.CartWiseDetails, cart *model.Cart) (float64, bool) {
	total := CartTotal(cart)
	if total <= d.Threshold {
		return 0, false
	}
	return d.Discount / 100 * total, true
}

func evaluateProductWise(d *model.ProductWiseDetails, cart *model.Cart) (float64, bool) {
	item := findItem(cart.Items, d.ProductID)
	if item == nil {
		return 0, false
	}
	return d.Discount / 100 * item.Price * float64(item.Quantity), true
}

// evaluateBxGy prices each earned free unit at the matching cart item's
// price when the product is in the cart, falling back to the get entry's
// own listed price otherwise. The coupon is applicable only when the
// combined free value is positive.
func evaluateBxGy(d *model.BxGyDetails, cart *model.Cart) (float64, bool) {
	repeat := bxgyRepeat(d, cart)
	if repeat <= 0 {
		return 0, false
	}
	var discount float64
	for _, g := range d.GetProducts {
		price := g.Price
		if item := findItem(cart.Items, g.ProductID); item != nil {
			price = item.Price
		}
		discount += float64(g.Quantity*repeat) * price
	}
	if discount <= 0 {
		return 0, false
	}
	return discount, true
}

// bxgyRepeat returns how many times the buy requirement is satisfied, capped
// at the repetition limit. A rule requiring zero total buy quantity never
// triggers.
func bxgyRepeat(d *model.BxGyDetails, cart *model.Cart) int {
	xRequired := 0
	for _, b := range d.BuyProducts {
		xRequired += b.Quantity
	}
	if xRequired <= 0 {
		return 0
	}

	totalBuyQty := 0
	for _, b := range d.BuyProducts {
		if item := findItem(cart.Items, b.ProductID); item != nil {
			totalBuyQty += item.Quantity
		}
	}

	repeat := totalBuyQty / xRequired
	if repeat > d.RepetitionLimit {
		repeat = d.RepetitionLimit
	}
	return repeat
}
