package model

// CartItem is one line of a shopping cart. TotalDiscount is populated only
// when a coupon is applied, never during applicability listing.
type CartItem struct {
	ProductID     int64   `json:"product_id"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	TotalDiscount float64 `json:"total_discount,omitempty"`
}

// Cart is a transient shopping cart supplied by the caller. Carts are never
// persisted. A nil Items slice marks a malformed cart; an empty slice is a
// valid empty cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Clone returns a value copy of the cart so application can mutate freely
// without touching the caller's cart.
func (c *Cart) Clone() *Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items}
}

// ApplicableCoupon is one entry of the applicability listing. Entries keep
// the order in which the stored coupons were evaluated.
type ApplicableCoupon struct {
	CouponID string     `json:"coupon_id"`
	Type     CouponType `json:"type"`
	Discount float64    `json:"discount"`
}

// AppliedCart is the outcome of committing one coupon to a cart. TotalPrice
// is the pre-discount total of the original cart.
type AppliedCart struct {
	Items         []CartItem `json:"items"`
	TotalPrice    float64    `json:"total_price"`
	TotalDiscount float64    `json:"total_discount"`
	FinalPrice    float64    `json:"final_price"`
}
