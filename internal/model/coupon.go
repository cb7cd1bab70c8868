package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CouponType identifies which discount rule a coupon carries. The set is
// closed: unknown values are rejected at creation and skipped at evaluation.
type CouponType string

const (
	TypeCartWise    CouponType = "cart-wise"
	TypeProductWise CouponType = "product-wise"
	TypeBxGy        CouponType = "bxgy"
)

// Valid reports whether t is one of the known coupon types.
func (t CouponType) Valid() bool {
	switch t {
	case TypeCartWise, TypeProductWise, TypeBxGy:
		return true
	}
	return false
}

// Details is the type-specific payload of a coupon. Exactly one concrete
// shape exists per CouponType, validated at creation time so the engine
// never sees a malformed variant.
type Details interface {
	Validate() error
	couponType() CouponType
}

// CartWiseDetails grants a percentage discount on the whole cart when the
// cart total exceeds Threshold.
type CartWiseDetails struct {
	Threshold float64 `json:"threshold"`
	Discount  float64 `json:"discount"`
}

func (d *CartWiseDetails) couponType() CouponType { return TypeCartWise }

func (d *CartWiseDetails) Validate() error {
	if d.Threshold < 0 {
		return errors.New("threshold must not be negative")
	}
	if d.Discount < 0 || d.Discount > 100 {
		return errors.New("discount must be a percentage between 0 and 100")
	}
	return nil
}

// ProductWiseDetails grants a percentage discount on one product line.
type ProductWiseDetails struct {
	ProductID int64   `json:"product_id"`
	Discount  float64 `json:"discount"`
}

func (d *ProductWiseDetails) couponType() CouponType { return TypeProductWise }

func (d *ProductWiseDetails) Validate() error {
	if d.Discount < 0 || d.Discount > 100 {
		return errors.New("discount must be a percentage between 0 and 100")
	}
	return nil
}

// BuyProduct is one required-purchase entry of a bxgy coupon.
type BuyProduct struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// GetProduct is one free-item entry of a bxgy coupon. Price is the unit
// value assumed when the product is not already present in the cart.
type GetProduct struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
}

// BxGyDetails grants free units of the get products once the cart holds
// enough combined quantity of the buy products, repeatable up to
// RepetitionLimit times. The wire name "repition_limit" is kept as-is for
// compatibility with existing API clients.
type BxGyDetails struct {
	BuyProducts     []BuyProduct `json:"buy_products"`
	GetProducts     []GetProduct `json:"get_products"`
	RepetitionLimit int          `json:"repition_limit"`
}

func (d *BxGyDetails) couponType() CouponType { return TypeBxGy }

func (d *BxGyDetails) Validate() error {
	if len(d.BuyProducts) == 0 {
		return errors.New("buy_products must not be empty")
	}
	for _, b := range d.BuyProducts {
		if b.Quantity <= 0 {
			return fmt.Errorf("buy_products quantity for product %d must be positive", b.ProductID)
		}
	}
	if len(d.GetProducts) == 0 {
		return errors.New("get_products must not be empty")
	}
	for _, g := range d.GetProducts {
		if g.Quantity <= 0 {
			return fmt.Errorf("get_products quantity for product %d must be positive", g.ProductID)
		}
		if g.Price < 0 {
			return fmt.Errorf("get_products price for product %d must not be negative", g.ProductID)
		}
	}
	if d.RepetitionLimit <= 0 {
		return errors.New("repition_limit must be positive")
	}
	return nil
}

// DecodeDetails parses and validates the raw details payload for the given
// coupon type. Unknown types and payloads that fail validation are rejected.
func DecodeDetails(t CouponType, raw []byte) (Details, error) {
	var d Details
	switch t {
	case TypeCartWise:
		d = &CartWiseDetails{}
	case TypeProductWise:
		d = &ProductWiseDetails{}
	case TypeBxGy:
		d = &BxGyDetails{}
	default:
		return nil, fmt.Errorf("unknown coupon type %q", t)
	}
	if len(raw) == 0 {
		return nil, errors.New("details are required")
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decode %s details: %w", t, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Coupon is a stored discount rule. Expired coupons stay stored and listable;
// they are only excluded from applicability and application.
type Coupon struct {
	ID             string     `json:"id"`
	Type           CouponType `json:"type"`
	Details        Details    `json:"details"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UnmarshalJSON decodes a coupon with its details payload resolved to the
// concrete variant for the coupon's type.
func (c *Coupon) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID             string          `json:"id"`
		Type           CouponType      `json:"type"`
		Details        json.RawMessage `json:"details"`
		ExpirationDate *time.Time      `json:"expiration_date"`
		CreatedAt      time.Time       `json:"created_at"`
		UpdatedAt      time.Time       `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	details, err := DecodeDetails(aux.Type, aux.Details)
	if err != nil {
		return err
	}
	c.ID = aux.ID
	c.Type = aux.Type
	c.Details = details
	c.ExpirationDate = aux.ExpirationDate
	c.CreatedAt = aux.CreatedAt
	c.UpdatedAt = aux.UpdatedAt
	return nil
}
