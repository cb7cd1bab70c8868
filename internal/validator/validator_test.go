package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies that New() returns a properly configured validator
func TestNew(t *testing.T) {
	v := New()
	require.NotNil(t, v, "New() should return a non-nil validator")
}

// TestCouponTypeValidator tests the custom coupontype validation
func TestCouponTypeValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Type string `validate:"coupontype"`
	}

	testCases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "cart_wise", input: "cart-wise", expectError: false},
		{name: "product_wise", input: "product-wise", expectError: false},
		{name: "bxgy", input: "bxgy", expectError: false},
		{name: "unknown_type", input: "flash-sale", expectError: true},
		{name: "empty_string", input: "", expectError: true},
		{name: "case_sensitive", input: "Cart-Wise", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(TestStruct{Type: tc.input})
			if tc.expectError {
				assert.Error(t, err, "type %q should be rejected", tc.input)
			} else {
				assert.NoError(t, err, "type %q should be accepted", tc.input)
			}
		})
	}
}
