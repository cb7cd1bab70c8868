package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
)

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFn func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFn != nil {
		return m.scanFn(dest...)
	}
	return nil
}

// mockRows implements pgx.Rows for testing List.
type mockRows struct {
	coupons   []model.Coupon
	index     int
	errOnRows error
}

func (m *mockRows) Close() {}

func (m *mockRows) Err() error {
	return m.errOnRows
}

func (m *mockRows) Next() bool {
	if m.index < len(m.coupons) {
		m.index++
		return true
	}
	return false
}

func (m *mockRows) Scan(dest ...any) error {
	c := m.coupons[m.index-1]
	details, err := json.Marshal(c.Details)
	if err != nil {
		return err
	}
	*(dest[0].(*string)) = c.ID
	*(dest[1].(*string)) = string(c.Type)
	*(dest[2].(*[]byte)) = details
	*(dest[3].(**time.Time)) = c.ExpirationDate
	*(dest[4].(*time.Time)) = c.CreatedAt
	*(dest[5].(*time.Time)) = c.UpdatedAt
	return nil
}

func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// mockPool implements PoolInterface for testing.
type mockPool struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &mockRows{}, nil
}

func TestCouponRepository_Insert_MarshalsDetails(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any

	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			capturedArgs = args
			return &mockRow{}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon := &model.Coupon{
		ID:      "7c3de3f1-0000-4000-8000-000000000001",
		Type:    model.TypeCartWise,
		Details: &model.CartWiseDetails{Threshold: 100, Discount: 10},
	}

	err := repo.Insert(context.Background(), coupon)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO coupons")
	assert.Equal(t, coupon.ID, capturedArgs[0])
	assert.Equal(t, "cart-wise", capturedArgs[1])
	assert.JSONEq(t, `{"threshold": 100, "discount": 10}`, string(capturedArgs[2].([]byte)))
}

func TestCouponRepository_GetByID_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon, err := repo.GetByID(context.Background(), "7c3de3f1-0000-4000-8000-000000000001")

	require.NoError(t, err)
	assert.Nil(t, coupon, "not found returns nil, nil")
}

func TestCouponRepository_GetByID_MalformedID(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon, err := repo.GetByID(context.Background(), "definitely-not-a-uuid")

	require.NoError(t, err)
	assert.Nil(t, coupon, "malformed ids are treated as unknown coupons")
}

func TestCouponRepository_GetByID_DecodesDetails(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				*(dest[0].(*string)) = "7c3de3f1-0000-4000-8000-000000000001"
				*(dest[1].(*string)) = "product-wise"
				*(dest[2].(*[]byte)) = []byte(`{"product_id": 5, "discount": 20}`)
				*(dest[3].(**time.Time)) = nil
				*(dest[4].(*time.Time)) = now
				*(dest[5].(*time.Time)) = now
				return nil
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon, err := repo.GetByID(context.Background(), "7c3de3f1-0000-4000-8000-000000000001")

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Equal(t, model.TypeProductWise, coupon.Type)
	details, ok := coupon.Details.(*model.ProductWiseDetails)
	require.True(t, ok, "details decode to the concrete variant")
	assert.Equal(t, int64(5), details.ProductID)
	assert.Equal(t, 20.0, details.Discount)
}

func TestCouponRepository_List_Empty(t *testing.T) {
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &mockRows{}, nil
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupons, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, coupons, "empty slice, not nil")
	assert.Empty(t, coupons)
}

func TestCouponRepository_List_PreservesOrder(t *testing.T) {
	stored := []model.Coupon{
		{ID: "c1", Type: model.TypeCartWise, Details: &model.CartWiseDetails{Threshold: 10, Discount: 5}},
		{ID: "c2", Type: model.TypeBxGy, Details: &model.BxGyDetails{
			BuyProducts:     []model.BuyProduct{{ProductID: 1, Quantity: 2}},
			GetProducts:     []model.GetProduct{{ProductID: 2, Quantity: 1, Price: 8}},
			RepetitionLimit: 3,
		}},
	}
	var capturedSQL string
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			capturedSQL = sql
			return &mockRows{coupons: stored}, nil
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupons, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Contains(t, capturedSQL, "ORDER BY created_at")
	assert.Equal(t, "c1", coupons[0].ID)
	assert.Equal(t, "c2", coupons[1].ID)
	bxgy, ok := coupons[1].Details.(*model.BxGyDetails)
	require.True(t, ok)
	assert.Equal(t, 3, bxgy.RepetitionLimit)
}

func TestCouponRepository_Update_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	updated, err := repo.Update(context.Background(), &model.Coupon{
		ID:      "7c3de3f1-0000-4000-8000-000000000001",
		Type:    model.TypeCartWise,
		Details: &model.CartWiseDetails{Threshold: 10, Discount: 5},
	})

	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestCouponRepository_Delete_ReportsOutcome(t *testing.T) {
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	deleted, err := repo.Delete(context.Background(), "7c3de3f1-0000-4000-8000-000000000001")

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCouponRepository_Delete_PoolError(t *testing.T) {
	poolErr := errors.New("connection reset")
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, poolErr
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	_, err := repo.Delete(context.Background(), "7c3de3f1-0000-4000-8000-000000000001")

	require.Error(t, err)
	assert.ErrorIs(t, err, poolErr)
}
