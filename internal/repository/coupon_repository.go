package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/coupon-rules-engine/internal/model"
)

// PoolInterface defines the database operations needed by the repository.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CouponRepository provides data access for coupons using pgx. The details
// variant is stored as JSONB and round-trips through the typed payload
// structs.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom
// pool interface. This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `id, type, details, expiration_date, created_at, updated_at`

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row scanner) (*model.Coupon, error) {
	var (
		coupon  model.Coupon
		typ     string
		details []byte
	)
	err := row.Scan(
		&coupon.ID,
		&typ,
		&details,
		&coupon.ExpirationDate,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	coupon.Type = model.CouponType(typ)
	decoded, err := model.DecodeDetails(coupon.Type, details)
	if err != nil {
		return nil, fmt.Errorf("decode stored details for coupon %s: %w", coupon.ID, err)
	}
	coupon.Details = decoded
	return &coupon, nil
}

// isInvalidID reports whether the error is PostgreSQL's invalid text
// representation (code 22P02), which the UUID column raises for malformed
// ids. Malformed ids are treated as unknown coupons, not as server errors.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// Insert stores a new coupon and fills in the store-assigned timestamps.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	details, err := json.Marshal(coupon.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	query := `INSERT INTO coupons (id, type, details, expiration_date)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		coupon.ID, string(coupon.Type), details, coupon.ExpirationDate,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByID retrieves a coupon by its id.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon by id %s: %w", id, err)
	}
	return coupon, nil
}

// List retrieves all coupons ordered by creation time, which is the
// evaluation order for the applicability listing.
// On success, returns an empty slice (not nil) when no coupons exist.
func (r *CouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]model.Coupon, 0)
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, *coupon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// Update replaces a coupon's definition and bumps updated_at, returning the
// stored record.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) Update(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	details, err := json.Marshal(coupon.Details)
	if err != nil {
		return nil, fmt.Errorf("marshal details: %w", err)
	}

	query := `UPDATE coupons
		SET type = $2, details = $3, expiration_date = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + couponColumns

	updated, err := scanCoupon(r.pool.QueryRow(ctx, query,
		coupon.ID, string(coupon.Type), details, coupon.ExpirationDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update coupon %s: %w", coupon.ID, err)
	}
	return updated, nil
}

// Delete removes a coupon by id and reports whether a row was deleted.
func (r *CouponRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete coupon %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
