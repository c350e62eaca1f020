package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// PromoCodeRepository is a PostgreSQL implementation of repository.PromoCodeRepository.
type PromoCodeRepository struct {
	q Querier
}

// NewPromoCodeRepository creates a new PostgreSQL promo code repository.
func NewPromoCodeRepository(db *sql.DB) *PromoCodeRepository {
	return &PromoCodeRepository{q: db}
}

// NewPromoCodeRepositoryWithTx creates a promo code repository using a transaction.
func NewPromoCodeRepositoryWithTx(tx *sql.Tx) *PromoCodeRepository {
	return &PromoCodeRepository{q: tx}
}

const promoColumns = `id, code, discount_type, discount_value, expiration_date, usage_limit, user_usage_limit, min_ride_amount, is_active, created_at, updated_at`

// Create persists a new promo code.
func (r *PromoCodeRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	query := `INSERT INTO promo_codes (` + promoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.ExecContext(ctx, query,
		promo.ID, promo.Code, promo.DiscountType, promo.DiscountValue, promo.ExpirationDate,
		promo.UsageLimit, promo.UserUsageLimit, promo.MinRideAmount, promo.IsActive,
		promo.CreatedAt, promo.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByCode retrieves a promo code by its code string.
func (r *PromoCodeRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, code))
}

// GetByCodeForUpdate retrieves a promo code by its code string and locks the
// row for the rest of the surrounding transaction. Serializes redemption
// counting against concurrent applications of the same code.
func (r *PromoCodeRepository) GetByCodeForUpdate(ctx context.Context, code string) (*domain.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, code))
}

// GetByID retrieves a promo code by ID.
func (r *PromoCodeRepository) GetByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetAll retrieves all promo codes.
func (r *PromoCodeRepository) GetAll(ctx context.Context) ([]*domain.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []*domain.PromoCode
	for rows.Next() {
		var promo domain.PromoCode
		if err := rows.Scan(
			&promo.ID, &promo.Code, &promo.DiscountType, &promo.DiscountValue, &promo.ExpirationDate,
			&promo.UsageLimit, &promo.UserUsageLimit, &promo.MinRideAmount, &promo.IsActive,
			&promo.CreatedAt, &promo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		promos = append(promos, &promo)
	}
	return promos, rows.Err()
}

// Update updates an existing promo code.
func (r *PromoCodeRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	query := `
		UPDATE promo_codes
		SET discount_type = $1, discount_value = $2, expiration_date = $3, usage_limit = $4, user_usage_limit = $5, min_ride_amount = $6, is_active = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.q.ExecContext(ctx, query,
		promo.DiscountType, promo.DiscountValue, promo.ExpirationDate,
		promo.UsageLimit, promo.UserUsageLimit, promo.MinRideAmount, promo.IsActive,
		promo.UpdatedAt, promo.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a promo code.
func (r *PromoCodeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CountRedemptions returns total and per-user redemption counts for a code.
func (r *PromoCodeRepository) CountRedemptions(ctx context.Context, code, userID string) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE user_id = $2)
		FROM promo_redemptions WHERE code = $1
	`
	var total, byUser int
	if err := r.q.QueryRowContext(ctx, query, code, userID).Scan(&total, &byUser); err != nil {
		return 0, 0, err
	}
	return total, byUser, nil
}

// RecordRedemption persists a redemption record.
func (r *PromoCodeRepository) RecordRedemption(ctx context.Context, redemption *domain.PromoRedemption) error {
	query := `INSERT INTO promo_redemptions (id, code, ride_id, user_id, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.ExecContext(ctx, query,
		redemption.ID, redemption.Code, redemption.RideID, redemption.UserID, redemption.CreatedAt,
	)
	return err
}

func (r *PromoCodeRepository) scanOne(row *sql.Row) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := row.Scan(
		&promo.ID, &promo.Code, &promo.DiscountType, &promo.DiscountValue, &promo.ExpirationDate,
		&promo.UsageLimit, &promo.UserUsageLimit, &promo.MinRideAmount, &promo.IsActive,
		&promo.CreatedAt, &promo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
