package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// FareRuleRepository is a PostgreSQL implementation of repository.FareRuleRepository.
type FareRuleRepository struct {
	db *sql.DB
	q  Querier
}

// NewFareRuleRepository creates a new PostgreSQL fare rule repository.
func NewFareRuleRepository(db *sql.DB) *FareRuleRepository {
	return &FareRuleRepository{db: db, q: db}
}

const fareRuleColumns = `id, base_fare, min_fare_distance, min_fare_amount, per_km_rate, is_active, created_at, updated_at`

// Create persists a new fare rule. A rule created active deactivates all
// others inside the same transaction.
func (r *FareRuleRepository) Create(ctx context.Context, rule *domain.FareRule) error {
	if !rule.IsActive {
		query := `INSERT INTO fare_rules (` + fareRuleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.ExecContext(ctx, query,
			rule.ID, rule.BaseFare, rule.MinFareDistance, rule.MinFareAmount, rule.PerKmRate,
			rule.IsActive, rule.CreatedAt, rule.UpdatedAt,
		)
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE fare_rules SET is_active = FALSE, updated_at = $1 WHERE is_active`, time.Now()); err != nil {
		return err
	}

	query := `INSERT INTO fare_rules (` + fareRuleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err = tx.ExecContext(ctx, query,
		rule.ID, rule.BaseFare, rule.MinFareDistance, rule.MinFareAmount, rule.PerKmRate,
		rule.IsActive, rule.CreatedAt, rule.UpdatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a fare rule by ID.
func (r *FareRuleRepository) GetByID(ctx context.Context, id string) (*domain.FareRule, error) {
	query := `SELECT ` + fareRuleColumns + ` FROM fare_rules WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetActive retrieves the currently active fare rule.
func (r *FareRuleRepository) GetActive(ctx context.Context) (*domain.FareRule, error) {
	query := `SELECT ` + fareRuleColumns + ` FROM fare_rules WHERE is_active LIMIT 1`
	return r.scanOne(r.q.QueryRowContext(ctx, query))
}

// GetAll retrieves all fare rules.
func (r *FareRuleRepository) GetAll(ctx context.Context) ([]*domain.FareRule, error) {
	query := `SELECT ` + fareRuleColumns + ` FROM fare_rules ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.FareRule
	for rows.Next() {
		var rule domain.FareRule
		if err := rows.Scan(
			&rule.ID, &rule.BaseFare, &rule.MinFareDistance, &rule.MinFareAmount, &rule.PerKmRate,
			&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

// Update updates the pricing fields of an existing rule.
func (r *FareRuleRepository) Update(ctx context.Context, rule *domain.FareRule) error {
	query := `
		UPDATE fare_rules
		SET base_fare = $1, min_fare_distance = $2, min_fare_amount = $3, per_km_rate = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.q.ExecContext(ctx, query,
		rule.BaseFare, rule.MinFareDistance, rule.MinFareAmount, rule.PerKmRate, time.Now(), rule.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a fare rule.
func (r *FareRuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM fare_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetActiveExclusive activates the rule with the given ID and deactivates all
// other rules in one transaction, so two rules are never active at once even
// under concurrent activation calls. Last committed activation wins.
func (r *FareRuleRepository) SetActiveExclusive(ctx context.Context, id string) (*domain.FareRule, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now()
	if _, err = tx.ExecContext(ctx, `UPDATE fare_rules SET is_active = FALSE, updated_at = $1 WHERE is_active AND id <> $2`, now, id); err != nil {
		return nil, err
	}

	query := `UPDATE fare_rules SET is_active = TRUE, updated_at = $1 WHERE id = $2 RETURNING ` + fareRuleColumns
	var rule domain.FareRule
	err = tx.QueryRowContext(ctx, query, now, id).Scan(
		&rule.ID, &rule.BaseFare, &rule.MinFareDistance, &rule.MinFareAmount, &rule.PerKmRate,
		&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repository.ErrNotFound
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &rule, nil
}

func (r *FareRuleRepository) scanOne(row *sql.Row) (*domain.FareRule, error) {
	var rule domain.FareRule
	err := row.Scan(
		&rule.ID, &rule.BaseFare, &rule.MinFareDistance, &rule.MinFareAmount, &rule.PerKmRate,
		&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}
