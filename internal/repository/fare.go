package repository

import (
	"context"

	"rideshare/internal/domain"
)

// FareRuleRepository defines the persistence operations for fare rules.
// The implementation guarantees that at most one rule is active at a time.
type FareRuleRepository interface {
	// Create persists a new fare rule. If the rule is created active, all
	// other rules are deactivated in the same operation.
	Create(ctx context.Context, rule *domain.FareRule) error

	// GetByID retrieves a fare rule by ID.
	GetByID(ctx context.Context, id string) (*domain.FareRule, error)

	// GetActive retrieves the currently active fare rule.
	// Returns ErrNotFound when no rule is active.
	GetActive(ctx context.Context) (*domain.FareRule, error)

	// GetAll retrieves all fare rules.
	GetAll(ctx context.Context) ([]*domain.FareRule, error)

	// Update updates the pricing fields of an existing rule.
	Update(ctx context.Context, rule *domain.FareRule) error

	// Delete removes a fare rule.
	Delete(ctx context.Context, id string) error

	// SetActiveExclusive activates the rule with the given ID and
	// deactivates every other rule as part of the same atomic operation.
	SetActiveExclusive(ctx context.Context, id string) (*domain.FareRule, error)
}
