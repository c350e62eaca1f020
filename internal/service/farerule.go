package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rideshare/internal/domain"
	"rideshare/internal/redis"
	"rideshare/internal/repository"
)

// FareRuleService owns the fare rule registry: the active rule lookup on the
// ride creation hot path (cache-aside) and the administrative operations.
type FareRuleService struct {
	fareRepo   repository.FareRuleRepository
	cacheStore *redis.CacheStore
}

// NewFareRuleService creates a new FareRuleService. The cache store is optional.
func NewFareRuleService(fareRepo repository.FareRuleRepository, cacheStore *redis.CacheStore) *FareRuleService {
	return &FareRuleService{
		fareRepo:   fareRepo,
		cacheStore: cacheStore,
	}
}

// GetActive returns the currently active fare rule, or ErrNoActiveFareRule
// when none is configured.
func (s *FareRuleService) GetActive(ctx context.Context) (*domain.FareRule, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetActiveFareRule(ctx); err == nil && cached != nil {
			return &domain.FareRule{
				ID:              cached.ID,
				BaseFare:        cached.BaseFare,
				MinFareDistance: cached.MinFareDistance,
				MinFareAmount:   cached.MinFareAmount,
				PerKmRate:       cached.PerKmRate,
				IsActive:        true,
			}, nil
		}
	}

	rule, err := s.fareRepo.GetActive(ctx)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNoActiveFareRule
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetActiveFareRule(ctx, &redis.CachedFareRule{
			ID:              rule.ID,
			BaseFare:        rule.BaseFare,
			MinFareDistance: rule.MinFareDistance,
			MinFareAmount:   rule.MinFareAmount,
			PerKmRate:       rule.PerKmRate,
		})
	}

	return rule, nil
}

// Quote prices a hypothetical ride of the given distance without creating one.
func (s *FareRuleService) Quote(ctx context.Context, distanceKm float64) (float64, error) {
	rule, err := s.GetActive(ctx)
	if err != nil {
		return 0, err
	}
	return ComputeFare(distanceKm, rule)
}

// CreateFareRuleRequest contains the parameters for creating a fare rule.
type CreateFareRuleRequest struct {
	BaseFare        float64
	MinFareDistance float64
	MinFareAmount   float64
	PerKmRate       float64
	IsActive        bool
}

// Create creates a new fare rule. A rule created active deactivates every
// other rule atomically.
func (s *FareRuleService) Create(ctx context.Context, req CreateFareRuleRequest) (*domain.FareRule, error) {
	now := time.Now()
	rule := &domain.FareRule{
		ID:              uuid.New().String(),
		BaseFare:        req.BaseFare,
		MinFareDistance: req.MinFareDistance,
		MinFareAmount:   req.MinFareAmount,
		PerKmRate:       req.PerKmRate,
		IsActive:        req.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := ValidateFareRule(rule); err != nil {
		return nil, err
	}

	if err := s.fareRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return rule, nil
}

// UpdateFareRuleRequest contains the updatable pricing fields of a rule.
// Nil pointers leave the stored value unchanged.
type UpdateFareRuleRequest struct {
	BaseFare        *float64
	MinFareDistance *float64
	MinFareAmount   *float64
	PerKmRate       *float64
}

// Update updates the pricing fields of a rule.
func (s *FareRuleService) Update(ctx context.Context, id string, req UpdateFareRuleRequest) (*domain.FareRule, error) {
	rule, err := s.fareRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BaseFare != nil {
		rule.BaseFare = *req.BaseFare
	}
	if req.MinFareDistance != nil {
		rule.MinFareDistance = *req.MinFareDistance
	}
	if req.MinFareAmount != nil {
		rule.MinFareAmount = *req.MinFareAmount
	}
	if req.PerKmRate != nil {
		rule.PerKmRate = *req.PerKmRate
	}

	if err := ValidateFareRule(rule); err != nil {
		return nil, err
	}

	if err := s.fareRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return rule, nil
}

// Activate makes the rule with the given ID the single active rule.
func (s *FareRuleService) Activate(ctx context.Context, id string) (*domain.FareRule, error) {
	rule, err := s.fareRepo.SetActiveExclusive(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return rule, nil
}

// GetAll retrieves all fare rules.
func (s *FareRuleService) GetAll(ctx context.Context) ([]*domain.FareRule, error) {
	return s.fareRepo.GetAll(ctx)
}

// GetByID retrieves a fare rule by ID.
func (s *FareRuleService) GetByID(ctx context.Context, id string) (*domain.FareRule, error) {
	return s.fareRepo.GetByID(ctx, id)
}

// Delete removes a fare rule. Deleting the active rule leaves no rule active;
// ride creation fails with ErrNoActiveFareRule until another is activated.
func (s *FareRuleService) Delete(ctx context.Context, id string) error {
	if err := s.fareRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *FareRuleService) invalidateCache(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateActiveFareRule(ctx)
}
