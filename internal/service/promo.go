package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rideshare/internal/domain"
	"rideshare/internal/redis"
	"rideshare/internal/repository"
	"rideshare/internal/repository/postgres"
)

// PromoUsage captures how often a code has been redeemed so far.
type PromoUsage struct {
	Total  int
	ByUser int
}

// ApplyDiscount computes the adjusted fare for a promo code, checking every
// eligibility rule. It is pure: time is passed in, nothing is persisted.
func ApplyDiscount(fare float64, promo *domain.PromoCode, usage PromoUsage, now time.Time) (float64, error) {
	if promo == nil {
		return 0, ErrInvalidPromoCode
	}
	if !promo.IsActive {
		return 0, ErrPromoInactive
	}
	if now.After(promo.ExpirationDate) {
		return 0, ErrPromoExpired
	}
	if usage.Total >= promo.UsageLimit || usage.ByUser >= promo.UserUsageLimit {
		return 0, ErrPromoExhausted
	}
	if fare < promo.MinRideAmount {
		return 0, ErrPromoNotApplicable
	}

	var adjusted float64
	switch promo.DiscountType {
	case domain.DiscountTypePercentage:
		adjusted = fare * (1 - promo.DiscountValue/100)
	case domain.DiscountTypeFixedAmount:
		adjusted = fare - promo.DiscountValue
	default:
		return 0, ErrInvalidPromoCode
	}

	if adjusted < 0 {
		adjusted = 0
	}
	return adjusted, nil
}

// PromoService applies promo codes to rides and owns promo code administration.
type PromoService struct {
	db         *sql.DB
	promoRepo  repository.PromoCodeRepository
	rideRepo   repository.RideRepository
	cacheStore *redis.CacheStore
	notifier   *NotificationService
}

// NewPromoService creates a new PromoService. The database handle backs the
// transactional apply path; without it writes go through the repository
// interfaces directly. The cache store is optional.
func NewPromoService(
	db *sql.DB,
	promoRepo repository.PromoCodeRepository,
	rideRepo repository.RideRepository,
	cacheStore *redis.CacheStore,
	notifier *NotificationService,
) *PromoService {
	return &PromoService{
		db:         db,
		promoRepo:  promoRepo,
		rideRepo:   rideRepo,
		cacheStore: cacheStore,
		notifier:   notifier,
	}
}

// ApplyToRide applies a promo code to a pending ride. A ride carries at most
// one promo; re-application fails. The fare adjustment and the redemption
// record land together or not at all.
func (s *PromoService) ApplyToRide(ctx context.Context, rideID, code, userID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if code == "" {
		return nil, ErrInvalidPromoCode
	}

	var (
		updated *domain.Ride
		err     error
	)
	if s.db != nil {
		updated, err = s.applyToRideTx(ctx, rideID, code, userID)
	} else {
		updated, err = s.applyToRideDirect(ctx, rideID, code, userID)
	}
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateRide(ctx, rideID)
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyPromoApplied(ctx, updated, code)
	}

	return updated, nil
}

// applyToRideTx runs the eligibility checks, the guarded fare update and the
// redemption insert in one transaction. The promo row is locked first, so
// concurrent applications of the same code serialize and the usage limits
// hold exactly.
func (s *PromoService) applyToRideTx(ctx context.Context, rideID, code, userID string) (*domain.Ride, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Create transaction-scoped repositories.
	txPromoRepo := postgres.NewPromoCodeRepositoryWithTx(tx)
	txRideRepo := postgres.NewRideRepositoryWithTx(tx)

	promo, err := txPromoRepo.GetByCodeForUpdate(ctx, code)
	if err != nil {
		return nil, err
	}

	ride, err := txRideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.PromoCode != "" {
		err = ErrPromoAlreadyApplied
		return nil, err
	}
	if ride.Status != domain.RideStatusPending {
		err = ErrRideNotPending
		return nil, err
	}

	total, byUser, err := txPromoRepo.CountRedemptions(ctx, code, userID)
	if err != nil {
		return nil, err
	}

	adjusted, err := ApplyDiscount(ride.Fare, promo, PromoUsage{Total: total, ByUser: byUser}, time.Now())
	if err != nil {
		return nil, err
	}

	updated, err := txRideRepo.ApplyPromo(ctx, rideID, code, adjusted)
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			err = ErrRideNotPending
		}
		return nil, err
	}

	redemption := &domain.PromoRedemption{
		ID:        uuid.New().String(),
		Code:      code,
		RideID:    rideID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err = txPromoRepo.RecordRedemption(ctx, redemption); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return updated, nil
}

// applyToRideDirect applies the promo through the repository interfaces when
// no database handle is configured. The conditional ride update still guards
// the pending status; the redemption is a separate write.
func (s *PromoService) applyToRideDirect(ctx context.Context, rideID, code, userID string) (*domain.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.PromoCode != "" {
		return nil, ErrPromoAlreadyApplied
	}
	if ride.Status != domain.RideStatusPending {
		return nil, ErrRideNotPending
	}

	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	total, byUser, err := s.promoRepo.CountRedemptions(ctx, code, userID)
	if err != nil {
		return nil, err
	}

	adjusted, err := ApplyDiscount(ride.Fare, promo, PromoUsage{Total: total, ByUser: byUser}, time.Now())
	if err != nil {
		return nil, err
	}

	updated, err := s.rideRepo.UpdateIfStatus(ctx, rideID, domain.RideStatusPending, func(r *domain.Ride) {
		if r.PromoCode != "" {
			return // lost a race with another application; caught below
		}
		r.Fare = adjusted
		r.PromoCode = code
	})
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, ErrRideNotPending
		}
		return nil, err
	}

	if updated.PromoCode != code {
		return nil, ErrPromoAlreadyApplied
	}

	redemption := &domain.PromoRedemption{
		ID:        uuid.New().String(),
		Code:      code,
		RideID:    rideID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.promoRepo.RecordRedemption(ctx, redemption); err != nil {
		return nil, err
	}

	return updated, nil
}

// CreatePromoCodeRequest contains the parameters for creating a promo code.
type CreatePromoCodeRequest struct {
	Code           string
	DiscountType   domain.DiscountType
	DiscountValue  float64
	ExpirationDate time.Time
	UsageLimit     int
	UserUsageLimit int
	MinRideAmount  float64
}

// CreatePromoCode creates a new promo code. Administrative operation.
func (s *PromoService) CreatePromoCode(ctx context.Context, req CreatePromoCodeRequest) (*domain.PromoCode, error) {
	if req.Code == "" || req.DiscountValue <= 0 {
		return nil, ErrInvalidPromoCode
	}
	if req.DiscountType != domain.DiscountTypePercentage && req.DiscountType != domain.DiscountTypeFixedAmount {
		return nil, ErrInvalidPromoCode
	}

	usageLimit := req.UsageLimit
	if usageLimit <= 0 {
		usageLimit = 1
	}
	userUsageLimit := req.UserUsageLimit
	if userUsageLimit <= 0 {
		userUsageLimit = 1
	}

	now := time.Now()
	promo := &domain.PromoCode{
		ID:             uuid.New().String(),
		Code:           req.Code,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		ExpirationDate: req.ExpirationDate,
		UsageLimit:     usageLimit,
		UserUsageLimit: userUsageLimit,
		MinRideAmount:  req.MinRideAmount,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// GetPromoCode retrieves a promo code by ID.
func (s *PromoService) GetPromoCode(ctx context.Context, id string) (*domain.PromoCode, error) {
	return s.promoRepo.GetByID(ctx, id)
}

// GetAllPromoCodes retrieves all promo codes.
func (s *PromoService) GetAllPromoCodes(ctx context.Context) ([]*domain.PromoCode, error) {
	return s.promoRepo.GetAll(ctx)
}

// UpdatePromoCodeRequest contains the updatable fields of a promo code.
// Nil pointers leave the stored value unchanged.
type UpdatePromoCodeRequest struct {
	DiscountValue  *float64
	ExpirationDate *time.Time
	UsageLimit     *int
	UserUsageLimit *int
	MinRideAmount  *float64
	IsActive       *bool
}

// UpdatePromoCode updates an existing promo code. Administrative operation.
func (s *PromoService) UpdatePromoCode(ctx context.Context, id string, req UpdatePromoCodeRequest) (*domain.PromoCode, error) {
	promo, err := s.promoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DiscountValue != nil {
		promo.DiscountValue = *req.DiscountValue
	}
	if req.ExpirationDate != nil {
		promo.ExpirationDate = *req.ExpirationDate
	}
	if req.UsageLimit != nil {
		promo.UsageLimit = *req.UsageLimit
	}
	if req.UserUsageLimit != nil {
		promo.UserUsageLimit = *req.UserUsageLimit
	}
	if req.MinRideAmount != nil {
		promo.MinRideAmount = *req.MinRideAmount
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	promo.UpdatedAt = time.Now()

	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// DeletePromoCode removes a promo code. Administrative operation.
func (s *PromoService) DeletePromoCode(ctx context.Context, id string) error {
	return s.promoRepo.Delete(ctx, id)
}
