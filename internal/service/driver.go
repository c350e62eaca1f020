package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
	"rideshare/internal/repository/postgres"
)

// DriverService handles driver registration and verification. The ride
// lifecycle never reads the verification flag; gating an unverified driver
// out of the claim flow is the caller's job.
type DriverService struct {
	db         *sql.DB
	driverRepo repository.DriverRepository
	userRepo   repository.UserRepository
}

// NewDriverService creates a new DriverService. The database handle backs the
// transactional verification path; without it writes go through the
// repository interfaces directly.
func NewDriverService(db *sql.DB, driverRepo repository.DriverRepository, userRepo repository.UserRepository) *DriverService {
	return &DriverService{
		db:         db,
		driverRepo: driverRepo,
		userRepo:   userRepo,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	UserID                    string
	LicenseNumber             string
	VehicleModel              string
	VehicleColor              string
	VehicleRegistrationNumber string
}

// Register creates a driver profile for an existing user. The profile starts
// unverified; approval later promotes the user to the Driver role.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if req.UserID == "" {
		return nil, ErrInvalidDriverID
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	existing, err := s.driverRepo.GetByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDriverAlreadyRegistered
	}

	driver := &domain.Driver{
		ID:                        uuid.New().String(),
		UserID:                    req.UserID,
		LicenseNumber:             req.LicenseNumber,
		VehicleModel:              req.VehicleModel,
		VehicleColor:              req.VehicleColor,
		VehicleRegistrationNumber: req.VehicleRegistrationNumber,
		IsVerified:                false,
		CreatedAt:                 time.Now(),
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	return s.driverRepo.GetByID(ctx, id)
}

// GetAllDrivers retrieves all drivers.
func (s *DriverService) GetAllDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}

// Verify approves or rejects a driver. Approval also promotes the backing
// user to the Driver role; the flag and the role change land together.
func (s *DriverService) Verify(ctx context.Context, driverID string, verified bool) (*domain.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		err = s.verifyTx(ctx, driver, verified)
	} else {
		err = s.verifyDirect(ctx, driver, verified)
	}
	if err != nil {
		return nil, err
	}

	driver.IsVerified = verified
	return driver, nil
}

// verifyTx writes the verification flag and the role promotion in one
// transaction.
func (s *DriverService) verifyTx(ctx context.Context, driver *domain.Driver, verified bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Create transaction-scoped repositories.
	txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)
	txUserRepo := postgres.NewUserRepositoryWithTx(tx)

	if err = txDriverRepo.SetVerified(ctx, driver.ID, verified); err != nil {
		return err
	}

	if verified {
		if err = txUserRepo.UpdateRole(ctx, driver.UserID, domain.RoleDriver); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// verifyDirect writes through the repository interfaces when no database
// handle is configured.
func (s *DriverService) verifyDirect(ctx context.Context, driver *domain.Driver, verified bool) error {
	if err := s.driverRepo.SetVerified(ctx, driver.ID, verified); err != nil {
		return err
	}
	if verified {
		return s.userRepo.UpdateRole(ctx, driver.UserID, domain.RoleDriver)
	}
	return nil
}
