package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	db *sql.DB
	q  Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db, q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, rider_id, driver_id, pickup_lat, pickup_lng, pickup_address, dropoff_lat, dropoff_lng, dropoff_address, distance_km, fare, promo_code, status, payment_status, created_at, updated_at, cancelled_at, cancel_reason`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.Pickup.Lat,
		ride.Pickup.Lng,
		ride.Pickup.Address,
		ride.Dropoff.Lat,
		ride.Dropoff.Lng,
		ride.Dropoff.Address,
		ride.DistanceKm,
		ride.Fare,
		nullString(ride.PromoCode),
		ride.Status,
		ride.PaymentStatus,
		ride.CreatedAt,
		ride.UpdatedAt,
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetByRiderID retrieves all rides requested by a rider.
func (r *RideRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE rider_id = $1 ORDER BY created_at DESC`
	return r.queryRides(ctx, query, riderID)
}

// GetByDriverID retrieves all rides assigned to a driver.
func (r *RideRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.queryRides(ctx, query, driverID)
}

// GetAll retrieves all rides.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`
	return r.queryRides(ctx, query)
}

// Claim atomically assigns a driver to a pending, unassigned ride.
// The status and driver guards live in the WHERE clause, so racing claims on
// the same ride resolve to exactly one updated row; the loser sees zero rows
// affected and gets ErrPreconditionFailed.
func (r *RideRepository) Claim(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	query := `
		UPDATE rides
		SET driver_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND driver_id IS NULL
		RETURNING ` + rideColumns

	ride, err := scanRide(r.q.QueryRowContext(ctx, query,
		driverID,
		domain.RideStatusAccepted,
		time.Now(),
		rideID,
		domain.RideStatusPending,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the ride does not exist or the guard did not match.
			if _, getErr := r.GetByID(ctx, rideID); getErr != nil {
				return nil, getErr
			}
			return nil, repository.ErrPreconditionFailed
		}
		return nil, err
	}

	return ride, nil
}

// ApplyPromo writes a discounted fare and a promo code onto a pending ride
// that carries no promo yet. The guards live in the WHERE clause like in
// Claim; a ride that lost the race yields ErrPreconditionFailed.
func (r *RideRepository) ApplyPromo(ctx context.Context, rideID, code string, fare float64) (*domain.Ride, error) {
	query := `
		UPDATE rides
		SET fare = $1, promo_code = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND promo_code IS NULL
		RETURNING ` + rideColumns

	ride, err := scanRide(r.q.QueryRowContext(ctx, query,
		fare,
		code,
		time.Now(),
		rideID,
		domain.RideStatusPending,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, rideID); getErr != nil {
				return nil, getErr
			}
			return nil, repository.ErrPreconditionFailed
		}
		return nil, err
	}

	return ride, nil
}

// UpdateIfStatus applies mutate to the ride only if its stored status still
// equals expected. The read and the guarded write run in one transaction with
// the row locked, so concurrent transitions on the same ride serialize.
func (r *RideRepository) UpdateIfStatus(ctx context.Context, id string, expected domain.RideStatus, mutate repository.RideMutation) (*domain.Ride, error) {
	if r.db == nil {
		return nil, errors.New("conditional update requires a db-backed repository")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1 FOR UPDATE`
	ride, err := scanRide(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repository.ErrNotFound
		}
		return nil, err
	}

	if ride.Status != expected {
		err = repository.ErrPreconditionFailed
		return nil, err
	}

	mutate(ride)
	ride.UpdatedAt = time.Now()

	update := `
		UPDATE rides
		SET driver_id = $1, fare = $2, promo_code = $3, status = $4, payment_status = $5, updated_at = $6, cancelled_at = $7, cancel_reason = $8
		WHERE id = $9
	`
	if _, err = tx.ExecContext(ctx, update,
		nullString(ride.DriverID),
		ride.Fare,
		nullString(ride.PromoCode),
		ride.Status,
		ride.PaymentStatus,
		ride.UpdatedAt,
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
		ride.ID,
	); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return ride, nil
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, promoCode, cancelReason sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.Pickup.Lat,
		&ride.Pickup.Lng,
		&ride.Pickup.Address,
		&ride.Dropoff.Lat,
		&ride.Dropoff.Lng,
		&ride.Dropoff.Address,
		&ride.DistanceKm,
		&ride.Fare,
		&promoCode,
		&ride.Status,
		&ride.PaymentStatus,
		&ride.CreatedAt,
		&ride.UpdatedAt,
		&cancelledAt,
		&cancelReason,
	)
	if err != nil {
		return nil, err
	}

	ride.DriverID = driverID.String
	ride.PromoCode = promoCode.String
	ride.CancelReason = cancelReason.String
	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}

	return &ride, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
