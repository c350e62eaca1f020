package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
// Claim and UpdateIfStatus hold the mutex across the read-check-write, so the
// conditional-update semantics match the SQL implementation under races.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	ClaimCallCount  int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	ClaimError  error
	UpdateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

// GetRide returns a ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.RiderID == riderID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) Claim(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	if m.ClaimError != nil {
		return nil, m.ClaimError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusPending || ride.DriverID != "" {
		return nil, repository.ErrPreconditionFailed
	}
	ride.DriverID = driverID
	ride.Status = domain.RideStatusAccepted
	ride.UpdatedAt = time.Now()
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) UpdateIfStatus(ctx context.Context, id string, expected domain.RideStatus, mutate repository.RideMutation) (*domain.Ride, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ride.Status != expected {
		return nil, repository.ErrPreconditionFailed
	}
	mutate(ride)
	ride.UpdatedAt = time.Now()
	copy := *ride
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK FARE RULE REPOSITORY
// ──────────────────────────────────────────────

// MockFareRuleRepository is a mock implementation of FareRuleRepository.
type MockFareRuleRepository struct {
	mu    sync.Mutex
	rules map[string]*domain.FareRule

	ActivateCallCount int32

	CreateError   error
	ActivateError error
}

// NewMockFareRuleRepository creates a new mock fare rule repository.
func NewMockFareRuleRepository() *MockFareRuleRepository {
	return &MockFareRuleRepository{
		rules: make(map[string]*domain.FareRule),
	}
}

// AddRule adds a fare rule to the mock repository.
func (m *MockFareRuleRepository) AddRule(rule *domain.FareRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
}

// ActiveCount returns how many rules are active, for invariant assertions.
func (m *MockFareRuleRepository) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.rules {
		if r.IsActive {
			count++
		}
	}
	return count
}

func (m *MockFareRuleRepository) Create(ctx context.Context, rule *domain.FareRule) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rule.IsActive {
		for _, r := range m.rules {
			r.IsActive = false
		}
	}
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockFareRuleRepository) GetByID(ctx context.Context, id string) (*domain.FareRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.rules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rule
	return &copy, nil
}

func (m *MockFareRuleRepository) GetActive(ctx context.Context) (*domain.FareRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rules {
		if r.IsActive {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockFareRuleRepository) GetAll(ctx context.Context) ([]*domain.FareRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.FareRule, 0, len(m.rules))
	for _, r := range m.rules {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockFareRuleRepository) Update(ctx context.Context, rule *domain.FareRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rules[rule.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.BaseFare = rule.BaseFare
	stored.MinFareDistance = rule.MinFareDistance
	stored.MinFareAmount = rule.MinFareAmount
	stored.PerKmRate = rule.PerKmRate
	return nil
}

func (m *MockFareRuleRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rules, id)
	return nil
}

func (m *MockFareRuleRepository) SetActiveExclusive(ctx context.Context, id string) (*domain.FareRule, error) {
	atomic.AddInt32(&m.ActivateCallCount, 1)
	if m.ActivateError != nil {
		return nil, m.ActivateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.rules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, r := range m.rules {
		r.IsActive = false
	}
	target.IsActive = true
	copy := *target
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK PROMO CODE REPOSITORY
// ──────────────────────────────────────────────

// MockPromoCodeRepository is a mock implementation of PromoCodeRepository.
type MockPromoCodeRepository struct {
	mu          sync.Mutex
	promos      map[string]*domain.PromoCode // keyed by code
	redemptions []*domain.PromoRedemption

	RecordCallCount int32

	RecordError error
}

// NewMockPromoCodeRepository creates a new mock promo code repository.
func NewMockPromoCodeRepository() *MockPromoCodeRepository {
	return &MockPromoCodeRepository{
		promos: make(map[string]*domain.PromoCode),
	}
}

// AddPromo adds a promo code to the mock repository.
func (m *MockPromoCodeRepository) AddPromo(promo *domain.PromoCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos[promo.Code] = promo
}

func (m *MockPromoCodeRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.promos[promo.Code]; exists {
		return repository.ErrDuplicate
	}
	m.promos[promo.Code] = promo
	return nil
}

func (m *MockPromoCodeRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	promo, ok := m.promos[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *promo
	return &copy, nil
}

func (m *MockPromoCodeRepository) GetByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.promos {
		if p.ID == id {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPromoCodeRepository) GetAll(ctx context.Context) ([]*domain.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.PromoCode, 0, len(m.promos))
	for _, p := range m.promos {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPromoCodeRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, p := range m.promos {
		if p.ID == promo.ID {
			copy := *promo
			m.promos[code] = &copy
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockPromoCodeRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, p := range m.promos {
		if p.ID == id {
			delete(m.promos, code)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockPromoCodeRepository) CountRedemptions(ctx context.Context, code, userID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total, byUser := 0, 0
	for _, r := range m.redemptions {
		if r.Code != code {
			continue
		}
		total++
		if r.UserID == userID {
			byUser++
		}
	}
	return total, byUser, nil
}

func (m *MockPromoCodeRepository) RecordRedemption(ctx context.Context, redemption *domain.PromoRedemption) error {
	atomic.AddInt32(&m.RecordCallCount, 1)
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redemptions = append(m.redemptions, redemption)
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	CreateCallCount int32

	CreateError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.UserID == userID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsVerified = verified
	return nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	UpdateRoleCallCount int32
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	atomic.AddInt32(&m.UpdateRoleCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Role = role
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of the ride claim lock.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[rideID] {
		return false, nil
	}
	m.locks[rideID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, rideID)
	return nil
}
