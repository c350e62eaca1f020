package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	FareRuleCacheTTL = 60 * time.Second // active rule changes rarely but must converge fast after activation
	RideCacheTTL     = 10 * time.Second // ride status changes during claim and transitions
)

// Key prefixes
const (
	activeFareRuleKey = "cache:fare_rule:active"
	rideCachePrefix   = "cache:ride:"
)

// CachedFareRule represents the cached active fare rule.
type CachedFareRule struct {
	ID              string  `json:"id"`
	BaseFare        float64 `json:"base_fare"`
	MinFareDistance float64 `json:"min_fare_distance"`
	MinFareAmount   float64 `json:"min_fare_amount"`
	PerKmRate       float64 `json:"per_km_rate"`
}

// CachedRide represents a cached ride entity.
type CachedRide struct {
	ID            string  `json:"id"`
	RiderID       string  `json:"rider_id"`
	DriverID      string  `json:"driver_id"`
	Status        string  `json:"status"`
	Fare          float64 `json:"fare"`
	PaymentStatus string  `json:"payment_status"`
}

// GetActiveFareRule retrieves the cached active fare rule.
func (s *CacheStore) GetActiveFareRule(ctx context.Context) (*CachedFareRule, error) {
	data, err := s.client.Get(ctx, activeFareRuleKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var rule CachedFareRule
	if err := json.Unmarshal(data, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// SetActiveFareRule stores the active fare rule in cache.
func (s *CacheStore) SetActiveFareRule(ctx context.Context, rule *CachedFareRule) error {
	data, err := json.Marshal(rule)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, activeFareRuleKey, data, FareRuleCacheTTL).Err()
}

// InvalidateActiveFareRule removes the active fare rule from cache.
// Called after any rule update or activation.
func (s *CacheStore) InvalidateActiveFareRule(ctx context.Context) error {
	return s.client.Del(ctx, activeFareRuleKey).Err()
}

// GetRide retrieves a ride from cache.
func (s *CacheStore) GetRide(ctx context.Context, rideID string) (*CachedRide, error) {
	key := rideCachePrefix + rideID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var ride CachedRide
	if err := json.Unmarshal(data, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// SetRide stores a ride in cache.
func (s *CacheStore) SetRide(ctx context.Context, ride *CachedRide) error {
	key := rideCachePrefix + ride.ID
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, RideCacheTTL).Err()
}

// InvalidateRide removes a ride from cache.
func (s *CacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	key := rideCachePrefix + rideID
	return s.client.Del(ctx, key).Err()
}
