package tests

import (
	"context"
	"testing"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

func standardFareRule() *domain.FareRule {
	return &domain.FareRule{
		ID:              "rule-1",
		BaseFare:        150,
		MinFareDistance: 2,
		MinFareAmount:   200,
		PerKmRate:       50,
		IsActive:        true,
	}
}

func TestComputeFare_MeteredDistance(t *testing.T) {
	// 150 base + (5-2) km * 50 = 300.
	fare, err := service.ComputeFare(5, standardFareRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fare != 300 {
		t.Errorf("expected fare 300, got %f", fare)
	}
}

func TestComputeFare_BelowMinimumDistance(t *testing.T) {
	// 1 km is under the 2 km threshold, so the flat minimum applies.
	fare, err := service.ComputeFare(1, standardFareRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fare != 200 {
		t.Errorf("expected minimum fare 200, got %f", fare)
	}
}

func TestComputeFare_ExactlyMinimumDistance(t *testing.T) {
	// At exactly the threshold the metered formula applies with zero extra.
	fare, err := service.ComputeFare(2, standardFareRule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fare != 150 {
		t.Errorf("expected base fare 150, got %f", fare)
	}
}

func TestComputeFare_RejectsNonPositiveDistance(t *testing.T) {
	testCases := []struct {
		name     string
		distance float64
	}{
		{"zero", 0},
		{"negative", -3.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.ComputeFare(tc.distance, standardFareRule())
			if err != service.ErrInvalidDistance {
				t.Errorf("expected ErrInvalidDistance for distance=%f, got %v", tc.distance, err)
			}
		})
	}
}

func TestComputeFare_RejectsNilRule(t *testing.T) {
	_, err := service.ComputeFare(5, nil)
	if err != service.ErrMissingFareRule {
		t.Errorf("expected ErrMissingFareRule, got %v", err)
	}
}

func TestValidateFareRule_RejectsNonPositiveFields(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*domain.FareRule)
	}{
		{"zero base fare", func(r *domain.FareRule) { r.BaseFare = 0 }},
		{"negative per km rate", func(r *domain.FareRule) { r.PerKmRate = -1 }},
		{"zero min fare distance", func(r *domain.FareRule) { r.MinFareDistance = 0 }},
		{"zero min fare amount", func(r *domain.FareRule) { r.MinFareAmount = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule := standardFareRule()
			tc.mutate(rule)
			if err := service.ValidateFareRule(rule); err != service.ErrInvalidFareRule {
				t.Errorf("expected ErrInvalidFareRule, got %v", err)
			}
		})
	}
}

func TestFareQuote_UsesActiveRule(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareRepo.AddRule(standardFareRule())
	fareService := service.NewFareRuleService(fareRepo, nil)

	fare, err := fareService.Quote(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fare != 300 {
		t.Errorf("expected quote 300, got %f", fare)
	}
}

func TestFareQuote_FailsWithoutActiveRule(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareService := service.NewFareRuleService(fareRepo, nil)

	_, err := fareService.Quote(context.Background(), 5)
	if err != service.ErrNoActiveFareRule {
		t.Errorf("expected ErrNoActiveFareRule, got %v", err)
	}
}
