package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
	"rideshare/internal/service"
)

func TestFareRuleCreate_RejectsInvalidPricing(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareService := service.NewFareRuleService(fareRepo, nil)

	_, err := fareService.Create(context.Background(), service.CreateFareRuleRequest{
		BaseFare:        0, // Invalid.
		MinFareDistance: 2,
		MinFareAmount:   200,
		PerKmRate:       50,
	})

	if err != service.ErrInvalidFareRule {
		t.Errorf("expected ErrInvalidFareRule, got %v", err)
	}
}

func TestFareRuleCreate_ActiveRuleDeactivatesOthers(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareRepo.AddRule(standardFareRule())
	fareService := service.NewFareRuleService(fareRepo, nil)

	created, err := fareService.Create(context.Background(), service.CreateFareRuleRequest{
		BaseFare:        100,
		MinFareDistance: 1,
		MinFareAmount:   120,
		PerKmRate:       40,
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fareRepo.ActiveCount() != 1 {
		t.Errorf("expected exactly one active rule, got %d", fareRepo.ActiveCount())
	}

	active, err := fareService.GetActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active.ID != created.ID {
		t.Errorf("expected new rule %s to be active, got %s", created.ID, active.ID)
	}
}

func TestFareRuleActivate_IsExclusive(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareService := service.NewFareRuleService(fareRepo, nil)

	for i := 0; i < 3; i++ {
		fareRepo.AddRule(&domain.FareRule{
			ID:              fmt.Sprintf("rule-%d", i),
			BaseFare:        150,
			MinFareDistance: 2,
			MinFareAmount:   200,
			PerKmRate:       50,
			IsActive:        i == 0,
		})
	}

	activated, err := fareService.Activate(context.Background(), "rule-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !activated.IsActive {
		t.Error("expected activated rule to be active")
	}
	if fareRepo.ActiveCount() != 1 {
		t.Errorf("expected exactly one active rule, got %d", fareRepo.ActiveCount())
	}
}

func TestFareRuleActivate_ConcurrentActivationsLeaveOneActive(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareService := service.NewFareRuleService(fareRepo, nil)

	const numRules = 10
	for i := 0; i < numRules; i++ {
		fareRepo.AddRule(&domain.FareRule{
			ID:              fmt.Sprintf("rule-%d", i),
			BaseFare:        150,
			MinFareDistance: 2,
			MinFareAmount:   200,
			PerKmRate:       50,
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < numRules; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := fareService.Activate(context.Background(), id)
			if err != nil {
				t.Errorf("unexpected error activating %s: %v", id, err)
			}
		}(fmt.Sprintf("rule-%d", i))
	}
	wg.Wait()

	if fareRepo.ActiveCount() != 1 {
		t.Errorf("expected exactly one active rule after concurrent activations, got %d", fareRepo.ActiveCount())
	}
}

func TestFareRuleUpdate_ChangesPricingFields(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareRepo.AddRule(standardFareRule())
	fareService := service.NewFareRuleService(fareRepo, nil)

	newRate := 75.0
	updated, err := fareService.Update(context.Background(), "rule-1", service.UpdateFareRuleRequest{
		PerKmRate: &newRate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.PerKmRate != 75 {
		t.Errorf("expected per km rate 75, got %f", updated.PerKmRate)
	}
	// Untouched fields keep their values.
	if updated.BaseFare != 150 {
		t.Errorf("expected base fare 150, got %f", updated.BaseFare)
	}
}

func TestFareRuleGetByID_ReturnsRule(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareRepo.AddRule(standardFareRule())
	fareService := service.NewFareRuleService(fareRepo, nil)

	rule, err := fareService.GetByID(context.Background(), "rule-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.ID != "rule-1" {
		t.Errorf("expected rule-1, got %s", rule.ID)
	}
}

func TestFareRuleGetByID_UnknownRule(t *testing.T) {
	fareService := service.NewFareRuleService(NewMockFareRuleRepository(), nil)

	_, err := fareService.GetByID(context.Background(), "missing")
	if err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFareRuleDelete_RemovesRule(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareRepo.AddRule(standardFareRule())
	fareService := service.NewFareRuleService(fareRepo, nil)

	if err := fareService.Delete(context.Background(), "rule-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := fareService.GetByID(context.Background(), "rule-1"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFareRuleDelete_UnknownRule(t *testing.T) {
	fareService := service.NewFareRuleService(NewMockFareRuleRepository(), nil)

	if err := fareService.Delete(context.Background(), "missing"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFareRuleUpdate_RejectsInvalidPricing(t *testing.T) {
	fareRepo := NewMockFareRuleRepository()
	fareRepo.AddRule(standardFareRule())
	fareService := service.NewFareRuleService(fareRepo, nil)

	badRate := -5.0
	_, err := fareService.Update(context.Background(), "rule-1", service.UpdateFareRuleRequest{
		PerKmRate: &badRate,
	})

	if err != service.ErrInvalidFareRule {
		t.Errorf("expected ErrInvalidFareRule, got %v", err)
	}
}
