package tests

import (
	"context"
	"testing"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
	"rideshare/internal/service"
)

func TestDriverRegister_CreatesUnverifiedProfile(t *testing.T) {
	driverRepo := NewMockDriverRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Asha", Email: "asha@example.com", Role: domain.RoleRider})
	driverService := service.NewDriverService(nil, driverRepo, userRepo)

	driver, err := driverService.Register(context.Background(), service.RegisterDriverRequest{
		UserID:                    "user-1",
		LicenseNumber:             "KA-01-2024-0042",
		VehicleModel:              "Swift",
		VehicleColor:              "White",
		VehicleRegistrationNumber: "KA01AB1234",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.IsVerified {
		t.Error("expected a new profile to start unverified")
	}
	if driver.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", driver.UserID)
	}
	if driverRepo.CreateCallCount != 1 {
		t.Errorf("expected one create call, got %d", driverRepo.CreateCallCount)
	}
}

func TestDriverRegister_RequiresExistingUser(t *testing.T) {
	driverService := service.NewDriverService(nil, NewMockDriverRepository(), NewMockUserRepository())

	_, err := driverService.Register(context.Background(), service.RegisterDriverRequest{
		UserID:        "nonexistent",
		LicenseNumber: "KA-01-2024-0042",
	})
	if err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDriverRegister_RejectsSecondProfile(t *testing.T) {
	driverRepo := NewMockDriverRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleRider})
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", UserID: "user-1"})
	driverService := service.NewDriverService(nil, driverRepo, userRepo)

	_, err := driverService.Register(context.Background(), service.RegisterDriverRequest{
		UserID:        "user-1",
		LicenseNumber: "KA-01-2024-0042",
	})
	if err != service.ErrDriverAlreadyRegistered {
		t.Errorf("expected ErrDriverAlreadyRegistered, got %v", err)
	}
}

func TestDriverVerify_ApprovalPromotesUserRole(t *testing.T) {
	driverRepo := NewMockDriverRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleRider})
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", UserID: "user-1"})
	driverService := service.NewDriverService(nil, driverRepo, userRepo)

	driver, err := driverService.Verify(context.Background(), "driver-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !driver.IsVerified {
		t.Error("expected driver to be verified")
	}
	if userRepo.GetUser("user-1").Role != domain.RoleDriver {
		t.Errorf("expected user promoted to driver role, got %s", userRepo.GetUser("user-1").Role)
	}
}

func TestDriverVerify_RejectionKeepsUserRole(t *testing.T) {
	driverRepo := NewMockDriverRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleRider})
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", UserID: "user-1", IsVerified: true})
	driverService := service.NewDriverService(nil, driverRepo, userRepo)

	driver, err := driverService.Verify(context.Background(), "driver-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.IsVerified {
		t.Error("expected driver to be unverified")
	}
	if userRepo.GetUser("user-1").Role != domain.RoleRider {
		t.Errorf("expected user role unchanged, got %s", userRepo.GetUser("user-1").Role)
	}
	if userRepo.UpdateRoleCallCount != 0 {
		t.Errorf("expected no role update on rejection, got %d", userRepo.UpdateRoleCallCount)
	}
}

func TestDriverVerify_UnknownDriver(t *testing.T) {
	driverService := service.NewDriverService(nil, NewMockDriverRepository(), NewMockUserRepository())

	_, err := driverService.Verify(context.Background(), "nonexistent", true)
	if err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
