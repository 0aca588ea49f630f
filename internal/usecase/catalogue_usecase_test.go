package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/totza/internal/adapter/repository/memory"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
	"github.com/iho/totza/internal/usecase/mocks"
)

func TestAccountCategoryUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewAccountCategoryUseCase(store.AccountCategories, &mocks.SequentialIDGenerator{Prefix: "acc"})
	ctx := context.Background()

	if _, err := uc.CreateAccountCategory(ctx, "admin", usecase.CreateAccountCategoryInput{Name: "  "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	category, err := uc.CreateAccountCategory(ctx, "admin", usecase.CreateAccountCategoryInput{Name: "Petty cash", LinkedUserID: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !category.HasLinkedUser() || category.AddedBy != "admin" {
		t.Fatalf("unexpected category: %+v", category)
	}

	if err := uc.DeleteAccountCategory(ctx, category.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.GetAccountCategory(ctx, category.ID); !errors.Is(err, domain.ErrAccountCategoryNotFound) {
		t.Fatalf("expected ErrAccountCategoryNotFound, got %v", err)
	}
}

func TestVendorUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewVendorUseCase(store.Vendors, &mocks.SequentialIDGenerator{Prefix: "ven"})
	ctx := context.Background()

	vendor, err := uc.AddVendor(ctx, "alice", usecase.VendorInput{Name: "Acme", Description: "bolts"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !vendor.HasCollaborator("alice") {
		t.Fatalf("expected creator to be the first collaborator, got %v", vendor.Collaborators)
	}

	updated, err := uc.UpdateVendor(ctx, vendor.ID, usecase.VendorInput{Name: "Acme Ltd"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Ltd" || updated.AddedBy != "alice" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if _, err := uc.UpdateVendor(ctx, "missing", usecase.VendorInput{Name: "x"}); !errors.Is(err, domain.ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestUserUseCase_RegisterUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	uc := usecase.NewUserUseCase(repo, &mocks.SequentialIDGenerator{Prefix: "usr"})
	ctx := context.Background()

	repo.EXPECT().GetByEmail(gomock.Any(), "ops@totza.io").Return(nil, domain.ErrUserNotFound)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	user, err := uc.RegisterUser(ctx, usecase.RegisterUserInput{Email: " Ops@Totza.io ", Role: domain.RoleOperator, GoogleID: "g-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ops@totza.io" || !user.Active {
		t.Fatalf("unexpected user: %+v", user)
	}

	repo.EXPECT().GetByEmail(gomock.Any(), "ops@totza.io").Return(user, nil)
	if _, err := uc.RegisterUser(ctx, usecase.RegisterUserInput{Email: "ops@totza.io", Role: domain.RoleViewer}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected duplicate email to fail validation, got %v", err)
	}

	if _, err := uc.RegisterUser(ctx, usecase.RegisterUserInput{Email: "ops@totza.io", Role: "root"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected bad role to fail validation, got %v", err)
	}
}
