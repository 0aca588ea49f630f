package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iho/totza/internal/domain"
)

// AccountCategoryUseCase handles account category operations.
type AccountCategoryUseCase struct {
	repo  AccountCategoryRepository
	idGen IDGenerator
}

// NewAccountCategoryUseCase creates a new AccountCategoryUseCase.
func NewAccountCategoryUseCase(repo AccountCategoryRepository, idGen IDGenerator) *AccountCategoryUseCase {
	return &AccountCategoryUseCase{repo: repo, idGen: idGen}
}

// CreateAccountCategoryInput represents input for creating an account category.
type CreateAccountCategoryInput struct {
	Name         string
	LinkedUserID string
}

// CreateAccountCategory creates a new account category.
func (uc *AccountCategoryUseCase) CreateAccountCategory(ctx context.Context, actor string, input CreateAccountCategoryInput) (*domain.AccountCategory, error) {
	category := &domain.AccountCategory{
		ID:           uc.idGen.Generate(),
		Name:         strings.TrimSpace(input.Name),
		LinkedUserID: input.LinkedUserID,
		AddedBy:      actor,
		CreatedAt:    time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetAccountCategory retrieves an account category by ID.
func (uc *AccountCategoryUseCase) GetAccountCategory(ctx context.Context, id string) (*domain.AccountCategory, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListAccountCategories lists account categories by name.
func (uc *AccountCategoryUseCase) ListAccountCategories(ctx context.Context, limit, offset int) ([]*domain.AccountCategory, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.repo.List(ctx, limit, offset)
}

// DeleteAccountCategory deletes an account category. Transactions keep the id.
func (uc *AccountCategoryUseCase) DeleteAccountCategory(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// VendorUseCase handles vendor operations.
type VendorUseCase struct {
	repo  VendorRepository
	idGen IDGenerator
}

// NewVendorUseCase creates a new VendorUseCase.
func NewVendorUseCase(repo VendorRepository, idGen IDGenerator) *VendorUseCase {
	return &VendorUseCase{repo: repo, idGen: idGen}
}

// VendorInput represents input for adding or updating a vendor.
type VendorInput struct {
	Name        string
	Description string
}

// AddVendor creates a vendor with the actor as its first collaborator.
func (uc *VendorUseCase) AddVendor(ctx context.Context, actor string, input VendorInput) (*domain.Vendor, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: acting user is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	vendor := &domain.Vendor{
		ID:            uc.idGen.Generate(),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		AddedBy:       actor,
		Collaborators: []string{actor},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := vendor.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}

	return vendor, nil
}

// ListVendors lists vendors by name.
func (uc *VendorUseCase) ListVendors(ctx context.Context, limit, offset int) ([]*domain.Vendor, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.repo.List(ctx, limit, offset)
}

// UpdateVendor changes a vendor's name and description.
func (uc *VendorUseCase) UpdateVendor(ctx context.Context, id string, input VendorInput) (*domain.Vendor, error) {
	vendor, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vendor.Name = strings.TrimSpace(input.Name)
	vendor.Description = input.Description
	vendor.UpdatedAt = time.Now().UTC()

	if err := vendor.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}

	return vendor, nil
}

// DeleteVendor deletes a vendor.
func (uc *VendorUseCase) DeleteVendor(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
