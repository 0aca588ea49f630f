package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// AccountCategoryService manages account categories.
type AccountCategoryService interface {
	CreateAccountCategory(ctx context.Context, actor string, input usecase.CreateAccountCategoryInput) (*domain.AccountCategory, error)
	GetAccountCategory(ctx context.Context, id string) (*domain.AccountCategory, error)
	ListAccountCategories(ctx context.Context, limit, offset int) ([]*domain.AccountCategory, error)
	DeleteAccountCategory(ctx context.Context, id string) error
}

// VendorService manages vendors.
type VendorService interface {
	AddVendor(ctx context.Context, actor string, input usecase.VendorInput) (*domain.Vendor, error)
	ListVendors(ctx context.Context, limit, offset int) ([]*domain.Vendor, error)
	UpdateVendor(ctx context.Context, id string, input usecase.VendorInput) (*domain.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
}

// CatalogueHandler handles account category and vendor requests.
type CatalogueHandler struct {
	categories AccountCategoryService
	vendors    VendorService
}

// NewCatalogueHandler creates a new CatalogueHandler.
func NewCatalogueHandler(categories AccountCategoryService, vendors VendorService) *CatalogueHandler {
	return &CatalogueHandler{categories: categories, vendors: vendors}
}

// CreateCategory creates an account category.
func (h *CatalogueHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categories.CreateAccountCategory(r.Context(), actorID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create account category", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountCategoryFromDomain(category))
}

// GetCategory retrieves an account category.
func (h *CatalogueHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetAccountCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get account category", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountCategoryFromDomain(category))
}

// ListCategories lists account categories by name.
func (h *CatalogueHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListAccountCategories(r.Context(),
		parseIntQuery(r, "limit", domain.DefaultPageSize), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list account categories", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountCategoriesFromDomain(categories))
}

// DeleteCategory removes an account category.
func (h *CatalogueHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.DeleteAccountCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete account category", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateVendor adds a vendor.
func (h *CatalogueHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vendor, err := h.vendors.AddVendor(r.Context(), actorID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add vendor", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VendorFromDomain(vendor))
}

// ListVendors lists vendors by name.
func (h *CatalogueHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.ListVendors(r.Context(),
		parseIntQuery(r, "limit", domain.DefaultPageSize), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list vendors", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VendorsFromDomain(vendors))
}

// UpdateVendor changes a vendor's name and description.
func (h *CatalogueHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	var req dto.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vendor, err := h.vendors.UpdateVendor(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update vendor", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VendorFromDomain(vendor))
}

// DeleteVendor removes a vendor.
func (h *CatalogueHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.vendors.DeleteVendor(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete vendor", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
