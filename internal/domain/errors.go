package domain

import "errors"

var (
	// Ledger errors
	ErrValidation          = errors.New("validation failed")
	ErrInvalidLink         = errors.New("invalid due link")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrConcurrentUpdate    = errors.New("transaction was modified concurrently")

	// Personal transaction errors
	ErrPersonalTransactionNotFound = errors.New("personal transaction not found")
	ErrMirrorReadOnly              = errors.New("mirrored personal transaction cannot be changed directly")

	// Catalogue errors
	ErrAccountCategoryNotFound = errors.New("account category not found")
	ErrVendorNotFound          = errors.New("vendor not found")

	// Project errors
	ErrProjectNotFound        = errors.New("project not found")
	ErrProjectAccessDenied    = errors.New("project access denied")
	ErrAlreadyCollaborator    = errors.New("user is already a collaborator")
	ErrProjectExpenseNotFound = errors.New("project expense not found")

	// Expense errors
	ErrExpenseNotFound = errors.New("expense not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
