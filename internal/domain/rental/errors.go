package rental

import (
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

var (
	ErrRentalNotFound = apperrors.NewNotFound(apperrors.ErrCodeRentalNotFound, "rental not found")

	ErrUnitAlreadyRented = apperrors.NewConflict(apperrors.ErrCodeAlreadyRented, "this unit is already rented and has not been returned")

	ErrAlreadyReturned = apperrors.NewConflict(apperrors.ErrCodeAlreadyReturned, "this rental has already been returned")

	ErrMissingFields = apperrors.NewValidation(apperrors.ErrCodeInvalidParams, "missing required fields: customer_id, inventory_id, staff_id")

	ErrInvalidStatus = apperrors.NewValidation(apperrors.ErrCodeInvalidParams, `status must be "active" or "returned"`)

	// ErrInventoryNotFound is a referential failure: the unit named by the request does not exist.
	ErrInventoryNotFound = apperrors.Constraint(nil, "inventory unit does not exist")
)
