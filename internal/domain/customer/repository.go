package customer

import "context"

// Repository reads customers. Rental counts and spend are computed per call.
type Repository interface {
	// List returns customers ordered by last name then first name.
	List(ctx context.Context, filter ListFilter) ([]Customer, int64, error)

	// FindByID returns ErrCustomerNotFound when the customer does not exist.
	FindByID(ctx context.Context, id int64) (*Detail, error)

	// Search matches first name, last name or email case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]Match, error)
}
