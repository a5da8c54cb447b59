package customer

import (
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

var ErrCustomerNotFound = apperrors.NewNotFound(apperrors.ErrCodeCustomerNotFound, "customer not found")
