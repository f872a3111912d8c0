package interfaces

import (
	"context"

	"rideadmin/internal/models"
)

type AccountRepository interface {
	// Subscribe streams accounts of one role; an empty role streams all of them.
	Subscribe(ctx context.Context, role models.Role) (Subscription[*models.Account], error)
	// GetByID returns the record with role and status as stored, unvalidated,
	// so callers can still act on accounts outside the known enums.
	GetByID(ctx context.Context, id string) (*models.Account, error)
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error
}
