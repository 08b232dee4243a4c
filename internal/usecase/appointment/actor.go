package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID uint
	Admin  bool
}

// authorizeOwner lets admins through and otherwise requires the
// appointment to belong to the actor's unblocked customer profile.
func authorizeOwner(
	ctx context.Context,
	repo domain.Repository,
	actor Actor,
	ap *models.Appointment,
) error {
	if actor.Admin {
		return nil
	}

	customer, err := repo.CustomerForUser(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if customer.IsBlocked {
		return httperr.BlockedCustomer()
	}
	if ap.CustomerID == nil || *ap.CustomerID != customer.ID {
		return httperr.Forbidden("not_owner", "You do not have access to this appointment.")
	}
	return nil
}
