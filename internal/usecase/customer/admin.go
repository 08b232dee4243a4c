package customer

import (
	"context"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/customer"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// Management is the admin side of customer accounts.
type Management struct {
	repo  customer.Repository
	audit *audit.Dispatcher
}

func NewManagement(repo customer.Repository, dispatcher *audit.Dispatcher) *Management {
	return &Management{repo: repo, audit: dispatcher}
}

func (uc *Management) List(ctx context.Context, search string) ([]customer.Summary, error) {
	return uc.repo.List(ctx, search)
}

// Block stops the customer from creating, editing or cancelling bookings.
func (uc *Management) Block(ctx context.Context, actorID, customerID uint) (*models.Customer, error) {
	return uc.setBlocked(ctx, actorID, customerID, true)
}

func (uc *Management) Unblock(ctx context.Context, actorID, customerID uint) (*models.Customer, error) {
	return uc.setBlocked(ctx, actorID, customerID, false)
}

func (uc *Management) setBlocked(ctx context.Context, actorID, customerID uint, blocked bool) (*models.Customer, error) {
	if err := uc.repo.SetBlocked(ctx, customerID, blocked); err != nil {
		return nil, err
	}

	action := audit.ActionCustomerUnblocked
	if blocked {
		action = audit.ActionCustomerBlocked
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   action,
		Entity:   "customer",
		EntityID: &customerID,
	})

	return uc.repo.GetByID(ctx, customerID)
}
