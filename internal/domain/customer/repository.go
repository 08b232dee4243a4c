package customer

import (
	"context"

	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// Summary is a customer row for the admin customer list.
type Summary struct {
	models.Customer
	CompletedAppointments int `json:"completed_appointments"`
	TotalAppointments     int `json:"total_appointments"`
}

type Repository interface {
	// -------- Accounts --------

	// Register stores a new user and, unless customer is nil, its profile.
	Register(
		ctx context.Context,
		user *models.User,
		customer *models.Customer,
	) error

	FindUserByLogin(
		ctx context.Context,
		login string,
	) (*models.User, error)

	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Profile --------

	// GetByUserID creates an empty profile on first use.
	GetByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Customer, error)

	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Customer, error)

	SaveProfile(
		ctx context.Context,
		customer *models.Customer,
	) error

	CountCompleted(
		ctx context.Context,
		customerID uint,
	) (int, error)

	// -------- Admin --------
	List(
		ctx context.Context,
		search string,
	) ([]Summary, error)

	SetBlocked(
		ctx context.Context,
		customerID uint,
		blocked bool,
	) error

	// -------- History --------
	ListHistory(
		ctx context.Context,
		customerID uint,
	) ([]models.ServiceHistory, error)

	ListLoyalty(
		ctx context.Context,
		customerID uint,
	) ([]models.LoyaltyTransaction, error)
}
