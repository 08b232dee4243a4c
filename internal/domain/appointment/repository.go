package appointment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// Filter narrows the admin listing. Zero values impose no constraint.
type Filter struct {
	DateFrom     string
	DateTo       string
	BoxID        uint
	ServiceID    uint
	Status       string
	CustomerName string
	TimeFrom     string
	TimeTo       string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
}

// Stats is the admin dashboard summary.
type Stats struct {
	Total            int64            `json:"total_appointments"`
	ByStatus         map[string]int64 `json:"by_status"`
	Today            int64            `json:"today_appointments"`
	Upcoming         int64            `json:"upcoming_appointments"`
	LastMonth        int64            `json:"monthly_appointments"`
	Customers        int64            `json:"total_customers"`
	BlockedCustomers int64            `json:"blocked_customers"`
	ActiveBoxes      int64            `json:"active_boxes"`
	ServicesCount    int64            `json:"total_services"`
	Revenue          decimal.Decimal  `json:"total_revenue"`
	RevenueToday     decimal.Decimal  `json:"revenue_today"`
}

type Repository interface {
	// -------- Catalog --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	ListActiveBoxes(
		ctx context.Context,
	) ([]models.Box, error)

	// -------- Customer --------

	// CustomerForUser returns the profile of a user, creating it on first use.
	CustomerForUser(
		ctx context.Context,
		userID uint,
	) (*models.Customer, error)

	CountCompleted(
		ctx context.Context,
		customerID uint,
	) (int, error)

	// -------- Availability --------
	ListActiveBetween(
		ctx context.Context,
		dateFrom string,
		dateTo string,
		excludeID uint,
	) ([]models.Appointment, error)

	// -------- Appointment (create / reschedule) --------

	// Create inserts ap after re-checking, under a lock on its box, that
	// no active appointment overlaps it. Overlap yields a Conflict error.
	Create(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// Reschedule saves a changed date, time, box or service with the same
	// guarantee as Create, ignoring ap itself. Only a pending appointment
	// is written; anything else yields an InvalidTransition error.
	Reschedule(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	// UpdateStatus writes ap's status and timestamps only if the stored
	// status is still from.
	UpdateStatus(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	CompleteWithHistory(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
		history *models.ServiceHistory,
		loyaltyPoints int,
	) error

	// -------- Listings --------
	FindByFilters(
		ctx context.Context,
		f Filter,
	) ([]models.Appointment, error)

	ListByCustomer(
		ctx context.Context,
		customerID uint,
	) ([]models.Appointment, error)

	ListBetween(
		ctx context.Context,
		dateFrom string,
		dateTo string,
	) ([]models.Appointment, error)

	Stats(
		ctx context.Context,
		today string,
	) (*Stats, error)
}
