package catalog

import (
	"context"

	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type ServiceFilter struct {
	CategoryID      uint
	FeaturedOnly    bool
	IncludeInactive bool
}

type Repository interface {
	// -------- Services --------
	ListServices(
		ctx context.Context,
		f ServiceFilter,
	) ([]models.Service, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	SaveService(
		ctx context.Context,
		s *models.Service,
	) error

	// DeleteService removes the service and every appointment booked for it.
	DeleteService(
		ctx context.Context,
		id uint,
	) error

	// -------- Categories --------
	ListCategories(
		ctx context.Context,
	) ([]models.Category, error)

	GetCategory(
		ctx context.Context,
		id uint,
	) (*models.Category, error)

	SaveCategory(
		ctx context.Context,
		c *models.Category,
	) error

	// DeleteCategory removes the category, its services and their appointments.
	DeleteCategory(
		ctx context.Context,
		id uint,
	) error

	// -------- Boxes --------
	ListBoxes(
		ctx context.Context,
		includeInactive bool,
	) ([]models.Box, error)

	GetBox(
		ctx context.Context,
		id uint,
	) (*models.Box, error)

	SaveBox(
		ctx context.Context,
		b *models.Box,
	) error

	// DeleteBox removes the box and every appointment assigned to it.
	DeleteBox(
		ctx context.Context,
		id uint,
	) error

	// -------- Site content --------
	GetSTOInfo(
		ctx context.Context,
	) (*models.STOInfo, error)

	SaveSTOInfo(
		ctx context.Context,
		info *models.STOInfo,
	) error
}
