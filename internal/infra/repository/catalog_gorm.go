package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(code, message)
	}
	return err
}

func save(tx *gorm.DB, value any, id uint) error {
	if id == 0 {
		return tx.Omit(clause.Associations).Create(value).Error
	}
	return tx.Omit(clause.Associations).Save(value).Error
}

// --------------------------------------------------
// Cascade helpers
// --------------------------------------------------

// deleteAppointments removes appointments matching the condition together
// with their service history rows.
func deleteAppointments(tx *gorm.DB, query string, args ...any) error {
	ids := tx.Model(&models.Appointment{}).Select("id").Where(query, args...)

	if err := tx.Where("appointment_id IN (?)", ids).
		Delete(&models.ServiceHistory{}).Error; err != nil {
		return err
	}
	return tx.Where(query, args...).Delete(&models.Appointment{}).Error
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *CatalogGormRepository) ListServices(
	ctx context.Context,
	f catalog.ServiceFilter,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Preload("Category")

	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *CatalogGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).Preload("Category").First(&s, id).Error; err != nil {
		return nil, notFound(err, "service_not_found", "Service not found.")
	}
	return &s, nil
}

func (r *CatalogGormRepository) SaveService(
	ctx context.Context,
	s *models.Service,
) error {
	return save(r.db.WithContext(ctx), s, s.ID)
}

func (r *CatalogGormRepository) DeleteService(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Service{}, id).Error; err != nil {
			return notFound(err, "service_not_found", "Service not found.")
		}
		if err := deleteAppointments(tx, "service_id = ?", id); err != nil {
			return err
		}
		return tx.Delete(&models.Service{}, id).Error
	})
}

// --------------------------------------------------
// Categories
// --------------------------------------------------

func (r *CatalogGormRepository) ListCategories(
	ctx context.Context,
) ([]models.Category, error) {

	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Order("display_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CatalogGormRepository) GetCategory(
	ctx context.Context,
	id uint,
) (*models.Category, error) {

	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "category_not_found", "Category not found.")
	}
	return &c, nil
}

func (r *CatalogGormRepository) SaveCategory(
	ctx context.Context,
	c *models.Category,
) error {
	return save(r.db.WithContext(ctx), c, c.ID)
}

func (r *CatalogGormRepository) DeleteCategory(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Category{}, id).Error; err != nil {
			return notFound(err, "category_not_found", "Category not found.")
		}

		serviceIDs := tx.Model(&models.Service{}).Select("id").Where("category_id = ?", id)
		if err := deleteAppointments(tx, "service_id IN (?)", serviceIDs); err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Service{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

// --------------------------------------------------
// Boxes
// --------------------------------------------------

func (r *CatalogGormRepository) ListBoxes(
	ctx context.Context,
	includeInactive bool,
) ([]models.Box, error) {

	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var boxes []models.Box
	if err := q.Order("id ASC").Find(&boxes).Error; err != nil {
		return nil, err
	}
	return boxes, nil
}

func (r *CatalogGormRepository) GetBox(
	ctx context.Context,
	id uint,
) (*models.Box, error) {

	var b models.Box
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, "box_not_found", "Box not found.")
	}
	return &b, nil
}

func (r *CatalogGormRepository) SaveBox(
	ctx context.Context,
	b *models.Box,
) error {
	return save(r.db.WithContext(ctx), b, b.ID)
}

func (r *CatalogGormRepository) DeleteBox(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Box{}, id).Error; err != nil {
			return notFound(err, "box_not_found", "Box not found.")
		}
		if err := deleteAppointments(tx, "box_id = ?", id); err != nil {
			return err
		}
		return tx.Delete(&models.Box{}, id).Error
	})
}

// --------------------------------------------------
// Site content
// --------------------------------------------------

func (r *CatalogGormRepository) GetSTOInfo(
	ctx context.Context,
) (*models.STOInfo, error) {

	var info models.STOInfo
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id DESC").
		First(&info).Error; err != nil {
		return nil, notFound(err, "sto_info_not_found", "Service center information is not configured.")
	}
	return &info, nil
}

func (r *CatalogGormRepository) SaveSTOInfo(
	ctx context.Context,
	info *models.STOInfo,
) error {
	return save(r.db.WithContext(ctx), info, info.ID)
}

// Compile-time check
var _ catalog.Repository = (*CatalogGormRepository)(nil)
