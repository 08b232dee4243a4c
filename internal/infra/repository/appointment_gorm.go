package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func errSlotTaken() error {
	return httperr.Conflict("time_conflict", "The selected time is already booked.")
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundErr("service_not_found", "Service not found.")
		}
		return nil, err
	}
	return &service, nil
}

func (r *AppointmentGormRepository) ListActiveBoxes(
	ctx context.Context,
) ([]models.Box, error) {

	var boxes []models.Box
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&boxes).Error; err != nil {
		return nil, err
	}
	return boxes, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) CustomerForUser(
	ctx context.Context,
	userID uint,
) (*models.Customer, error) {
	return customerForUser(r.db.WithContext(ctx), userID)
}

func (r *AppointmentGormRepository) CountCompleted(
	ctx context.Context,
	customerID uint,
) (int, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("customer_id = ? AND status = ?", customerID, string(domain.StatusCompleted)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveBetween(
	ctx context.Context,
	dateFrom string,
	dateTo string,
	excludeID uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Select("id", "box_id", "appointment_date", "start_time", "end_time", "status").
		Where("box_id IS NOT NULL").
		Where("appointment_date >= ? AND appointment_date <= ?", dateFrom, dateTo).
		Where("status IN ?", domain.ActiveStatuses())

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("appointment_date ASC, start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (create / reschedule)
// --------------------------------------------------

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.inLockedBox(ctx, ap, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(ap).Error
	})
}

func (r *AppointmentGormRepository) Reschedule(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.inLockedBox(ctx, ap, func(tx *gorm.DB) error {
		res := tx.Model(ap).
			Where("status = ?", string(domain.StatusPending)).
			Select(
				"service_id", "box_id", "appointment_date", "start_time", "end_time",
				"duration_minutes", "total_price", "notes",
				"guest_name", "guest_phone", "guest_email", "updated_at",
			).
			Updates(ap)
		return guardChanged(res)
	})
}

// guardChanged reports a status-guarded write that matched no row: the
// appointment left the expected status after it was loaded.
func guardChanged(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.InvalidTransition(
			"appointment_changed",
			"The appointment was changed by someone else. Reload and try again.",
		)
	}
	return nil
}

// inLockedBox runs write inside a transaction holding a row lock on the
// appointment's box, after checking the slot is still free.
func (r *AppointmentGormRepository) inLockedBox(
	ctx context.Context,
	ap *models.Appointment,
	write func(tx *gorm.DB) error,
) error {
	if ap.BoxID == nil {
		return httperr.NoBoxAvailable()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var box models.Box
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", *ap.BoxID, true).
			First(&box).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errSlotTaken()
			}
			return err
		}

		q := tx.Model(&models.Appointment{}).
			Where("box_id = ? AND appointment_date = ?", *ap.BoxID, ap.AppointmentDate).
			Where("status IN ?", domain.ActiveStatuses()).
			Where("start_time < ? AND end_time > ?", ap.EndTime, ap.StartTime)
		if ap.ID != 0 {
			q = q.Where("id <> ?", ap.ID)
		}

		var conflicts int64
		if err := q.Count(&conflicts).Error; err != nil {
			return err
		}
		if conflicts > 0 {
			return errSlotTaken()
		}

		return write(tx)
	})

	if err != nil && httperr.IsConflictViolation(err) {
		return errSlotTaken()
	}
	return err
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.withDetails(r.db.WithContext(ctx)).
		First(&ap, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundErr("appointment_not_found", "Appointment not found.")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {
	res := r.db.WithContext(ctx).
		Model(ap).
		Where("status = ?", string(from)).
		Select("status", "confirmed_at", "completed_at", "cancelled_at", "updated_at").
		Updates(ap)
	return guardChanged(res)
}

func (r *AppointmentGormRepository) CompleteWithHistory(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
	history *models.ServiceHistory,
	loyaltyPoints int,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(ap).
			Where("status = ?", string(from)).
			Select("status", "completed_at", "updated_at").
			Updates(ap)
		if err := guardChanged(res); err != nil {
			return err
		}

		history.AppointmentID = ap.ID
		if err := tx.Omit(clause.Associations).Create(history).Error; err != nil {
			return err
		}

		if ap.CustomerID == nil || loyaltyPoints <= 0 {
			return nil
		}

		if err := tx.Create(&models.LoyaltyTransaction{
			CustomerID:      *ap.CustomerID,
			TransactionType: models.LoyaltyEarned,
			Points:          loyaltyPoints,
			Description:     "Completed appointment",
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Customer{}).
			Where("id = ?", *ap.CustomerID).
			UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", loyaltyPoints)).
			Error
	})
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *AppointmentGormRepository) withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Service").
		Preload("Service.Category").
		Preload("Box").
		Preload("Customer").
		Preload("Customer.User")
}

func (r *AppointmentGormRepository) FindByFilters(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.withDetails(r.db.WithContext(ctx)).
		Model(&models.Appointment{}).
		Select("appointments.*")

	if f.DateFrom != "" {
		q = q.Where("appointments.appointment_date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("appointments.appointment_date <= ?", f.DateTo)
	}
	if f.BoxID != 0 {
		q = q.Where("appointments.box_id = ?", f.BoxID)
	}
	if f.ServiceID != 0 {
		q = q.Where("appointments.service_id = ?", f.ServiceID)
	}
	if f.Status != "" {
		q = q.Where("appointments.status = ?", f.Status)
	}
	if f.TimeFrom != "" {
		q = q.Where("appointments.start_time >= ?", f.TimeFrom)
	}
	if f.TimeTo != "" {
		q = q.Where("appointments.start_time <= ?", f.TimeTo)
	}
	if f.PriceMin != nil {
		q = q.Where("appointments.total_price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("appointments.total_price <= ?", *f.PriceMax)
	}
	if name := strings.TrimSpace(f.CustomerName); name != "" {
		pattern := "%" + strings.ToLower(name) + "%"
		q = q.
			Joins("LEFT JOIN customers ON customers.id = appointments.customer_id").
			Joins("LEFT JOIN users ON users.id = customers.user_id").
			Where(
				"LOWER(COALESCE(users.first_name, '') || ' ' || COALESCE(users.last_name, '')) LIKE ? OR LOWER(appointments.guest_name) LIKE ?",
				pattern, pattern,
			)
	}

	var apps []models.Appointment
	if err := q.
		Order("appointments.appointment_date DESC, appointments.start_time DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListByCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.withDetails(r.db.WithContext(ctx)).
		Where("customer_id = ?", customerID).
		Order("appointment_date DESC, start_time DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListBetween(
	ctx context.Context,
	dateFrom string,
	dateTo string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.withDetails(r.db.WithContext(ctx)).
		Where("appointment_date >= ? AND appointment_date <= ?", dateFrom, dateTo).
		Order("appointment_date ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) Stats(
	ctx context.Context,
	today string,
) (*domain.Stats, error) {

	db := r.db.WithContext(ctx)
	stats := &domain.Stats{ByStatus: map[string]int64{}}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	if err := db.Model(&models.Appointment{}).
		Where("appointment_date = ?", today).
		Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Appointment{}).
		Where("appointment_date >= ? AND status IN ?", today, domain.ActiveStatuses()).
		Count(&stats.Upcoming).Error; err != nil {
		return nil, err
	}

	if day, err := time.Parse(schedule.DateLayout, today); err == nil {
		monthAgo := day.AddDate(0, 0, -30).Format(schedule.DateLayout)
		if err := db.Model(&models.Appointment{}).
			Where("appointment_date >= ?", monthAgo).
			Count(&stats.LastMonth).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&models.Customer{}).Count(&stats.Customers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Customer{}).Where("is_blocked = ?", true).Count(&stats.BlockedCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Box{}).Where("is_active = ?", true).Count(&stats.ActiveBoxes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Service{}).Count(&stats.ServicesCount).Error; err != nil {
		return nil, err
	}

	var prices []decimal.Decimal
	if err := db.Model(&models.Appointment{}).
		Where("status = ?", string(domain.StatusCompleted)).
		Pluck("total_price", &prices).Error; err != nil {
		return nil, err
	}
	stats.Revenue = decimal.Sum(decimal.Zero, prices...)

	prices = nil
	if err := db.Model(&models.Appointment{}).
		Where("status = ? AND appointment_date = ?", string(domain.StatusCompleted), today).
		Pluck("total_price", &prices).Error; err != nil {
		return nil, err
	}
	stats.RevenueToday = decimal.Sum(decimal.Zero, prices...)

	return stats, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
