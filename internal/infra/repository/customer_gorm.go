package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/customer"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

// --------------------------------------------------
// Accounts
// --------------------------------------------------

func (r *CustomerGormRepository) Register(
	ctx context.Context,
	user *models.User,
	c *models.Customer,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var taken int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return httperr.ValidationFields(map[string]string{
				"username": "A user with that username or email already exists.",
			})
		}

		if err := tx.Create(user).Error; err != nil {
			if httperr.IsConflictViolation(err) {
				return httperr.Validation("user_exists", "A user with that username or email already exists.")
			}
			return err
		}
		if c == nil {
			return nil
		}

		c.UserID = user.ID
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return err
		}
		c.User = *user
		return nil
	})
}

func (r *CustomerGormRepository) FindUserByLogin(
	ctx context.Context,
	login string,
) (*models.User, error) {

	login = strings.ToLower(strings.TrimSpace(login))

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR email = ?", login, login).
		First(&user).Error; err != nil {
		return nil, notFound(err, "user_not_found", "User not found.")
	}
	return &user, nil
}

func (r *CustomerGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user_not_found", "User not found.")
	}
	return &user, nil
}

// --------------------------------------------------
// Profile
// --------------------------------------------------

func (r *CustomerGormRepository) GetByUserID(
	ctx context.Context,
	userID uint,
) (*models.Customer, error) {
	return customerForUser(r.db.WithContext(ctx), userID)
}

// customerForUser returns the customer profile of a user, creating an empty
// one on first use.
func customerForUser(db *gorm.DB, userID uint) (*models.Customer, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user_not_found", "User not found.")
	}

	var c models.Customer
	err := db.Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = models.Customer{UserID: userID}
		err = db.Omit(clause.Associations).Create(&c).Error
	}
	if err != nil {
		return nil, err
	}

	c.User = user
	return &c, nil
}

func (r *CustomerGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, notFound(err, "customer_not_found", "Customer not found.")
	}
	return &c, nil
}

func (r *CustomerGormRepository) SaveProfile(
	ctx context.Context,
	c *models.Customer,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&c.User).
			Select("first_name", "last_name", "email", "phone", "password_hash", "updated_at").
			Updates(&c.User).Error; err != nil {
			if httperr.IsConflictViolation(err) {
				return httperr.ValidationFields(map[string]string{
					"email": "A user with that email already exists.",
				})
			}
			return err
		}
		return tx.Model(c).
			Select("address", "avatar_url", "updated_at").
			Updates(c).Error
	})
}

func (r *CustomerGormRepository) CountCompleted(
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
// Admin
// --------------------------------------------------

func (r *CustomerGormRepository) List(
	ctx context.Context,
	search string,
) ([]customer.Summary, error) {

	q := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = customers.user_id")

	if s := strings.ToLower(strings.TrimSpace(search)); s != "" {
		pattern := "%" + s + "%"
		q = q.Where(
			"LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(users.first_name || ' ' || users.last_name) LIKE ? OR users.phone LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var customers []models.Customer
	if err := q.Order("customers.id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}

	if len(customers) == 0 {
		return []customer.Summary{}, nil
	}

	ids := make([]uint, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}

	var counts []struct {
		CustomerID uint
		Total      int
		Completed  int
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select(
			"customer_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed",
			string(domain.StatusCompleted),
		).
		Where("customer_id IN ?", ids).
		Group("customer_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]int, len(counts))
	for i, c := range counts {
		byID[c.CustomerID] = i
	}

	out := make([]customer.Summary, len(customers))
	for i, c := range customers {
		out[i] = customer.Summary{Customer: c}
		if j, ok := byID[c.ID]; ok {
			out[i].TotalAppointments = counts[j].Total
			out[i].CompletedAppointments = counts[j].Completed
		}
	}
	return out, nil
}

func (r *CustomerGormRepository) SetBlocked(
	ctx context.Context,
	customerID uint,
	blocked bool,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("is_blocked", blocked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundErr("customer_not_found", "Customer not found.")
	}
	return nil
}

// --------------------------------------------------
// History
// --------------------------------------------------

func (r *CustomerGormRepository) ListHistory(
	ctx context.Context,
	customerID uint,
) ([]models.ServiceHistory, error) {

	var rows []models.ServiceHistory
	if err := r.db.WithContext(ctx).
		Preload("Appointment").
		Preload("Appointment.Service").
		Preload("Appointment.Box").
		Joins("JOIN appointments ON appointments.id = service_history.appointment_id").
		Where("appointments.customer_id = ?", customerID).
		Order("service_history.completed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CustomerGormRepository) ListLoyalty(
	ctx context.Context,
	customerID uint,
) ([]models.LoyaltyTransaction, error) {

	var rows []models.LoyaltyTransaction
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Compile-time check
var _ customer.Repository = (*CustomerGormRepository)(nil)
