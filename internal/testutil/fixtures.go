package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

func Text(uk, en string) datatypes.JSONType[i18n.Text] {
	return datatypes.NewJSONType(i18n.Text{i18n.UK: uk, i18n.EN: en})
}

// WeekdaysHours opens Monday to Friday between start and end.
func WeekdaysHours(start, end string) schedule.WeeklyHours {
	return schedule.WeeklyHours{
		"monday":    {Start: start, End: end},
		"tuesday":   {Start: start, End: end},
		"wednesday": {Start: start, End: end},
		"thursday":  {Start: start, End: end},
		"friday":    {Start: start, End: end},
		"saturday":  {Start: "00:00", End: "00:00"},
		"sunday":    {Start: "00:00", End: "00:00"},
	}
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: Text(name, name)}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateService(t *testing.T, db *gorm.DB, categoryID uint, price string, minutes int) *models.Service {
	t.Helper()
	s := &models.Service{
		CategoryID:      categoryID,
		Name:            Text("Послуга", "Service"),
		Price:           decimal.RequireFromString(price),
		DurationMinutes: minutes,
		IsActive:        true,
	}
	require.NoError(t, db.Omit("Category").Create(s).Error)
	return s
}

func CreateBox(t *testing.T, db *gorm.DB, name string, hours schedule.WeeklyHours) *models.Box {
	t.Helper()
	b := &models.Box{
		Name:         Text(name, name),
		IsActive:     true,
		WorkingHours: datatypes.NewJSONType(hours),
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func CreateCustomer(t *testing.T, db *gorm.DB, username, first, last string) *models.Customer {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    first,
		LastName:     last,
		Role:         models.RoleCustomer,
	}
	require.NoError(t, db.Create(&u).Error)

	c := &models.Customer{UserID: u.ID}
	require.NoError(t, db.Omit("User").Create(c).Error)
	c.User = u
	return c
}

func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateAppointment inserts a raw appointment row, bypassing allocation.
func CreateAppointment(t *testing.T, db *gorm.DB, ap *models.Appointment) *models.Appointment {
	t.Helper()
	if ap.Status == "" {
		ap.Status = "pending"
	}
	require.NoError(t, db.Omit("Service", "Box", "Customer").Create(ap).Error)
	return ap
}
