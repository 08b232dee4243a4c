package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	"github.com/BruksfildServices01/sto-scheduler/internal/testutil"
)

func TestServiceLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCatalogGormRepository(db)
	uc := NewServices(repo, nil)
	ctx := context.Background()

	cat := testutil.CreateCategory(t, db, "Шини")

	s, err := uc.Create(ctx, 1, ServiceInput{
		CategoryID: cat.ID,
		Name:       i18n.Text{i18n.UK: " Шиномонтаж ", i18n.EN: "Tyre fitting"},
		Price:      "450.555",
	})
	require.NoError(t, err)
	assert.Equal(t, "Шиномонтаж", s.Name.Data().Get(i18n.UK))
	assert.Equal(t, "450.56", s.Price.StringFixed(2))
	assert.Equal(t, 60, s.DurationMinutes)
	assert.True(t, s.IsActive)
	assert.Equal(t, cat.ID, s.Category.ID)

	s, err = uc.ToggleFeatured(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.True(t, s.IsFeatured)

	featured, err := uc.List(ctx, catalog.ServiceFilter{FeaturedOnly: true})
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	s, err = uc.ToggleStatus(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.False(t, s.IsActive)

	active, err := uc.List(ctx, catalog.ServiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = uc.Get(ctx, s.ID, false)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
	_, err = uc.Get(ctx, s.ID, true)
	assert.NoError(t, err)

	updated, err := uc.Update(ctx, 1, s.ID, ServiceInput{
		CategoryID:      cat.ID,
		Name:            i18n.Text{i18n.UK: "Балансування"},
		Price:           "300",
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(300)))
	assert.False(t, updated.IsActive, "status is kept when not given")
}

func TestServiceValidation(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewServices(repository.NewCatalogGormRepository(db), nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, 1, ServiceInput{Price: "-1", DurationMinutes: -5})
	var be httperr.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Fields, "name")
	assert.Contains(t, be.Fields, "price")
	assert.Contains(t, be.Fields, "duration_minutes")
	assert.Contains(t, be.Fields, "category_id")

	_, err = uc.Create(ctx, 1, ServiceInput{
		CategoryID: 42,
		Name:       i18n.Text{i18n.EN: "Oil"},
		Price:      "10",
	})
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Fields, "category_id")
}

func TestDeleteCategoryCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCatalogGormRepository(db)
	ctx := context.Background()

	cat := testutil.CreateCategory(t, db, "Двигун")
	svc := testutil.CreateService(t, db, cat.ID, "100", 60)
	box := testutil.CreateBox(t, db, "Bay-1", schedule.DefaultWeeklyHours())
	testutil.CreateAppointment(t, db, &models.Appointment{
		ServiceID: svc.ID, BoxID: &box.ID, GuestName: "G",
		AppointmentDate: "2024-01-09", StartTime: "10:00", EndTime: "11:00",
		DurationMinutes: 60, TotalPrice: decimal.NewFromInt(100),
	})

	require.NoError(t, NewCategories(repo, nil).Delete(ctx, 1, cat.ID))

	var services, appointments int64
	db.Model(&models.Service{}).Count(&services)
	db.Model(&models.Appointment{}).Count(&appointments)
	assert.Zero(t, services)
	assert.Zero(t, appointments)

	err := NewCategories(repo, nil).Delete(ctx, 1, cat.ID)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestCategoriesOrdered(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewCategories(repository.NewCatalogGormRepository(db), nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, 1, CategoryInput{Name: i18n.Text{i18n.UK: "Б"}, Order: 2})
	require.NoError(t, err)
	first, err := uc.Create(ctx, 1, CategoryInput{Name: i18n.Text{i18n.UK: "А"}, Order: 1})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	_, err = uc.Create(ctx, 1, CategoryInput{Name: i18n.Text{i18n.UK: "  "}})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestBoxes(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewBoxes(repository.NewCatalogGormRepository(db), nil)
	ctx := context.Background()

	b, err := uc.Create(ctx, 1, BoxInput{Name: i18n.Text{i18n.UK: "Бокс 1", i18n.EN: "Bay 1"}})
	require.NoError(t, err)
	assert.True(t, b.IsActive)
	assert.Equal(t, schedule.DefaultWeeklyHours(), b.WorkingHours.Data())

	_, err = uc.Update(ctx, 1, b.ID, BoxInput{
		Name:         i18n.Text{i18n.UK: "Бокс 1"},
		WorkingHours: schedule.WeeklyHours{"monday": {Start: "18:00", End: "08:00"}},
	})
	var be httperr.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Fields, "working_hours")

	hours := testutil.WeekdaysHours("09:00", "17:00")
	b, err = uc.Update(ctx, 1, b.ID, BoxInput{Name: i18n.Text{i18n.UK: "Бокс 1"}, WorkingHours: hours})
	require.NoError(t, err)
	assert.Equal(t, hours, b.WorkingHours.Data())

	b, err = uc.ToggleStatus(ctx, 1, b.ID)
	require.NoError(t, err)
	assert.False(t, b.IsActive)

	active, err := uc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := uc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreatedInactiveStaysInactive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCatalogGormRepository(db)
	ctx := context.Background()
	off := false

	b, err := NewBoxes(repo, nil).Create(ctx, 1, BoxInput{
		Name:     i18n.Text{i18n.UK: "Бокс 9"},
		IsActive: &off,
	})
	require.NoError(t, err)

	stored, err := repo.GetBox(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	bookable, err := repository.NewAppointmentGormRepository(db).ListActiveBoxes(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookable)

	services := NewServices(repo, nil)
	cat := testutil.CreateCategory(t, db, "Шини")
	svc, err := services.Create(ctx, 1, ServiceInput{
		CategoryID: cat.ID,
		Name:       i18n.Text{i18n.UK: "Шиномонтаж"},
		Price:      "100",
		IsActive:   &off,
	})
	require.NoError(t, err)

	reloaded, err := services.Get(ctx, svc.ID, true)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	listed, err := services.List(ctx, catalog.ServiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSiteInfoCreatedOnFirstSave(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewSiteInfo(repository.NewCatalogGormRepository(db), nil)
	ctx := context.Background()

	_, err := uc.Get(ctx)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	info, err := uc.Save(ctx, 1, STOInfoInput{
		Name:            i18n.Text{i18n.UK: "СТО", i18n.EN: "Service"},
		WhatYouCanItems: models.ItemList{i18n.UK: {"Ремонт", " "}, "de": {"x"}},
		Email:           " Info@Example.com ",
	})
	require.NoError(t, err)
	assert.Equal(t, "info@example.com", info.Email)
	assert.Equal(t, []string{"Ремонт"}, info.WhatYouCanItems.Data()[i18n.UK])
	assert.NotContains(t, info.WhatYouCanItems.Data(), i18n.Locale("de"))

	again, err := uc.Save(ctx, 1, STOInfoInput{Name: i18n.Text{i18n.EN: "Garage"}})
	require.NoError(t, err)
	assert.Equal(t, info.ID, again.ID)

	_, err = uc.Save(ctx, 1, STOInfoInput{Name: i18n.Text{i18n.EN: "Garage"}, Email: "bad"})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}
