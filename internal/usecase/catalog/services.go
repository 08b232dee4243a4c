package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

const defaultDuration = 60

type ServiceInput struct {
	CategoryID      uint
	Name            i18n.Text
	Description     i18n.Text
	Price           string
	DurationMinutes int
	IsActive        *bool
	IsFeatured      *bool
}

// Services manages the bookable services.
type Services struct {
	repo  catalog.Repository
	audit *audit.Dispatcher
}

func NewServices(repo catalog.Repository, dispatcher *audit.Dispatcher) *Services {
	return &Services{repo: repo, audit: dispatcher}
}

func (uc *Services) List(ctx context.Context, f catalog.ServiceFilter) ([]models.Service, error) {
	return uc.repo.ListServices(ctx, f)
}

// Get hides inactive services unless includeInactive is set.
func (uc *Services) Get(ctx context.Context, id uint, includeInactive bool) (*models.Service, error) {
	s, err := uc.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.IsActive && !includeInactive {
		return nil, httperr.NotFoundErr("service_not_found", "Service not found.")
	}
	return s, nil
}

func (uc *Services) Create(ctx context.Context, actorID uint, in ServiceInput) (*models.Service, error) {
	s := &models.Service{IsActive: true}
	if err := uc.apply(ctx, s, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}
	uc.changed(actorID, "service", "created", s.ID)
	return uc.repo.GetService(ctx, s.ID)
}

func (uc *Services) Update(ctx context.Context, actorID, id uint, in ServiceInput) (*models.Service, error) {
	s, err := uc.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(ctx, s, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}
	uc.changed(actorID, "service", "updated", s.ID)
	return uc.repo.GetService(ctx, s.ID)
}

// Delete removes the service and every appointment booked for it.
func (uc *Services) Delete(ctx context.Context, actorID, id uint) error {
	if err := uc.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	uc.changed(actorID, "service", "deleted", id)
	return nil
}

func (uc *Services) ToggleStatus(ctx context.Context, actorID, id uint) (*models.Service, error) {
	return uc.toggle(ctx, actorID, id, "toggle_status", func(s *models.Service) {
		s.IsActive = !s.IsActive
	})
}

func (uc *Services) ToggleFeatured(ctx context.Context, actorID, id uint) (*models.Service, error) {
	return uc.toggle(ctx, actorID, id, "toggle_featured", func(s *models.Service) {
		s.IsFeatured = !s.IsFeatured
	})
}

func (uc *Services) toggle(
	ctx context.Context,
	actorID, id uint,
	op string,
	flip func(*models.Service),
) (*models.Service, error) {

	s, err := uc.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	flip(s)
	if err := uc.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}
	uc.changed(actorID, "service", op, s.ID)
	return s, nil
}

func (uc *Services) apply(ctx context.Context, s *models.Service, in ServiceInput) error {
	fields := map[string]string{}

	name := trimText(in.Name)
	if name.Empty() {
		fields["name"] = "This field is required."
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	switch {
	case err != nil:
		fields["price"] = "A valid number is required."
	case price.IsNegative():
		fields["price"] = "Price cannot be negative."
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = defaultDuration
	}
	if duration < 0 || duration > 24*60 {
		fields["duration_minutes"] = "Duration must be between 1 and 1440 minutes."
	}

	if in.CategoryID == 0 {
		fields["category_id"] = "This field is required."
	}

	if len(fields) > 0 {
		return httperr.ValidationFields(fields)
	}

	if _, err := uc.repo.GetCategory(ctx, in.CategoryID); err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return httperr.ValidationFields(map[string]string{"category_id": "Category does not exist."})
		}
		return err
	}

	s.CategoryID = in.CategoryID
	s.Name = datatypes.NewJSONType(name)
	s.Description = datatypes.NewJSONType(trimText(in.Description))
	s.Price = price.Round(2)
	s.DurationMinutes = duration
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		s.IsFeatured = *in.IsFeatured
	}
	return nil
}

func (uc *Services) changed(actorID uint, entity, op string, id uint) {
	catalogChanged(uc.audit, actorID, entity, op, id)
}

// ------------------------------------------------------
// Shared helpers
// ------------------------------------------------------

func trimText(t i18n.Text) i18n.Text {
	out := i18n.Text{}
	for l, v := range t {
		if !i18n.Supported(string(l)) {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			out[l] = v
		}
	}
	return out
}

func catalogChanged(d *audit.Dispatcher, actorID uint, entity, op string, id uint) {
	d.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   audit.ActionCatalogChanged,
		Entity:   entity,
		EntityID: &id,
		Metadata: map[string]any{"op": op},
	})
}
