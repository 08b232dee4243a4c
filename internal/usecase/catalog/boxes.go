package catalog

import (
	"context"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type BoxInput struct {
	Name        i18n.Text
	Description i18n.Text
	IsActive    *bool

	// WorkingHours left nil keeps the current hours, or the default week
	// for a new box.
	WorkingHours schedule.WeeklyHours
}

type Boxes struct {
	repo  catalog.Repository
	audit *audit.Dispatcher
}

func NewBoxes(repo catalog.Repository, dispatcher *audit.Dispatcher) *Boxes {
	return &Boxes{repo: repo, audit: dispatcher}
}

func (uc *Boxes) List(ctx context.Context, includeInactive bool) ([]models.Box, error) {
	return uc.repo.ListBoxes(ctx, includeInactive)
}

func (uc *Boxes) Create(ctx context.Context, actorID uint, in BoxInput) (*models.Box, error) {
	b := &models.Box{
		IsActive:     true,
		WorkingHours: datatypes.NewJSONType(schedule.DefaultWeeklyHours()),
	}
	if err := applyBox(b, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveBox(ctx, b); err != nil {
		return nil, err
	}
	catalogChanged(uc.audit, actorID, "box", "created", b.ID)
	return b, nil
}

func (uc *Boxes) Update(ctx context.Context, actorID, id uint, in BoxInput) (*models.Box, error) {
	b, err := uc.repo.GetBox(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyBox(b, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveBox(ctx, b); err != nil {
		return nil, err
	}
	catalogChanged(uc.audit, actorID, "box", "updated", b.ID)
	return b, nil
}

// Delete removes the box and every appointment assigned to it.
func (uc *Boxes) Delete(ctx context.Context, actorID, id uint) error {
	if err := uc.repo.DeleteBox(ctx, id); err != nil {
		return err
	}
	catalogChanged(uc.audit, actorID, "box", "deleted", id)
	return nil
}

// ToggleStatus takes a box out of allocation or returns it. Existing
// appointments on a deactivated box are left alone.
func (uc *Boxes) ToggleStatus(ctx context.Context, actorID, id uint) (*models.Box, error) {
	b, err := uc.repo.GetBox(ctx, id)
	if err != nil {
		return nil, err
	}
	b.IsActive = !b.IsActive
	if err := uc.repo.SaveBox(ctx, b); err != nil {
		return nil, err
	}
	catalogChanged(uc.audit, actorID, "box", "toggle_status", b.ID)
	return b, nil
}

func applyBox(b *models.Box, in BoxInput) error {
	fields := map[string]string{}

	name := trimText(in.Name)
	if name.Empty() {
		fields["name"] = "This field is required."
	}
	if in.WorkingHours != nil {
		if err := in.WorkingHours.Validate(); err != nil {
			fields["working_hours"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return httperr.ValidationFields(fields)
	}

	b.Name = datatypes.NewJSONType(name)
	b.Description = datatypes.NewJSONType(trimText(in.Description))
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.WorkingHours != nil {
		b.WorkingHours = datatypes.NewJSONType(in.WorkingHours)
	}
	return nil
}
