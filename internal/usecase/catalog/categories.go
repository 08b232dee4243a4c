package catalog

import (
	"context"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type CategoryInput struct {
	Name        i18n.Text
	Description i18n.Text
	Order       int
}

type Categories struct {
	repo  catalog.Repository
	audit *audit.Dispatcher
}

func NewCategories(repo catalog.Repository, dispatcher *audit.Dispatcher) *Categories {
	return &Categories{repo: repo, audit: dispatcher}
}

func (uc *Categories) List(ctx context.Context) ([]models.Category, error) {
	return uc.repo.ListCategories(ctx)
}

func (uc *Categories) Create(ctx context.Context, actorID uint, in CategoryInput) (*models.Category, error) {
	c := &models.Category{}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	catalogChanged(uc.audit, actorID, "category", "created", c.ID)
	return c, nil
}

func (uc *Categories) Update(ctx context.Context, actorID, id uint, in CategoryInput) (*models.Category, error) {
	c, err := uc.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	catalogChanged(uc.audit, actorID, "category", "updated", c.ID)
	return c, nil
}

// Delete removes the category with its services and their appointments.
func (uc *Categories) Delete(ctx context.Context, actorID, id uint) error {
	if err := uc.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	catalogChanged(uc.audit, actorID, "category", "deleted", id)
	return nil
}

func applyCategory(c *models.Category, in CategoryInput) error {
	name := trimText(in.Name)
	if name.Empty() {
		return httperr.ValidationFields(map[string]string{"name": "This field is required."})
	}
	c.Name = datatypes.NewJSONType(name)
	c.Description = datatypes.NewJSONType(trimText(in.Description))
	c.Order = in.Order
	return nil
}
