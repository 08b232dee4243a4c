package catalog

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	"github.com/BruksfildServices01/sto-scheduler/internal/validators"
)

type STOInfoInput struct {
	Name            i18n.Text
	Description     i18n.Text
	Motto           i18n.Text
	WelcomeText     i18n.Text
	WhatYouCanTitle i18n.Text
	WhatYouCanItems models.ItemList
	Address         i18n.Text
	Phone           string
	Email           string
	WorkingHours    i18n.Text
}

// SiteInfo serves the home page content of the service center.
type SiteInfo struct {
	repo  catalog.Repository
	audit *audit.Dispatcher
}

func NewSiteInfo(repo catalog.Repository, dispatcher *audit.Dispatcher) *SiteInfo {
	return &SiteInfo{repo: repo, audit: dispatcher}
}

func (uc *SiteInfo) Get(ctx context.Context) (*models.STOInfo, error) {
	return uc.repo.GetSTOInfo(ctx)
}

// Save updates the active content, creating it on first use.
func (uc *SiteInfo) Save(ctx context.Context, actorID uint, in STOInfoInput) (*models.STOInfo, error) {
	info, err := uc.repo.GetSTOInfo(ctx)
	if err != nil {
		if !httperr.IsKind(err, httperr.KindNotFound) {
			return nil, err
		}
		info = &models.STOInfo{IsActive: true}
	}

	fields := map[string]string{}
	name := trimText(in.Name)
	if name.Empty() {
		fields["name"] = "This field is required."
	}
	email := validators.NormalizeEmail(in.Email)
	if email != "" && !validators.IsEmail(email) {
		fields["email"] = "Enter a valid email address."
	}
	if len(fields) > 0 {
		return nil, httperr.ValidationFields(fields)
	}

	items := models.ItemList{}
	for l, list := range in.WhatYouCanItems {
		if !i18n.Supported(string(l)) {
			continue
		}
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				items[l] = append(items[l], item)
			}
		}
	}

	info.Name = datatypes.NewJSONType(name)
	info.Description = datatypes.NewJSONType(trimText(in.Description))
	info.Motto = datatypes.NewJSONType(trimText(in.Motto))
	info.WelcomeText = datatypes.NewJSONType(trimText(in.WelcomeText))
	info.WhatYouCanTitle = datatypes.NewJSONType(trimText(in.WhatYouCanTitle))
	info.WhatYouCanItems = datatypes.NewJSONType(items)
	info.Address = datatypes.NewJSONType(trimText(in.Address))
	info.Phone = strings.TrimSpace(in.Phone)
	info.Email = email
	info.WorkingHours = datatypes.NewJSONType(trimText(in.WorkingHours))

	if err := uc.repo.SaveSTOInfo(ctx, info); err != nil {
		return nil, err
	}
	catalogChanged(uc.audit, actorID, "sto_info", "updated", info.ID)
	return info, nil
}
