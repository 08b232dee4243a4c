package dto

import (
	"time"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type CategoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func Category(c models.Category, l i18n.Locale) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name.Data().Get(l),
		Description: c.Description.Data().Get(l),
		Order:       c.Order,
	}
}

type ServiceDTO struct {
	ID              uint         `json:"id"`
	Category        *CategoryDTO `json:"category,omitempty"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Price           string       `json:"price"`
	DurationMinutes int          `json:"duration_minutes"`
	IsActive        bool         `json:"is_active"`
	IsFeatured      bool         `json:"is_featured"`
	CreatedAt       time.Time    `json:"created_at"`
}

func Service(s models.Service, l i18n.Locale) ServiceDTO {
	out := ServiceDTO{
		ID:              s.ID,
		Name:            s.Name.Data().Get(l),
		Description:     s.Description.Data().Get(l),
		Price:           s.Price.StringFixed(2),
		DurationMinutes: s.Duration(),
		IsActive:        s.IsActive,
		IsFeatured:      s.IsFeatured,
		CreatedAt:       s.CreatedAt,
	}
	if s.Category.ID != 0 {
		cat := Category(s.Category, l)
		out.Category = &cat
	}
	return out
}

type BoxDTO struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	IsActive     bool                 `json:"is_active"`
	WorkingHours schedule.WeeklyHours `json:"working_hours"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func Box(b models.Box, l i18n.Locale) BoxDTO {
	return BoxDTO{
		ID:           b.ID,
		Name:         b.Name.Data().Get(l),
		Description:  b.Description.Data().Get(l),
		IsActive:     b.IsActive,
		WorkingHours: b.WorkingHours.Data(),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

type STOInfoDTO struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Motto           string   `json:"motto"`
	WelcomeText     string   `json:"welcome_text"`
	WhatYouCanTitle string   `json:"what_you_can_title"`
	WhatYouCanItems []string `json:"what_you_can_items"`
	Address         string   `json:"address"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	WorkingHours    string   `json:"working_hours"`
}

func STOInfo(s models.STOInfo, l i18n.Locale) STOInfoDTO {
	items := s.WhatYouCanItems.Data()[l]
	if len(items) == 0 {
		items = s.WhatYouCanItems.Data()[i18n.Default]
	}
	if items == nil {
		items = []string{}
	}
	return STOInfoDTO{
		ID:              s.ID,
		Name:            s.Name.Data().Get(l),
		Description:     s.Description.Data().Get(l),
		Motto:           s.Motto.Data().Get(l),
		WelcomeText:     s.WelcomeText.Data().Get(l),
		WhatYouCanTitle: s.WhatYouCanTitle.Data().Get(l),
		WhatYouCanItems: items,
		Address:         s.Address.Data().Get(l),
		Phone:           s.Phone,
		Email:           s.Email,
		WorkingHours:    s.WorkingHours.Data().Get(l),
	}
}

// Map converts a slice with fn.
func Map[T, U any](in []T, l i18n.Locale, fn func(T, i18n.Locale) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v, l))
	}
	return out
}
