package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	uccatalog "github.com/BruksfildServices01/sto-scheduler/internal/usecase/catalog"
)

// AdminCatalogHandler edits the catalog. Responses carry every
// translation so the admin panel can edit them.
type AdminCatalogHandler struct {
	services   *uccatalog.Services
	categories *uccatalog.Categories
	boxes      *uccatalog.Boxes
	info       *uccatalog.SiteInfo
}

func NewAdminCatalogHandler(
	services *uccatalog.Services,
	categories *uccatalog.Categories,
	boxes *uccatalog.Boxes,
	info *uccatalog.SiteInfo,
) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		services:   services,
		categories: categories,
		boxes:      boxes,
		info:       info,
	}
}

// --------- Requests ---------

type ServiceRequest struct {
	CategoryID      uint             `json:"category_id" binding:"required"`
	Name            i18n.Text        `json:"name" binding:"required"`
	Description     i18n.Text        `json:"description"`
	Price           *decimal.Decimal `json:"price" binding:"required"`
	DurationMinutes int              `json:"duration_minutes"`
	IsActive        *bool            `json:"is_active"`
	IsFeatured      *bool            `json:"is_featured"`
}

func (r ServiceRequest) input() uccatalog.ServiceInput {
	return uccatalog.ServiceInput{
		CategoryID:      r.CategoryID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price.String(),
		DurationMinutes: r.DurationMinutes,
		IsActive:        r.IsActive,
		IsFeatured:      r.IsFeatured,
	}
}

type CategoryRequest struct {
	Name        i18n.Text `json:"name" binding:"required"`
	Description i18n.Text `json:"description"`
	Order       int       `json:"order"`
}

type BoxRequest struct {
	Name         i18n.Text            `json:"name" binding:"required"`
	Description  i18n.Text            `json:"description"`
	IsActive     *bool                `json:"is_active"`
	WorkingHours schedule.WeeklyHours `json:"working_hours"`
}

type STOInfoRequest struct {
	Name            i18n.Text       `json:"name" binding:"required"`
	Description     i18n.Text       `json:"description"`
	Motto           i18n.Text       `json:"motto"`
	WelcomeText     i18n.Text       `json:"welcome_text"`
	WhatYouCanTitle i18n.Text       `json:"what_you_can_title"`
	WhatYouCanItems models.ItemList `json:"what_you_can_items"`
	Address         i18n.Text       `json:"address"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	WorkingHours    i18n.Text       `json:"working_hours"`
}

// ======================================================
// SERVICES
// ======================================================

func (h *AdminCatalogHandler) ListServices(c *gin.Context) {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	services, err := h.services.List(c.Request.Context(), catalog.ServiceFilter{
		CategoryID:      categoryID,
		IncludeInactive: true,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, services)
}

func (h *AdminCatalogHandler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.services.Create(c.Request.Context(), userID(c), req.input())
	httpresp.Result(c, http.StatusCreated, s, err)
}

func (h *AdminCatalogHandler) UpdateService(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	var req ServiceRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.services.Update(c.Request.Context(), userID(c), id, req.input())
	httpresp.Result(c, http.StatusOK, s, err)
}

func (h *AdminCatalogHandler) DeleteService(c *gin.Context) {
	h.delete(c, h.services.Delete)
}

func (h *AdminCatalogHandler) ToggleServiceStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	s, err := h.services.ToggleStatus(c.Request.Context(), userID(c), id)
	httpresp.Result(c, http.StatusOK, s, err)
}

func (h *AdminCatalogHandler) ToggleServiceFeatured(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	s, err := h.services.ToggleFeatured(c.Request.Context(), userID(c), id)
	httpresp.Result(c, http.StatusOK, s, err)
}

// ======================================================
// CATEGORIES
// ======================================================

func (h *AdminCatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.categories.List(c.Request.Context())
	httpresp.Result(c, http.StatusOK, cats, err)
}

func (h *AdminCatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), userID(c), uccatalog.CategoryInput(req))
	httpresp.Result(c, http.StatusCreated, cat, err)
}

func (h *AdminCatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), userID(c), id, uccatalog.CategoryInput(req))
	httpresp.Result(c, http.StatusOK, cat, err)
}

func (h *AdminCatalogHandler) DeleteCategory(c *gin.Context) {
	h.delete(c, h.categories.Delete)
}

// ======================================================
// BOXES
// ======================================================

func (h *AdminCatalogHandler) ListBoxes(c *gin.Context) {
	boxes, err := h.boxes.List(c.Request.Context(), true)
	httpresp.Result(c, http.StatusOK, boxes, err)
}

func (h *AdminCatalogHandler) CreateBox(c *gin.Context) {
	var req BoxRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.boxes.Create(c.Request.Context(), userID(c), uccatalog.BoxInput(req))
	httpresp.Result(c, http.StatusCreated, b, err)
}

func (h *AdminCatalogHandler) UpdateBox(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	var req BoxRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.boxes.Update(c.Request.Context(), userID(c), id, uccatalog.BoxInput(req))
	httpresp.Result(c, http.StatusOK, b, err)
}

func (h *AdminCatalogHandler) DeleteBox(c *gin.Context) {
	h.delete(c, h.boxes.Delete)
}

func (h *AdminCatalogHandler) ToggleBoxStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	b, err := h.boxes.ToggleStatus(c.Request.Context(), userID(c), id)
	httpresp.Result(c, http.StatusOK, b, err)
}

// ======================================================
// STO INFO
// ======================================================

func (h *AdminCatalogHandler) GetSTOInfo(c *gin.Context) {
	info, err := h.info.Get(c.Request.Context())
	httpresp.Result(c, http.StatusOK, info, err)
}

func (h *AdminCatalogHandler) SaveSTOInfo(c *gin.Context) {
	var req STOInfoRequest
	if !bind(c, &req) {
		return
	}
	info, err := h.info.Save(c.Request.Context(), userID(c), uccatalog.STOInfoInput(req))
	httpresp.Result(c, http.StatusOK, info, err)
}

// ------------------------------------------------------

func (h *AdminCatalogHandler) delete(c *gin.Context, del func(ctx context.Context, actorID, id uint) error) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := del(c.Request.Context(), userID(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
