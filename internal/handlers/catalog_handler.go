package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/sto-scheduler/internal/dto"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/sto-scheduler/internal/middleware"
	uccatalog "github.com/BruksfildServices01/sto-scheduler/internal/usecase/catalog"
)

// CatalogHandler serves the public, localized catalog.
type CatalogHandler struct {
	services   *uccatalog.Services
	categories *uccatalog.Categories
	boxes      *uccatalog.Boxes
	info       *uccatalog.SiteInfo
}

func NewCatalogHandler(
	services *uccatalog.Services,
	categories *uccatalog.Categories,
	boxes *uccatalog.Boxes,
	info *uccatalog.SiteInfo,
) *CatalogHandler {
	return &CatalogHandler{
		services:   services,
		categories: categories,
		boxes:      boxes,
		info:       info,
	}
}

// GET /services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	featured, _ := strconv.ParseBool(c.Query("featured"))

	h.listServices(c, catalog.ServiceFilter{CategoryID: categoryID, FeaturedOnly: featured})
}

// GET /services/featured
func (h *CatalogHandler) FeaturedServices(c *gin.Context) {
	h.listServices(c, catalog.ServiceFilter{FeaturedOnly: true})
}

func (h *CatalogHandler) listServices(c *gin.Context, f catalog.ServiceFilter) {
	services, err := h.services.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.Map(services, locale(c), dto.Service))
}

// GET /services/:id
// Admins also see inactive services.
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	s, err := h.services.Get(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.Service(*s, locale(c)))
}

// GET /service-categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.categories.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.Map(cats, locale(c), dto.Category))
}

// GET /boxes
func (h *CatalogHandler) ListBoxes(c *gin.Context) {
	boxes, err := h.boxes.List(c.Request.Context(), false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.Map(boxes, locale(c), dto.Box))
}

// GET /sto-info
func (h *CatalogHandler) STOInfo(c *gin.Context) {
	info, err := h.info.Get(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.STOInfo(*info, locale(c)))
}
