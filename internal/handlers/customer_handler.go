package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/sto-scheduler/internal/dto"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/sto-scheduler/internal/media"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	uccustomer "github.com/BruksfildServices01/sto-scheduler/internal/usecase/customer"
)

type CustomerHandler struct {
	profiles   *uccustomer.Profiles
	management *uccustomer.Management
}

func NewCustomerHandler(profiles *uccustomer.Profiles, management *uccustomer.Management) *CustomerHandler {
	return &CustomerHandler{profiles: profiles, management: management}
}

type ProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Password  *string `json:"password"`
}

type profileResponse struct {
	dto.CustomerDTO
	CompletedAppointments int             `json:"completed_appointments"`
	DiscountPercent       decimal.Decimal `json:"discount_percent"`
}

func newProfile(v *uccustomer.ProfileView) profileResponse {
	return profileResponse{
		CustomerDTO:           dto.Customer(*v.Customer),
		CompletedAppointments: v.CompletedAppointments,
		DiscountPercent:       v.DiscountPercent,
	}
}

// ======================================================
// PROFILE
// ======================================================

// GET /customers/profile
func (h *CustomerHandler) Profile(c *gin.Context) {
	view, err := h.profiles.Get(c.Request.Context(), userID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, newProfile(view))
}

// PATCH /customers/profile
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if !bind(c, &req) {
		return
	}

	view, err := h.profiles.Update(c.Request.Context(), userID(c), uccustomer.ProfileInput(req))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, newProfile(view))
}

// POST /customers/avatar
func (h *CustomerHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+1<<20)

	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		httperr.Respond(c, httperr.ValidationFields(map[string]string{
			"avatar": "Attach an image of at most 5 MB.",
		}))
		return
	}
	defer file.Close()

	view, err := h.profiles.UploadAvatar(c.Request.Context(), userID(c), file)
	if err != nil {
		if errors.Is(err, media.ErrStorageDisabled) {
			httperr.Write(c, http.StatusServiceUnavailable, "avatar_storage_disabled", "Avatar uploads are not configured.")
			return
		}
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, newProfile(view))
}

// GET /service-history
func (h *CustomerHandler) History(c *gin.Context) {
	rows, err := h.profiles.History(c.Request.Context(), userID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.Map(rows, locale(c), dto.ServiceHistory))
}

// GET /loyalty-transactions
func (h *CustomerHandler) Loyalty(c *gin.Context) {
	rows, err := h.profiles.Loyalty(c.Request.Context(), userID(c))
	httpresp.Result(c, http.StatusOK, rows, err)
}

// ======================================================
// ADMIN
// ======================================================

// GET /admin/customers
func (h *CustomerHandler) List(c *gin.Context) {
	rows, err := h.management.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

// POST /admin/customers/:id/block
func (h *CustomerHandler) Block(c *gin.Context) {
	h.setBlocked(c, h.management.Block)
}

// POST /admin/customers/:id/unblock
func (h *CustomerHandler) Unblock(c *gin.Context) {
	h.setBlocked(c, h.management.Unblock)
}

func (h *CustomerHandler) setBlocked(
	c *gin.Context,
	run func(ctx context.Context, actorID, customerID uint) (*models.Customer, error),
) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	cust, err := run(c.Request.Context(), userID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.Customer(*cust))
}
