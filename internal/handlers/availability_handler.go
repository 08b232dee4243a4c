package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/dto"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/sto-scheduler/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	avail *appointment.Availability
}

func NewAvailabilityHandler(avail *appointment.Availability) *AvailabilityHandler {
	return &AvailabilityHandler{avail: avail}
}

// GET /boxes/available_dates
func (h *AvailabilityHandler) Dates(c *gin.Context) {
	serviceID, err := queryID(c, "service_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	exclude, err := queryID(c, "exclude_appointment_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	dates, err := h.avail.Dates(c.Request.Context(), appointment.DatesInput{
		ServiceID: serviceID,
		From:      c.Query("from"),
		ExcludeID: exclude,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"available_dates": dates})
}

// GET /boxes/available_times
func (h *AvailabilityHandler) Times(c *gin.Context) {
	serviceID, err := queryID(c, "service_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	exclude, err := queryID(c, "exclude_appointment_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	times, err := h.avail.Times(c.Request.Context(), appointment.TimesInput{
		ServiceID: serviceID,
		Date:      c.Query("date"),
		ExcludeID: exclude,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"available_times": times})
}

// GET /boxes/available_boxes
func (h *AvailabilityHandler) Boxes(c *gin.Context) {
	serviceID, err := queryID(c, "service_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	exclude, err := queryID(c, "exclude_appointment_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	boxes, err := h.avail.Boxes(c.Request.Context(), appointment.BoxesInput{
		ServiceID: serviceID,
		Date:      c.Query("date"),
		Time:      c.Query("time"),
		ExcludeID: exclude,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.Map(boxes, locale(c), dto.Box))
}
