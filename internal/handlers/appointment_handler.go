package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/dto"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	"github.com/BruksfildServices01/sto-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentUseCases bundles the booking use cases the handler drives.
type AppointmentUseCases struct {
	Create        *appointment.CreateAppointment
	Update        *appointment.UpdateAppointment
	Confirm       *appointment.ConfirmAppointment
	Complete      *appointment.CompleteAppointment
	Cancel        *appointment.CancelAppointment
	CancelByAdmin *appointment.CancelAppointmentByAdmin
	List          *appointment.ListAppointments
	ListMine      *appointment.ListMyAppointments
	Weekly        *appointment.WeeklySchedule
	Stats         *appointment.Statistics
}

type AppointmentHandler struct {
	uc AppointmentUseCases
}

func NewAppointmentHandler(uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentRequest struct {
	ServiceID  uint   `json:"service_id" binding:"required"`
	Date       string `json:"appointment_date" binding:"required"`
	Time       string `json:"appointment_time" binding:"required"`
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`
	GuestEmail string `json:"guest_email"`
	Notes      string `json:"notes"`
}

type CompleteAppointmentRequest struct {
	MechanicNotes  string `json:"mechanic_notes"`
	ActualDuration int    `json:"actual_duration" binding:"gte=0"`
}

// ======================================================
// CREATE
// ======================================================

// POST /guest-appointments
func (h *AppointmentHandler) CreateGuest(c *gin.Context) {
	h.create(c, nil)
}

// POST /appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	id := userID(c)
	h.create(c, &id)
}

func (h *AppointmentHandler) create(c *gin.Context, user *uint) {
	var req AppointmentRequest
	if !bind(c, &req) {
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		UserID:     user,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		GuestEmail: req.GuestEmail,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Time:       req.Time,
		Notes:      req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.Appointment(*ap, locale(c)))
}

// ======================================================
// UPDATE
// ======================================================

// PUT /appointments/:id
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req AppointmentRequest
	if !bind(c, &req) {
		return
	}

	ap, err := h.uc.Update.Execute(c.Request.Context(), appointment.UpdateAppointmentInput{
		AppointmentID: id,
		Actor:         actor(c),
		GuestName:     req.GuestName,
		GuestPhone:    req.GuestPhone,
		GuestEmail:    req.GuestEmail,
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.Appointment(*ap, locale(c)))
}

// ======================================================
// LIFECYCLE
// ======================================================

// POST /appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.uc.Cancel.Execute)
}

// POST /admin/:id/cancel_appointment
func (h *AppointmentHandler) CancelByAdmin(c *gin.Context) {
	h.transition(c, h.uc.CancelByAdmin.Execute)
}

// POST /appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.uc.Confirm.Execute)
}

// POST /appointments/:id/complete
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req CompleteAppointmentRequest
	if c.Request.ContentLength > 0 && !bind(c, &req) {
		return
	}

	ap, err := h.uc.Complete.Execute(c.Request.Context(), actor(c), appointment.CompleteAppointmentInput{
		AppointmentID:  id,
		MechanicNotes:  req.MechanicNotes,
		ActualDuration: req.ActualDuration,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.Appointment(*ap, locale(c)))
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	run func(ctx context.Context, a appointment.Actor, id uint) (*models.Appointment, error),
) {
	id, err := idParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := run(c.Request.Context(), actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.Appointment(*ap, locale(c)))
}

// ======================================================
// LISTS
// ======================================================

// GET /appointments/my
func (h *AppointmentHandler) My(c *gin.Context) {
	apps, err := h.uc.ListMine.Execute(c.Request.Context(), userID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.Map(apps, locale(c), dto.Appointment))
}

// GET /admin/appointments
func (h *AppointmentHandler) AdminList(c *gin.Context) {
	apps, err := h.uc.List.Execute(c.Request.Context(), appointment.FilterInput{
		DateFrom:     c.Query("date_from"),
		DateTo:       c.Query("date_to"),
		BoxID:        c.Query("box_id"),
		ServiceID:    c.Query("service_id"),
		Status:       c.Query("status"),
		CustomerName: c.Query("customer_name"),
		TimeFrom:     c.Query("time_from"),
		TimeTo:       c.Query("time_to"),
		PriceMin:     c.Query("price_min"),
		PriceMax:     c.Query("price_max"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.Map(apps, locale(c), dto.Appointment))
}

// GET /admin/statistics
func (h *AppointmentHandler) Statistics(c *gin.Context) {
	stats, err := h.uc.Stats.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, stats)
}

type boxScheduleDTO struct {
	Box          *dto.BoxDTO          `json:"box"`
	Appointments []dto.AppointmentDTO `json:"appointments"`
}

type dayScheduleDTO struct {
	Date    string           `json:"date"`
	Weekday string           `json:"weekday"`
	Boxes   []boxScheduleDTO `json:"boxes"`
}

// GET /admin/weekly_schedule
func (h *AppointmentHandler) WeeklySchedule(c *gin.Context) {
	week, err := h.uc.Weekly.Execute(c.Request.Context(), c.Query("week_start"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	l := locale(c)
	days := make([]dayScheduleDTO, 0, len(week.Days))
	for _, d := range week.Days {
		day := dayScheduleDTO{Date: d.Date, Weekday: d.Weekday.String(), Boxes: []boxScheduleDTO{}}
		for _, bs := range d.Boxes {
			out := boxScheduleDTO{Appointments: dto.Map(bs.Appointments, l, dto.Appointment)}
			if bs.Box != nil {
				b := dto.Box(*bs.Box, l)
				out.Box = &b
			}
			day.Boxes = append(day.Boxes, out)
		}
		days = append(days, day)
	}

	httpresp.OK(c, gin.H{
		"week_start": week.Start,
		"week_end":   week.End,
		"boxes":      dto.Map(week.Boxes, l, dto.Box),
		"days":       days,
	})
}
