package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/middleware"
	"github.com/BruksfildServices01/sto-scheduler/internal/usecase/appointment"
)

func locale(c *gin.Context) i18n.Locale {
	return i18n.ResolveLocale(c.Query("language"), c.GetHeader("Accept-Language"))
}

func actor(c *gin.Context) appointment.Actor {
	id, _ := middleware.UserID(c)
	return appointment.Actor{UserID: id, Admin: middleware.IsAdmin(c)}
}

// userID is only called behind AuthMiddleware.
func userID(c *gin.Context) uint {
	id, _ := middleware.UserID(c)
	return id
}

func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, httperr.Validation("invalid_id", "Invalid identifier.")
	}
	return uint(id), nil
}

// queryID reads an optional numeric query parameter; empty means 0.
func queryID(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, httperr.ValidationFields(map[string]string{name: "Must be a positive integer."})
	}
	return uint(id), nil
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return false
	}
	return true
}
