package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
	"github.com/BruksfildServices01/sto-scheduler/internal/realtime"
)

// LiveHandler streams booking events to the admin dashboard.
type LiveHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      *logging.Logger
}

func NewLiveHandler(hub *realtime.Hub, origins []string, log *logging.Logger) *LiveHandler {
	if log == nil {
		log = logging.Default()
	}
	return &LiveHandler{hub: hub, upgrader: realtime.Upgrader(origins), log: log}
}

// GET /admin/live
func (h *LiveHandler) Serve(c *gin.Context) {
	// the upgrader has already written the HTTP error on failure
	if err := h.hub.Serve(h.upgrader, c.Writer, c.Request, userID(c)); err != nil {
		h.log.Warn("live upgrade failed", "error", err)
	}
}
