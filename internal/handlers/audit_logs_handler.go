package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

type auditPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

// GET /admin/audit-logs?action=&entity=&entity_id=&user_id=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}

	entityID, err := queryID(c, "entity_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	actorID, err := queryID(c, "user_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	logs, total, err := h.logs.List(c.Request.Context(), audit.Filter{
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: entityID,
		UserID:   actorID,
	}, limit, (page-1)*limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, auditPage{Page: page, Limit: limit, Total: total, Logs: logs})
}
