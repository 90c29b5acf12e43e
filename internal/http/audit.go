package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// List returns audit events, newest first.
// GET /api/audit?type=&limit=&offset=
func (ac *AuditController) List(c *gin.Context) {
	limit := queryInt(c, "limit", 25, 200)
	offset := queryInt(c, "offset", 0, 0)
	eventType := c.Query("type")

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
