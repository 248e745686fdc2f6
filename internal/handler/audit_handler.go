package handler

import (
	"net/http"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/repository"
	"panjarku-backend/pkg/pagination"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditRepo repository.AuditRepository
}

func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	{
		group.GET("", middleware.RequirePermission("view audit-logs"), h.ListAuditLogs)
	}
}

// ListAuditLogs handles GET /api/audit-logs
// @Summary      List audit logs
// @Description  Paginated action history, newest first, optionally filtered by action
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Param        action    query     string  false  "Filter by action code"
// @Success      200       {object}  response.ListResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditRepo.List(c.Request.Context(), c.Query("action"), params.Page, params.PerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve audit logs: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(logs, total, params.Page, params.PerPage))
}
