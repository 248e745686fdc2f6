package handler

import (
	"net/http"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/service"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PanjarItemHandler struct {
	workflowService service.WorkflowService
	userService     service.UserService
}

func NewPanjarItemHandler(workflowService service.WorkflowService, userService service.UserService) *PanjarItemHandler {
	return &PanjarItemHandler{workflowService: workflowService, userService: userService}
}

func (h *PanjarItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/panjar-items")
	{
		items.GET("/:id/history", middleware.RequirePermission("view panjar-items"), h.ItemHistory)
		items.PATCH("/:id/status", middleware.RequirePermission("update panjar-items"), h.UpdateItemStatus)
		items.PATCH("/bulk-status", middleware.RequirePermission("update panjar-items"), h.BulkUpdateItemStatus)
	}
}

// reviewer builds the workflow reviewer identity from the request context
func (h *PanjarItemHandler) reviewer(c *gin.Context) (service.Reviewer, bool) {
	userID, ok := mustUserID(c)
	if !ok {
		return service.Reviewer{}, false
	}

	reviewer := service.Reviewer{UserID: userID}
	if roles := currentRoles(c); len(roles) > 0 {
		reviewer.Role = roles[0]
	}
	if user, err := h.userService.GetUserByID(c.Request.Context(), userID.String()); err == nil {
		reviewer.Name = user.Name
	}
	return reviewer, true
}

// UpdateItemStatus handles PATCH /api/panjar-items/:id/status
// @Summary      Update item status
// @Description  Transition-checks the item status and appends one history row
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Panjar Item ID"
// @Param        payload  body      service.UpdateItemStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=model.PanjarItem}
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/panjar-items/{id}/status [patch]
func (h *PanjarItemHandler) UpdateItemStatus(c *gin.Context) {
	reviewer, ok := h.reviewer(c)
	if !ok {
		return
	}

	var req service.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.workflowService.UpdateItemStatus(c.Request.Context(), c.Param("id"), req, reviewer)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// BulkUpdateItemStatus handles PATCH /api/panjar-items/bulk-status
// @Summary      Bulk update item statuses
// @Description  Best-effort batch; per-item errors are reported, the rest proceed
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BulkUpdateItemStatusRequest  true  "Bulk Status Payload"
// @Success      200      {object}  response.Response{data=[]service.BulkItemStatusResult}
// @Failure      422      {object}  response.Response
// @Router       /api/panjar-items/bulk-status [patch]
func (h *PanjarItemHandler) BulkUpdateItemStatus(c *gin.Context) {
	reviewer, ok := h.reviewer(c)
	if !ok {
		return
	}

	var req service.BulkUpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	results := h.workflowService.BulkUpdateItemStatus(c.Request.Context(), req, reviewer)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// ItemHistory handles GET /api/panjar-items/:id/history
// @Summary      Item status history
// @Description  Append-only review log, oldest first
// @Tags         panjar
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Panjar Item ID"
// @Success      200  {object}  response.Response{data=[]service.ItemHistoryResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/panjar-items/{id}/history [get]
func (h *PanjarItemHandler) ItemHistory(c *gin.Context) {
	history, err := h.workflowService.ItemHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}
