package handler

import (
	"context"
	"net/http"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/model"
	"panjarku-backend/internal/service"
	"panjarku-backend/pkg/pagination"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PanjarHandler struct {
	panjarService service.PanjarService
}

func NewPanjarHandler(panjarService service.PanjarService) *PanjarHandler {
	return &PanjarHandler{panjarService: panjarService}
}

func (h *PanjarHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/panjar-requests")
	{
		requests.GET("", middleware.RequirePermission("view panjar-requests"), h.ListRequests)
		requests.GET("/:id", middleware.RequirePermission("view panjar-requests"), h.GetRequest)
		requests.GET("/:id/items", middleware.RequirePermission("view panjar-items"), h.ListRequestItems)
		requests.POST("", middleware.RequirePermission("create panjar-requests"), h.CreateRequest)
		requests.PUT("/:id", middleware.RequirePermission("update panjar-requests"), h.UpdateRequest)
		requests.DELETE("/:id", middleware.RequirePermission("delete panjar-requests"), h.DeleteRequest)

		requests.PUT("/:id/verify", middleware.RequirePermission("review panjar-requests"), h.VerifyRequest)
		requests.PUT("/:id/approve", middleware.RequirePermission("review panjar-requests"), h.ApproveRequest)
		requests.PUT("/:id/reject", middleware.RequirePermission("review panjar-requests"), h.RejectRequest)
		requests.PUT("/:id/revision", middleware.RequirePermission("review panjar-requests"), h.RequestRevision)
	}
}

// ListRequests handles GET /api/panjar-requests
// @Summary      List panjar requests
// @Tags         panjar
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number"
// @Param        per_page    query     int     false  "Items per page"
// @Param        search      query     string  false  "Search by note"
// @Param        unit_id     query     string  false  "Filter by unit"
// @Param        created_by  query     string  false  "Filter by creator"
// @Param        status      query     string  false  "Filter by status"
// @Success      200         {object}  response.ListResponse
// @Router       /api/panjar-requests [get]
func (h *PanjarHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.PanjarListFilter{
		UnitID:    c.Query("unit_id"),
		CreatedBy: c.Query("created_by"),
		Status:    c.Query("status"),
		Search:    params.Search,
		Page:      params.Page,
		PerPage:   params.PerPage,
	}

	requests, total, err := h.panjarService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(requests, total, params.Page, params.PerPage))
}

// GetRequest handles GET /api/panjar-requests/:id
// @Summary      Get panjar request by ID
// @Tags         panjar
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Panjar Request ID"
// @Success      200  {object}  response.Response{data=model.PanjarRequest}
// @Failure      404  {object}  response.Response
// @Router       /api/panjar-requests/{id} [get]
func (h *PanjarHandler) GetRequest(c *gin.Context) {
	request, err := h.panjarService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ListRequestItems handles GET /api/panjar-requests/:id/items
// @Summary      List request items
// @Tags         panjar
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Panjar Request ID"
// @Success      200  {object}  response.Response{data=[]model.PanjarItem}
// @Failure      404  {object}  response.Response
// @Router       /api/panjar-requests/{id}/items [get]
func (h *PanjarHandler) ListRequestItems(c *gin.Context) {
	request, err := h.panjarService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request.Items))
}

// CreateRequest handles POST /api/panjar-requests
// @Summary      Create panjar request
// @Description  Raises a cash-advance request with computed item and request totals
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePanjarRequest  true  "Create Panjar Payload"
// @Success      201      {object}  response.Response{data=model.PanjarRequest}
// @Failure      403      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/panjar-requests [post]
func (h *PanjarHandler) CreateRequest(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req service.CreatePanjarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.panjarService.Create(c.Request.Context(), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// UpdateRequest handles PUT /api/panjar-requests/:id
// @Summary      Update panjar request
// @Description  Creator-only; editable in pending, resubmits from revision
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Panjar Request ID"
// @Param        payload  body      service.UpdatePanjarRequest  true  "Update Panjar Payload"
// @Success      200      {object}  response.Response{data=model.PanjarRequest}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/panjar-requests/{id} [put]
func (h *PanjarHandler) UpdateRequest(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req service.UpdatePanjarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.panjarService.Update(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// DeleteRequest handles DELETE /api/panjar-requests/:id
// @Summary      Delete panjar request
// @Description  Creator-only; pending requests only
// @Tags         panjar
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Panjar Request ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/panjar-requests/{id} [delete]
func (h *PanjarHandler) DeleteRequest(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.panjarService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Panjar request deleted successfully"))
}

// VerifyRequest handles PUT /api/panjar-requests/:id/verify
// @Summary      Verify panjar request
// @Description  pending → verified; reviewer must be among the creator's verifiers
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true   "Panjar Request ID"
// @Param        payload  body      service.ReviewNote  false  "Optional note"
// @Success      200      {object}  response.Response{data=model.PanjarRequest}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/panjar-requests/{id}/verify [put]
func (h *PanjarHandler) VerifyRequest(c *gin.Context) {
	h.review(c, h.panjarService.Verify)
}

// ApproveRequest handles PUT /api/panjar-requests/:id/approve
// @Summary      Approve panjar request
// @Description  verified → approved; realizes the budget item under a row lock
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true   "Panjar Request ID"
// @Param        payload  body      service.ReviewNote  false  "Optional note"
// @Success      200      {object}  response.Response{data=model.PanjarRequest}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/panjar-requests/{id}/approve [put]
func (h *PanjarHandler) ApproveRequest(c *gin.Context) {
	h.review(c, h.panjarService.Approve)
}

// RejectRequest handles PUT /api/panjar-requests/:id/reject
// @Summary      Reject panjar request
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true   "Panjar Request ID"
// @Param        payload  body      service.ReviewNote  false  "Optional note"
// @Success      200      {object}  response.Response{data=model.PanjarRequest}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/panjar-requests/{id}/reject [put]
func (h *PanjarHandler) RejectRequest(c *gin.Context) {
	h.review(c, h.panjarService.Reject)
}

// RequestRevision handles PUT /api/panjar-requests/:id/revision
// @Summary      Request revision
// @Description  Sends the request back to its creator for rework
// @Tags         panjar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true   "Panjar Request ID"
// @Param        payload  body      service.ReviewNote  false  "Optional note"
// @Success      200      {object}  response.Response{data=model.PanjarRequest}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/panjar-requests/{id}/revision [put]
func (h *PanjarHandler) RequestRevision(c *gin.Context) {
	h.review(c, h.panjarService.RequestRevision)
}

// review shares the body parsing and response writing of the four workflow
// endpoints.
func (h *PanjarHandler) review(
	c *gin.Context,
	action func(ctx context.Context, id, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error),
) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req service.ReviewNote
	if err := c.ShouldBindJSON(&req); err != nil {
		// Empty body is fine, the note is optional
		req.Note = ""
	}

	request, err := action(c.Request.Context(), c.Param("id"), req.Note, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}
