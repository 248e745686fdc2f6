package handler

import (
	"net/http"
	"strconv"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/service"
	"panjarku-backend/internal/storage"
	"panjarku-backend/pkg/pagination"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RealizationHandler struct {
	realizationService service.RealizationService
	fileStore          *storage.FileStore
}

func NewRealizationHandler(realizationService service.RealizationService, fileStore *storage.FileStore) *RealizationHandler {
	return &RealizationHandler{realizationService: realizationService, fileStore: fileStore}
}

func (h *RealizationHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/panjar-realization-items")
	{
		items.GET("", middleware.RequirePermission("view panjar-realization-items"), h.ListRealizationItems)
		items.GET("/:id", middleware.RequirePermission("view panjar-realization-items"), h.GetRealizationItem)
		items.POST("", middleware.RequirePermission("manage panjar-realization-items"), h.CreateRealizationItem)
		items.PUT("/:id", middleware.RequirePermission("manage panjar-realization-items"), h.UpdateRealizationItem)
		items.PATCH("/:id/report-status", middleware.RequirePermission("manage panjar-realization-items"), h.UpdateReportStatus)
		items.DELETE("/:id", middleware.RequirePermission("manage panjar-realization-items"), h.DeleteRealizationItem)
	}
}

// ListRealizationItems handles GET /api/panjar-realization-items
// @Summary      List realization items
// @Tags         realization
// @Produce      json
// @Security     BearerAuth
// @Param        page               query     int     false  "Page number"
// @Param        per_page           query     int     false  "Items per page"
// @Param        search             query     string  false  "Search by name"
// @Param        panjar_request_id  query     string  false  "Filter by request"
// @Success      200                {object}  response.ListResponse
// @Router       /api/panjar-realization-items [get]
func (h *RealizationHandler) ListRealizationItems(c *gin.Context) {
	params := pagination.Parse(c)

	items, total, err := h.realizationService.List(c.Request.Context(), c.Query("panjar_request_id"), params.Search, params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(items, total, params.Page, params.PerPage))
}

// GetRealizationItem handles GET /api/panjar-realization-items/:id
// @Summary      Get realization item by ID
// @Tags         realization
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Realization Item ID"
// @Success      200  {object}  response.Response{data=model.PanjarRealizationItem}
// @Failure      404  {object}  response.Response
// @Router       /api/panjar-realization-items/{id} [get]
func (h *RealizationHandler) GetRealizationItem(c *gin.Context) {
	item, err := h.realizationService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateRealizationItem handles POST /api/panjar-realization-items (multipart)
// @Summary      Create realization item
// @Description  Multipart form with receipt_file (required) and item_photo (optional), pdf/jpg/jpeg/png up to 2MB each
// @Tags         realization
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        panjar_request_id  formData  string  true   "Approved request ID"
// @Param        name               formData  string  true   "Item name"
// @Param        price              formData  string  true   "Unit price"
// @Param        quantity           formData  int     true   "Quantity"
// @Param        note               formData  string  false  "Note"
// @Param        receipt_file       formData  file    true   "Receipt"
// @Param        item_photo         formData  file    false  "Item photo"
// @Success      201                {object}  response.Response{data=model.PanjarRealizationItem}
// @Failure      409                {object}  response.Response
// @Failure      422                {object}  response.Response
// @Router       /api/panjar-realization-items [post]
func (h *RealizationHandler) CreateRealizationItem(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	quantity, _ := strconv.Atoi(c.PostForm("quantity"))
	input := service.CreateRealizationInput{
		PanjarRequestID: c.PostForm("panjar_request_id"),
		Name:            c.PostForm("name"),
		Price:           c.PostForm("price"),
		Quantity:        quantity,
		Note:            c.PostForm("note"),
	}

	if input.PanjarRequestID == "" || input.Name == "" || input.Price == "" {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "panjar_request_id, name and price are required"))
		return
	}

	receipt, err := c.FormFile("receipt_file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "receipt_file is required"))
		return
	}
	receiptPath, err := h.fileStore.Save(c, receipt, "receipts")
	if err != nil {
		fail(c, err)
		return
	}
	input.ReceiptFile = receiptPath

	if photo, photoErr := c.FormFile("item_photo"); photoErr == nil {
		photoPath, saveErr := h.fileStore.Save(c, photo, "photos")
		if saveErr != nil {
			fail(c, saveErr)
			return
		}
		input.ItemPhoto = photoPath
	}

	item, err := h.realizationService.Create(c.Request.Context(), input, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateRealizationItem handles PUT /api/panjar-realization-items/:id (multipart)
// @Summary      Update realization item
// @Description  Multipart form; omitted files keep the stored uploads. Tax-verified and submitted items are frozen.
// @Tags         realization
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id            path      string  true   "Realization Item ID"
// @Param        name          formData  string  true   "Item name"
// @Param        price         formData  string  true   "Unit price"
// @Param        quantity      formData  int     true   "Quantity"
// @Param        note          formData  string  false  "Note"
// @Param        receipt_file  formData  file    false  "Replacement receipt"
// @Param        item_photo    formData  file    false  "Replacement item photo"
// @Success      200           {object}  response.Response{data=model.PanjarRealizationItem}
// @Failure      409           {object}  response.Response
// @Failure      422           {object}  response.Response
// @Router       /api/panjar-realization-items/{id} [put]
func (h *RealizationHandler) UpdateRealizationItem(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	quantity, _ := strconv.Atoi(c.PostForm("quantity"))
	input := service.UpdateRealizationInput{
		Name:     c.PostForm("name"),
		Price:    c.PostForm("price"),
		Quantity: quantity,
		Note:     c.PostForm("note"),
	}

	if input.Name == "" || input.Price == "" {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "name and price are required"))
		return
	}

	if receipt, receiptErr := c.FormFile("receipt_file"); receiptErr == nil {
		receiptPath, saveErr := h.fileStore.Save(c, receipt, "receipts")
		if saveErr != nil {
			fail(c, saveErr)
			return
		}
		input.ReceiptFile = receiptPath
	}
	if photo, photoErr := c.FormFile("item_photo"); photoErr == nil {
		photoPath, saveErr := h.fileStore.Save(c, photo, "photos")
		if saveErr != nil {
			fail(c, saveErr)
			return
		}
		input.ItemPhoto = photoPath
	}

	item, err := h.realizationService.Update(c.Request.Context(), c.Param("id"), input, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateReportStatus handles PATCH /api/panjar-realization-items/:id/report-status
// @Summary      Update report status
// @Description  Transition-checks the report status and mirrors it onto the parent request
// @Tags         realization
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Realization Item ID"
// @Param        payload  body      service.UpdateReportStatusRequest  true  "Report Status Payload"
// @Success      200      {object}  response.Response{data=model.PanjarRealizationItem}
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/panjar-realization-items/{id}/report-status [patch]
func (h *RealizationHandler) UpdateReportStatus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req service.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.realizationService.UpdateReportStatus(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteRealizationItem handles DELETE /api/panjar-realization-items/:id
// @Summary      Delete realization item
// @Description  Submitted items cannot be deleted
// @Tags         realization
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Realization Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/panjar-realization-items/{id} [delete]
func (h *RealizationHandler) DeleteRealizationItem(c *gin.Context) {
	if err := h.realizationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Realization item deleted successfully"))
}
