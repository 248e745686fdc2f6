package handler

import (
	"net/http"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/service"
	"panjarku-backend/pkg/pagination"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	budgetService service.BudgetService
}

func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	years := router.Group("/api/budget-years")
	{
		years.GET("", middleware.RequirePermission("view budgets"), h.ListBudgetYears)
		years.GET("/active", middleware.RequirePermission("view budgets"), h.GetActiveBudgetYear)
		years.POST("", middleware.RequirePermission("manage budgets"), h.CreateBudgetYear)
		years.PUT("/:id/activate", middleware.RequirePermission("manage budgets"), h.ActivateBudgetYear)
		years.DELETE("/:id", middleware.RequirePermission("manage budgets"), h.DeleteBudgetYear)
	}

	budgets := router.Group("/api/budgets")
	{
		budgets.GET("", middleware.RequirePermission("view budgets"), h.ListBudgets)
		budgets.GET("/:id", middleware.RequirePermission("view budgets"), h.GetBudget)
		budgets.POST("", middleware.RequirePermission("manage budgets"), h.CreateBudget)
		budgets.PUT("/:id", middleware.RequirePermission("manage budgets"), h.UpdateBudget)
		budgets.DELETE("/:id", middleware.RequirePermission("manage budgets"), h.DeleteBudget)
	}

	items := router.Group("/api/budget-items")
	{
		items.GET("", middleware.RequirePermission("view budgets"), h.ListBudgetItems)
		items.GET("/:id", middleware.RequirePermission("view budgets"), h.GetBudgetItem)
		items.POST("", middleware.RequirePermission("manage budgets"), h.CreateBudgetItem)
		items.PUT("/:id", middleware.RequirePermission("manage budgets"), h.UpdateBudgetItem)
		items.DELETE("/:id", middleware.RequirePermission("manage budgets"), h.DeleteBudgetItem)
	}
}

// ListBudgetYears handles GET /api/budget-years
// @Summary      List budget years
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "Page number"
// @Param        per_page  query     int  false  "Items per page"
// @Success      200       {object}  response.ListResponse
// @Router       /api/budget-years [get]
func (h *BudgetHandler) ListBudgetYears(c *gin.Context) {
	params := pagination.Parse(c)

	years, total, err := h.budgetService.ListBudgetYears(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(years, total, params.Page, params.PerPage))
}

// GetActiveBudgetYear handles GET /api/budget-years/active
// @Summary      Active budget year
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.BudgetYear}
// @Failure      404  {object}  response.Response
// @Router       /api/budget-years/active [get]
func (h *BudgetHandler) GetActiveBudgetYear(c *gin.Context) {
	year, err := h.budgetService.GetActiveBudgetYear(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, year))
}

// CreateBudgetYear handles POST /api/budget-years
// @Summary      Create budget year
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBudgetYearRequest  true  "Create Budget Year Payload"
// @Success      201      {object}  response.Response{data=model.BudgetYear}
// @Failure      409      {object}  response.Response
// @Router       /api/budget-years [post]
func (h *BudgetHandler) CreateBudgetYear(c *gin.Context) {
	var req service.CreateBudgetYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	year, err := h.budgetService.CreateBudgetYear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, year))
}

// ActivateBudgetYear handles PUT /api/budget-years/:id/activate
// @Summary      Activate budget year
// @Description  Makes the year active and deactivates every other year
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget Year ID"
// @Success      200  {object}  response.Response{data=model.BudgetYear}
// @Failure      404  {object}  response.Response
// @Router       /api/budget-years/{id}/activate [put]
func (h *BudgetHandler) ActivateBudgetYear(c *gin.Context) {
	year, err := h.budgetService.ActivateBudgetYear(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, year))
}

// DeleteBudgetYear handles DELETE /api/budget-years/:id
// @Summary      Delete budget year
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget Year ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/budget-years/{id} [delete]
func (h *BudgetHandler) DeleteBudgetYear(c *gin.Context) {
	if err := h.budgetService.DeleteBudgetYear(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Budget year deleted successfully"))
}

// ListBudgets handles GET /api/budgets
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Param        unit_id   query     string  false  "Filter by unit"
// @Success      200       {object}  response.ListResponse
// @Router       /api/budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	params := pagination.Parse(c)

	budgets, total, err := h.budgetService.ListBudgets(c.Request.Context(), c.Query("unit_id"), params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(budgets, total, params.Page, params.PerPage))
}

// GetBudget handles GET /api/budgets/:id
// @Summary      Get budget by ID
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response{data=model.Budget}
// @Failure      404  {object}  response.Response
// @Router       /api/budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budget, err := h.budgetService.GetBudget(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// CreateBudget handles POST /api/budgets
// @Summary      Create budget
// @Description  One budget per unit, year and quarter
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBudgetRequest  true  "Create Budget Payload"
// @Success      201      {object}  response.Response{data=model.Budget}
// @Failure      409      {object}  response.Response
// @Router       /api/budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req service.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, budget))
}

// UpdateBudget handles PUT /api/budgets/:id
// @Summary      Update budget
// @Description  Moves the budget to another quarter
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Budget ID"
// @Param        payload  body      service.UpdateBudgetRequest  true  "Update Budget Payload"
// @Success      200      {object}  response.Response{data=model.Budget}
// @Failure      409      {object}  response.Response
// @Router       /api/budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req service.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// DeleteBudget handles DELETE /api/budgets/:id
// @Summary      Delete budget
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if err := h.budgetService.DeleteBudget(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Budget deleted successfully"))
}

// ListBudgetItems handles GET /api/budget-items
// @Summary      List budget items
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        per_page   query     int     false  "Items per page"
// @Param        search     query     string  false  "Search by name"
// @Param        budget_id  query     string  false  "Filter by budget"
// @Success      200        {object}  response.ListResponse
// @Router       /api/budget-items [get]
func (h *BudgetHandler) ListBudgetItems(c *gin.Context) {
	params := pagination.Parse(c)

	items, total, err := h.budgetService.ListBudgetItems(c.Request.Context(), c.Query("budget_id"), params.Search, params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(items, total, params.Page, params.PerPage))
}

// GetBudgetItem handles GET /api/budget-items/:id
// @Summary      Get budget item by ID
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget Item ID"
// @Success      200  {object}  response.Response{data=model.BudgetItem}
// @Failure      404  {object}  response.Response
// @Router       /api/budget-items/{id} [get]
func (h *BudgetHandler) GetBudgetItem(c *gin.Context) {
	item, err := h.budgetService.GetBudgetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateBudgetItem handles POST /api/budget-items
// @Summary      Create budget item
// @Description  Remaining amount starts equal to the allocation
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBudgetItemRequest  true  "Create Budget Item Payload"
// @Success      201      {object}  response.Response{data=model.BudgetItem}
// @Failure      422      {object}  response.Response
// @Router       /api/budget-items [post]
func (h *BudgetHandler) CreateBudgetItem(c *gin.Context) {
	var req service.CreateBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.budgetService.CreateBudgetItem(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateBudgetItem handles PUT /api/budget-items/:id
// @Summary      Update budget item
// @Description  Allocation may not drop below the realized amount
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Budget Item ID"
// @Param        payload  body      service.UpdateBudgetItemRequest  true  "Update Budget Item Payload"
// @Success      200      {object}  response.Response{data=model.BudgetItem}
// @Failure      409      {object}  response.Response
// @Router       /api/budget-items/{id} [put]
func (h *BudgetHandler) UpdateBudgetItem(c *gin.Context) {
	var req service.UpdateBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.budgetService.UpdateBudgetItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteBudgetItem handles DELETE /api/budget-items/:id
// @Summary      Delete budget item
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/budget-items/{id} [delete]
func (h *BudgetHandler) DeleteBudgetItem(c *gin.Context) {
	if err := h.budgetService.DeleteBudgetItem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Budget item deleted successfully"))
}
