package handler

import (
	"net/http"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/service"
	"panjarku-backend/pkg/pagination"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	unitService service.UnitService
}

func NewUnitHandler(unitService service.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

func (h *UnitHandler) RegisterRoutes(router *gin.RouterGroup) {
	units := router.Group("/api/units")
	{
		units.GET("", middleware.RequirePermission("view units"), h.ListUnits)
		units.GET("/:id", middleware.RequirePermission("view units"), h.GetUnit)
		units.GET("/:id/children", middleware.RequirePermission("view units"), h.UnitChildren)
		units.GET("/:id/ancestors", middleware.RequirePermission("view units"), h.UnitAncestors)
		units.POST("", middleware.RequirePermission("manage units"), h.CreateUnit)
		units.PUT("/:id", middleware.RequirePermission("manage units"), h.UpdateUnit)
		units.DELETE("/:id", middleware.RequirePermission("manage units"), h.DeleteUnit)
	}

	positions := router.Group("/api/positions")
	{
		positions.GET("", middleware.RequirePermission("view units"), h.ListPositions)
		positions.GET("/:id", middleware.RequirePermission("view units"), h.GetPosition)
		positions.POST("", middleware.RequirePermission("manage units"), h.CreatePosition)
		positions.PUT("/:id", middleware.RequirePermission("manage units"), h.UpdatePosition)
		positions.DELETE("/:id", middleware.RequirePermission("manage units"), h.DeletePosition)
	}
}

// ListUnits handles GET /api/units
// @Summary      List units
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Param        search    query     string  false  "Search by name or code"
// @Success      200       {object}  response.ListResponse
// @Router       /api/units [get]
func (h *UnitHandler) ListUnits(c *gin.Context) {
	params := pagination.Parse(c)

	units, total, err := h.unitService.ListUnits(c.Request.Context(), params.Search, params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(units, total, params.Page, params.PerPage))
}

// GetUnit handles GET /api/units/:id
// @Summary      Get unit by ID
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Unit ID"
// @Success      200  {object}  response.Response{data=model.Unit}
// @Failure      404  {object}  response.Response
// @Router       /api/units/{id} [get]
func (h *UnitHandler) GetUnit(c *gin.Context) {
	unit, err := h.unitService.GetUnit(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, unit))
}

// UnitChildren handles GET /api/units/:id/children
// @Summary      Unit subtree
// @Description  All descendant units of the given unit, depth-first
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Unit ID"
// @Success      200  {object}  response.Response{data=[]model.Unit}
// @Failure      404  {object}  response.Response
// @Router       /api/units/{id}/children [get]
func (h *UnitHandler) UnitChildren(c *gin.Context) {
	units, err := h.unitService.UnitChildren(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// UnitAncestors handles GET /api/units/:id/ancestors
// @Summary      Unit ancestor chain
// @Description  Root-first chain from the organizational root down to the unit
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Unit ID"
// @Success      200  {object}  response.Response{data=[]model.Unit}
// @Failure      404  {object}  response.Response
// @Router       /api/units/{id}/ancestors [get]
func (h *UnitHandler) UnitAncestors(c *gin.Context) {
	units, err := h.unitService.UnitAncestors(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// CreateUnit handles POST /api/units
// @Summary      Create unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUnitRequest  true  "Create Unit Payload"
// @Success      201      {object}  response.Response{data=model.Unit}
// @Failure      409      {object}  response.Response
// @Router       /api/units [post]
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req service.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.unitService.CreateUnit(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

// UpdateUnit handles PUT /api/units/:id
// @Summary      Update unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Unit ID"
// @Param        payload  body      service.UpdateUnitRequest  true  "Update Unit Payload"
// @Success      200      {object}  response.Response{data=model.Unit}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/units/{id} [put]
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	var req service.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.unitService.UpdateUnit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, unit))
}

// DeleteUnit handles DELETE /api/units/:id
// @Summary      Delete unit
// @Description  Soft deletes a unit without children
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Unit ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/units/{id} [delete]
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	if err := h.unitService.DeleteUnit(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Unit deleted successfully"))
}

// ListPositions handles GET /api/positions
// @Summary      List positions
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Param        search    query     string  false  "Search by name or slug"
// @Success      200       {object}  response.ListResponse
// @Router       /api/positions [get]
func (h *UnitHandler) ListPositions(c *gin.Context) {
	params := pagination.Parse(c)

	positions, total, err := h.unitService.ListPositions(c.Request.Context(), params.Search, params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(positions, total, params.Page, params.PerPage))
}

// GetPosition handles GET /api/positions/:id
// @Summary      Get position by ID
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Position ID"
// @Success      200  {object}  response.Response{data=model.Position}
// @Failure      404  {object}  response.Response
// @Router       /api/positions/{id} [get]
func (h *UnitHandler) GetPosition(c *gin.Context) {
	position, err := h.unitService.GetPosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, position))
}

// CreatePosition handles POST /api/positions
// @Summary      Create position
// @Tags         positions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePositionRequest  true  "Create Position Payload"
// @Success      201      {object}  response.Response{data=model.Position}
// @Failure      409      {object}  response.Response
// @Router       /api/positions [post]
func (h *UnitHandler) CreatePosition(c *gin.Context) {
	var req service.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	position, err := h.unitService.CreatePosition(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, position))
}

// UpdatePosition handles PUT /api/positions/:id
// @Summary      Update position
// @Tags         positions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Position ID"
// @Param        payload  body      service.UpdatePositionRequest  true  "Update Position Payload"
// @Success      200      {object}  response.Response{data=model.Position}
// @Failure      404      {object}  response.Response
// @Router       /api/positions/{id} [put]
func (h *UnitHandler) UpdatePosition(c *gin.Context) {
	var req service.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	position, err := h.unitService.UpdatePosition(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, position))
}

// DeletePosition handles DELETE /api/positions/:id
// @Summary      Delete position
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Position ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/positions/{id} [delete]
func (h *UnitHandler) DeletePosition(c *gin.Context) {
	if err := h.unitService.DeletePosition(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Position deleted successfully"))
}
