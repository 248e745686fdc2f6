package handler

import (
	"net/http"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/service"
	"panjarku-backend/pkg/pagination"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/api/employees")
	{
		employees.GET("", middleware.RequirePermission("view employees"), h.ListEmployees)
		employees.GET("/:id", middleware.RequirePermission("view employees"), h.GetEmployee)
		employees.GET("/:id/superior", middleware.RequirePermission("view employees"), h.GetSuperior)
		employees.POST("", middleware.RequirePermission("manage employees"), h.CreateEmployee)
		employees.PUT("/:id", middleware.RequirePermission("manage employees"), h.UpdateEmployee)
		employees.DELETE("/:id", middleware.RequirePermission("manage employees"), h.DeleteEmployee)
	}

	students := router.Group("/api/students")
	{
		students.GET("", middleware.RequirePermission("view students"), h.ListStudents)
		students.GET("/:id", middleware.RequirePermission("view students"), h.GetStudent)
		students.POST("", middleware.RequirePermission("manage students"), h.CreateStudent)
		students.PUT("/:id", middleware.RequirePermission("manage students"), h.UpdateStudent)
		students.DELETE("/:id", middleware.RequirePermission("manage students"), h.DeleteStudent)
	}
}

// ListEmployees handles GET /api/employees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Param        search    query     string  false  "Search by NIP or name"
// @Success      200       {object}  response.ListResponse
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	params := pagination.Parse(c)

	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), params.Search, params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(employees, total, params.Page, params.PerPage))
}

// GetEmployee handles GET /api/employees/:id
// @Summary      Get employee by ID
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// GetSuperior handles GET /api/employees/:id/superior
// @Summary      Direct superior
// @Description  Employee occupying the superior position, or null when there is none
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id}/superior [get]
func (h *EmployeeHandler) GetSuperior(c *gin.Context) {
	superior, err := h.employeeService.EmployeeSuperior(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, superior))
}

// CreateEmployee handles POST /api/employees
// @Summary      Create employee
// @Description  Links a user to a unit and position with a unique NIP
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateEmployeeRequest  true  "Create Employee Payload"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      409      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// UpdateEmployee handles PUT /api/employees/:id
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Update Employee Payload"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// DeleteEmployee handles DELETE /api/employees/:id
// @Summary      Delete employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Employee deleted successfully"))
}

// ListStudents handles GET /api/students
// @Summary      List students
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Items per page"
// @Param        search    query     string  false  "Search by name or NISN"
// @Success      200       {object}  response.ListResponse
// @Router       /api/students [get]
func (h *EmployeeHandler) ListStudents(c *gin.Context) {
	params := pagination.Parse(c)

	students, total, err := h.employeeService.ListStudents(c.Request.Context(), params.Search, params.Page, params.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(students, total, params.Page, params.PerPage))
}

// GetStudent handles GET /api/students/:id
// @Summary      Get student by ID
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  response.Response{data=model.Student}
// @Failure      404  {object}  response.Response
// @Router       /api/students/{id} [get]
func (h *EmployeeHandler) GetStudent(c *gin.Context) {
	student, err := h.employeeService.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, student))
}

// CreateStudent handles POST /api/students
// @Summary      Create student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateStudentRequest  true  "Create Student Payload"
// @Success      201      {object}  response.Response{data=model.Student}
// @Failure      409      {object}  response.Response
// @Router       /api/students [post]
func (h *EmployeeHandler) CreateStudent(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	student, err := h.employeeService.CreateStudent(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, student))
}

// UpdateStudent handles PUT /api/students/:id
// @Summary      Update student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Student ID"
// @Param        payload  body      service.UpdateStudentRequest  true  "Update Student Payload"
// @Success      200      {object}  response.Response{data=model.Student}
// @Failure      404      {object}  response.Response
// @Router       /api/students/{id} [put]
func (h *EmployeeHandler) UpdateStudent(c *gin.Context) {
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	student, err := h.employeeService.UpdateStudent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, student))
}

// DeleteStudent handles DELETE /api/students/:id
// @Summary      Delete student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/students/{id} [delete]
func (h *EmployeeHandler) DeleteStudent(c *gin.Context) {
	if err := h.employeeService.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Student deleted successfully"))
}
