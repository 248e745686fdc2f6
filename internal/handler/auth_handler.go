package handler

import (
	"net/http"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/service"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService     service.UserService
	approvalService service.ApprovalService
}

// NewAuthHandler sets up the routing dependencies for authentication endpoints
func NewAuthHandler(userService service.UserService, approvalService service.ApprovalService) *AuthHandler {
	return &AuthHandler{userService: userService, approvalService: approvalService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/sign-in", h.SignIn)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/sign-out", h.SignOut)
	}

	router.GET("/user", middleware.Authenticate(), h.CurrentUser)
}

// SignIn authenticates and establishes an HttpOnly cookie session
// @Summary      Sign in (cookie session)
// @Description  Authenticates a user by email and password, setting HttpOnly token cookies
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.TokenPair}
// @Failure      401      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	tokens, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SetTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Login authenticates and returns bearer tokens without setting cookies
// @Summary      Login (bearer token)
// @Description  Authenticates a user by email and password, returning JWT tokens in the body
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.TokenPair}
// @Failure      401      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload: "+err.Error()))
		return
	}

	tokens, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Refresh rotates the refresh token and issues a new token pair
// @Summary      Refresh tokens
// @Description  Issues new access and refresh tokens from a valid refresh token (cookie or body)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenPair}
// @Failure      401  {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	// Cookie first, body fallback
	refreshToken, cookieErr := c.Cookie("refresh_token")
	if cookieErr != nil || refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "Invalid request payload"))
			return
		}
		refreshToken = req.RefreshToken
	}

	tokens, err := h.userService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SetTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// SignOut revokes the refresh token and clears the cookie session
// @Summary      Sign out
// @Description  Revokes the refresh token and clears auth cookies
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if refreshToken, err := c.Cookie("refresh_token"); err == nil && refreshToken != "" {
		// Best-effort revocation; the cookies are cleared either way
		_ = h.userService.Logout(c.Request.Context(), refreshToken)
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Signed out"))
}

// CurrentUser returns the authenticated user's profile, roles, permissions
// and the approval hierarchy applicable to them
// @Summary      Current user
// @Description  Profile of the authenticated user with roles, merged permissions and approval hierarchy
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID.String())
	if err != nil {
		fail(c, err)
		return
	}

	roles := user.RoleNames()
	perms, err := middleware.GetPermissionsForRoles(roles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch permissions"))
		return
	}
	if perms == nil {
		perms = []string{}
	}

	payload := gin.H{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"roles":       roles,
		"permissions": perms,
		"employee":    user.Employee,
	}

	// Hierarchy only applies to users with an employee record
	if user.Employee != nil {
		hierarchy, hierErr := h.approvalService.HierarchyFor(c.Request.Context(), user, user.Employee.UnitID)
		if hierErr == nil {
			payload["approval_hierarchy"] = hierarchy
		}
		finance, finErr := h.approvalService.FinanceHierarchies(c.Request.Context())
		if finErr == nil {
			payload["finance_hierarchy"] = finance
		}
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payload))
}
