package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"dealership/internal/errors"
	"dealership/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response. On failure only Message is set.
type LoginResponse struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	Message  string `json:"message"`
}

// Login godoc
// @Summary Authenticate and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if err == errors.ErrInvalidCredentials {
			// no token on failure, and the same message for unknown user
			// and wrong password
			return c.JSON(http.StatusBadRequest, LoginResponse{
				Message: "Invalid username or password",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to login",
			Code:  "LOGIN_FAILED",
		})
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token:    result.Token,
		Username: result.Username,
		Role:     result.Role,
		Message:  "Login successful",
	})
}

// Logout godoc
// @Summary Log out
// @Description Tokens are stateless; logout is a client-side action.
// @Tags auth
// @Produce plain
// @Success 200 {string} string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.String(http.StatusOK, "Logged out successfully")
}

// Validate godoc
// @Summary Check whether a bearer token is currently valid
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {boolean} boolean
// @Router /auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.JSON(http.StatusOK, false)
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return c.JSON(http.StatusOK, h.authService.ValidateToken(token))
}
