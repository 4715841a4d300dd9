package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"erpcore/internal/delivery/http/middleware"
	"erpcore/internal/delivery/http/response"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/usecase"
)

// AuthHandler holds dependencies for session and identity endpoints.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

type signupRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Name        string `json:"name" validate:"required"`
}

// Signup handles the bootstrap registration request. Only the very first
// account may self-register; it becomes the system admin.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid signup payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUsecase.Signup(c.Request().Context(), usecase.SignupInput{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Name:        req.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newAuthView(output))
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid login payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUsecase.Login(c.Request().Context(), usecase.LoginInput{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAuthView(output))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles the token rotation request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid refresh payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := h.authUsecase.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTokenPairView(tokens))
}

// Logout revokes the caller's session. It answers 200 no matter what:
// a malformed, expired or already revoked token leaves the caller logged
// out either way.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		h.authUsecase.Logout(c.Request().Context(), req.RefreshToken)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated caller's profile together with their effective
// permissions, resolved fresh from storage.
func (h *AuthHandler) Me(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	view := struct {
		User        UserView `json:"user"`
		Permissions []string `json:"permissions"`
	}{
		User: newUserView(authCtx.User),
	}
	for _, perm := range authCtx.Authorizer.Permissions() {
		view.Permissions = append(view.Permissions, perm.String())
	}

	return response.Success(c, http.StatusOK, view)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
