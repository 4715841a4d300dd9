package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"erpcore/internal/delivery/http/middleware"
	"erpcore/internal/delivery/http/response"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/usecase"
)

// UserHandler holds dependencies for user management endpoints.
type UserHandler struct {
	userUsecase usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

type createUserRequest struct {
	PhoneNumber string     `json:"phone_number" validate:"required"`
	Password    string     `json:"password" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"omitempty,email"`
	CompanyID   *uuid.UUID `json:"company_id"`
	Role        string     `json:"role" validate:"required"`
}

// Create handles the admin user creation request.
func (h *UserHandler) Create(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid user payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.userUsecase.CreateUser(c.Request().Context(), authCtx, usecase.CreateUserInput{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Name:        req.Name,
		Email:       req.Email,
		CompanyID:   req.CompanyID,
		Role:        entity.Role(req.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newUserView(created))
}

// Get loads one user within the caller's tenant visibility.
func (h *UserHandler) Get(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid user id")
	}

	user, err := h.userUsecase.GetUser(c.Request().Context(), authCtx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user))
}

// List returns a page of users visible to the caller.
func (h *UserHandler) List(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	output, err := h.userUsecase.ListUsers(c.Request().Context(), authCtx, usecase.ListUsersInput{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	view := ListView[UserView]{Items: make([]UserView, 0, len(output.Users)), Total: output.Total}
	for _, user := range output.Users {
		view.Items = append(view.Items, newUserView(user))
	}

	return response.Success(c, http.StatusOK, view)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Update modifies a user's profile, role or active flag.
func (h *UserHandler) Update(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid user id")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid user payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := usecase.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		input.Role = &role
	}

	updated, err := h.userUsecase.UpdateUser(c.Request().Context(), authCtx, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(updated))
}

// Delete removes a user and all of their sessions.
func (h *UserHandler) Delete(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid user id")
	}

	if err := h.userUsecase.DeleteUser(c.Request().Context(), authCtx, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "user deleted"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ChangePassword rotates the caller's own password and ends all their sessions.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid password payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.userUsecase.ChangePassword(c.Request().Context(), authCtx, usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "password changed"})
}
