package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"erpcore/internal/delivery/http/middleware"
	"erpcore/internal/delivery/http/response"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/usecase"
)

// CompanyHandler holds dependencies for company management endpoints.
type CompanyHandler struct {
	companyUsecase usecase.CompanyUsecase
}

// NewCompanyHandler is the constructor for CompanyHandler, injected by Fx.
func NewCompanyHandler(companyUsecase usecase.CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{companyUsecase: companyUsecase}
}

type createCompanyRequest struct {
	Name string `json:"name" validate:"required"`
}

// Create registers a new company.
func (h *CompanyHandler) Create(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	var req createCompanyRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid company payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.companyUsecase.CreateCompany(c.Request().Context(), authCtx, usecase.CreateCompanyInput{
		Name: req.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newCompanyView(created))
}

// Get loads one company within the caller's tenant visibility.
func (h *CompanyHandler) Get(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid company id")
	}

	company, err := h.companyUsecase.GetCompany(c.Request().Context(), authCtx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCompanyView(company))
}

// List returns a page of companies.
func (h *CompanyHandler) List(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	output, err := h.companyUsecase.ListCompanies(c.Request().Context(), authCtx, usecase.ListCompaniesInput{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	view := ListView[CompanyView]{Items: make([]CompanyView, 0, len(output.Companies)), Total: output.Total}
	for _, company := range output.Companies {
		view.Items = append(view.Items, newCompanyView(company))
	}

	return response.Success(c, http.StatusOK, view)
}

type updateCompanyRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// Update renames or (de)activates a company.
func (h *CompanyHandler) Update(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid company id")
	}

	var req updateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid company payload")
	}

	updated, err := h.companyUsecase.UpdateCompany(c.Request().Context(), authCtx, id, usecase.UpdateCompanyInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCompanyView(updated))
}

// Delete removes a company.
func (h *CompanyHandler) Delete(c echo.Context) error {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		return domainerrors.NewInvalidTokenError("authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid company id")
	}

	if err := h.companyUsecase.DeleteCompany(c.Request().Context(), authCtx, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "company deleted"})
}
