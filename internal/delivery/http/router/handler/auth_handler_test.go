package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpcore/internal/delivery/http/middleware"
	"erpcore/internal/delivery/http/validator"
	"erpcore/internal/domain/authz"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/usecase"
)

// stubAuthUsecase returns canned results so handler behavior can be tested
// without the service stack.
type stubAuthUsecase struct {
	loginOut   *usecase.LoginOutput
	loginErr   error
	refreshOut *usecase.TokenPairOutput
	refreshErr error
	resolveOut *usecase.AuthContext
	resolveErr error
	loggedOut  []string
}

func (s *stubAuthUsecase) Signup(context.Context, usecase.SignupInput) (*usecase.LoginOutput, error) {
	return s.loginOut, s.loginErr
}

func (s *stubAuthUsecase) Login(context.Context, usecase.LoginInput) (*usecase.LoginOutput, error) {
	return s.loginOut, s.loginErr
}

func (s *stubAuthUsecase) Refresh(context.Context, string) (*usecase.TokenPairOutput, error) {
	return s.refreshOut, s.refreshErr
}

func (s *stubAuthUsecase) Logout(_ context.Context, refreshToken string) {
	s.loggedOut = append(s.loggedOut, refreshToken)
}

func (s *stubAuthUsecase) ResolveAccessToken(context.Context, string) (*usecase.AuthContext, error) {
	return s.resolveOut, s.resolveErr
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login(t *testing.T) {
	user := &entity.User{Name: "Founder", PhoneNumber: "0911111111", Role: entity.RoleSystemAdmin, IsActive: true}
	stub := &stubAuthUsecase{
		loginOut: &usecase.LoginOutput{
			User: user,
			Tokens: &usecase.TokenPairOutput{
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
				TokenType:    "bearer",
				ExpiresIn:    900,
			},
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"phone_number":"0911111111","password":"S3curePass"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"access_token":"access-1"`)
	assert.Contains(t, body, `"token_type":"bearer"`)
	// The password hash never shows up in responses.
	assert.NotContains(t, body, "password")
}

func TestAuthHandler_LoginMissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthUsecase{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"phone_number":"0911111111"}`)
	err := h.Login(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestAuthHandler_LogoutAlwaysSucceeds(t *testing.T) {
	stub := &stubAuthUsecase{}
	h := NewAuthHandler(stub)

	// Valid payload revokes and answers 200.
	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", `{"refresh_token":"refresh-1"}`)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"refresh-1"}, stub.loggedOut)

	// Garbage payload still answers 200.
	c, rec = newTestContext(t, http.MethodPost, "/auth/logout", `not json`)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_MeThroughAuthMiddleware(t *testing.T) {
	user := &entity.User{Name: "Admin", PhoneNumber: "0911111111", Role: entity.RoleSystemAdmin, IsActive: true}
	companyCtx, err := authz.NewCompanyContext(user)
	require.NoError(t, err)

	stub := &stubAuthUsecase{
		resolveOut: &usecase.AuthContext{
			User:           user,
			Authorizer:     authz.NewAuthorizer(user, nil),
			CompanyContext: companyCtx,
		},
	}
	h := NewAuthHandler(stub)
	authMiddleware := middleware.NewAuthMiddleware(stub)

	c, rec := newTestContext(t, http.MethodGet, "/auth/me", "")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer access-1")
	require.NoError(t, authMiddleware.Authenticate(h.Me)(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			User        UserView `json:"user"`
			Permissions []string `json:"permissions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Admin", envelope.Data.User.Name)
	assert.Contains(t, envelope.Data.Permissions, entity.PermEditSystemSettings.String())
}

func TestAuthMiddleware_HidesAccountStateBehindUnauthorized(t *testing.T) {
	// A token for a vanished or deactivated account answers 401, never a
	// status that confirms the account's existence or state.
	for name, resolveErr := range map[string]error{
		"user gone":   domainerrors.ErrUserNotFound,
		"deactivated": domainerrors.ErrAccountDeactivated,
	} {
		t.Run(name, func(t *testing.T) {
			authMiddleware := middleware.NewAuthMiddleware(&stubAuthUsecase{resolveErr: resolveErr})
			next := func(c echo.Context) error { return nil }

			c, _ := newTestContext(t, http.MethodGet, "/auth/me", "")
			c.Request().Header.Set(echo.HeaderAuthorization, "Bearer access-1")
			err := authMiddleware.Authenticate(next)(c)
			require.Error(t, err)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "INVALID_TOKEN", appErr.ErrorCode())
			assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
		})
	}
}

func TestAuthMiddleware_RejectsMissingBearer(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(&stubAuthUsecase{})
	next := func(c echo.Context) error { return nil }

	c, _ := newTestContext(t, http.MethodGet, "/auth/me", "")
	err := authMiddleware.Authenticate(next)(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_TOKEN", appErr.ErrorCode())
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
}
