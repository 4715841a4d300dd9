package middleware

import (
	"errors"
	"log/slog"
	"strings"

	deliverycontext "erpcore/internal/delivery/context"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// keyAuthContext is the echo.Context key under which the resolved
// authentication context is stored.
const keyAuthContext = "auth_context"

// AuthMiddleware authenticates bearer tokens and guards routes by permission.
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate validates the Authorization header and resolves the live user,
// their permissions and tenant scope. The claims inside the token are only a
// pointer; the effective state always comes from storage.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.NewInvalidTokenError("authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.NewInvalidTokenError("authorization header must be a bearer token")
		}

		authCtx, err := m.authUsecase.ResolveAccessToken(c.Request().Context(), tokenString)
		if err != nil {
			// A bearer route never reveals whether the account behind a
			// token is missing or deactivated. Both collapse to 401.
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				return domainerrors.NewInvalidTokenError("user no longer exists")
			}
			if errors.Is(err, domainerrors.ErrAccountDeactivated) {
				return domainerrors.NewInvalidTokenError("account is deactivated")
			}

			return err
		}

		c.Set(keyAuthContext, authCtx)

		// Enrich the request-scoped logger so downstream log lines carry
		// the caller's identity.
		ctx := c.Request().Context()
		if reqLogger := deliverycontext.GetLogger(ctx); reqLogger != nil {
			ctx = deliverycontext.WithLogger(ctx, reqLogger.With(slog.String("user_id", authCtx.User.ID.String())))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequirePermission is a middleware factory that rejects callers lacking the
// given permission. It must run after Authenticate.
func (m *AuthMiddleware) RequirePermission(perm entity.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authCtx, ok := GetAuthContext(c)
			if !ok {
				return domainerrors.NewInvalidTokenError("authentication required")
			}
			if !authCtx.Authorizer.HasPermission(perm) {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}

// GetAuthContext returns the authentication context stored by Authenticate.
func GetAuthContext(c echo.Context) (*usecase.AuthContext, bool) {
	authCtx, ok := c.Get(keyAuthContext).(*usecase.AuthContext)

	return authCtx, ok
}
