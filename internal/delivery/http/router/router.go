// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"erpcore/internal/delivery/http/middleware"
	"erpcore/internal/delivery/http/router/handler"
	"erpcore/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	CompanyHandler *handler.CompanyHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	companyHandler *handler.CompanyHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		companyHandler: params.CompanyHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Session endpoints. Signup only works while the system is empty;
	// logout is authenticated by the refresh token it carries.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	// User management. Tenant scoping happens inside the usecases; the
	// permission guards here reject early with a clean 403.
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.POST("", r.userHandler.Create, r.authMiddleware.RequirePermission(entity.PermCreateUsers))
		userGroup.GET("", r.userHandler.List, r.authMiddleware.RequirePermission(entity.PermViewUsers))
		userGroup.GET("/:id", r.userHandler.Get)
		userGroup.PATCH("/:id", r.userHandler.Update, r.authMiddleware.RequirePermission(entity.PermEditUsers))
		userGroup.DELETE("/:id", r.userHandler.Delete, r.authMiddleware.RequirePermission(entity.PermDeleteUsers))
		userGroup.POST("/me/password", r.userHandler.ChangePassword)
	}

	// Company management is system admin territory apart from reading
	// one's own company.
	companyGroup := e.Group("/companies")
	companyGroup.Use(r.authMiddleware.Authenticate)
	{
		companyGroup.POST("", r.companyHandler.Create, r.authMiddleware.RequirePermission(entity.PermCreateCompanies))
		companyGroup.GET("", r.companyHandler.List, r.authMiddleware.RequirePermission(entity.PermViewCompanies))
		companyGroup.GET("/:id", r.companyHandler.Get)
		companyGroup.PATCH("/:id", r.companyHandler.Update, r.authMiddleware.RequirePermission(entity.PermEditCompanies))
		companyGroup.DELETE("/:id", r.companyHandler.Delete, r.authMiddleware.RequirePermission(entity.PermDeleteCompanies))
	}
}
