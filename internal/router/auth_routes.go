package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/middleware"
	"github.com/iliyamo/formation-enrollment/internal/model"
)

func registerAuthRoutes(v1 *echo.Group, d Deps) {
	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, jwtAuth(d), middleware.RequireRole(model.RoleUser, model.RoleAdmin))
}
