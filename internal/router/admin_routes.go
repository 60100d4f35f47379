package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/middleware"
	"github.com/iliyamo/formation-enrollment/internal/model"
)

func registerAdminRoutes(v1 *echo.Group, d Deps) {
	admin := []echo.MiddlewareFunc{jwtAuth(d), middleware.RequireRole(model.RoleAdmin)}
	v1.POST("/formations", d.Formations.Create, admin...)
	v1.GET("/opinions", d.Opinions.ListAll, admin...)
}
