// Package router wires handlers to routes and applies the per-group
// middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/config"
	"github.com/iliyamo/formation-enrollment/internal/handler"
	"github.com/iliyamo/formation-enrollment/internal/middleware"
)

// Deps carries everything the route tables need.
type Deps struct {
	Cfg         config.Config
	Auth        *handler.AuthHandler
	Formations  *handler.FormationHandler
	Enrollments *handler.EnrollmentHandler
	Opinions    *handler.OpinionHandler
	CatalogMW   []echo.MiddlewareFunc // response cache for catalog reads
}

// Register mounts all routes on the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	// public catalog, cached
	v1.GET("/formations", d.Formations.List, d.CatalogMW...)
	v1.GET("/formations/:id", d.Formations.GetByID, d.CatalogMW...)

	// public contact form
	v1.POST("/opinions", d.Opinions.Create)

	registerAuthRoutes(v1, d)
	registerEnrollmentRoutes(v1, d)
	registerAdminRoutes(v1, d)
}

func jwtAuth(d Deps) echo.MiddlewareFunc {
	return middleware.JWTAuth(d.Cfg.JWTSecret)
}
