package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/middleware"
	"github.com/iliyamo/formation-enrollment/internal/model"
)

func registerEnrollmentRoutes(v1 *echo.Group, d Deps) {
	// The enroll route carries no JWT middleware; the enrollment
	// transaction verifies the credential itself.
	v1.POST("/enrollments", d.Enrollments.Enroll)

	authed := []echo.MiddlewareFunc{jwtAuth(d), middleware.RequireRole(model.RoleUser, model.RoleAdmin)}
	v1.GET("/my-enrollments", d.Enrollments.MyEnrollments, authed...)
	v1.GET("/enrollments/:id", d.Enrollments.GetEnrollment, authed...)
}
