package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/queue"
	"github.com/iliyamo/formation-enrollment/internal/repository"
	"github.com/iliyamo/formation-enrollment/internal/service"
)

// EnrollmentHandler exposes the enrollment transaction and the read-side
// endpoints for a user's own enrollments.
type EnrollmentHandler struct {
	Svc         *service.EnrollmentService
	Enrollments *repository.EnrollmentRepo
}

func NewEnrollmentHandler(svc *service.EnrollmentService, enrollments *repository.EnrollmentRepo) *EnrollmentHandler {
	return &EnrollmentHandler{Svc: svc, Enrollments: enrollments}
}

type enrollRequest struct {
	FormationID string `json:"formationId"`
}

// Enroll runs the enrollment transaction.  This route is deliberately
// not wrapped in the JWT middleware: the service verifies the credential
// itself so each identity failure maps to its own error kind, and this
// handler is the single place where kinds become HTTP statuses.
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	raw := bearerToken(c)

	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	enrollment, msg, err := h.Svc.Enroll(c.Request().Context(), raw, req.FormationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
		case errors.Is(err, service.ErrInvalidCredential):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid or expired token"})
		case errors.Is(err, service.ErrIdentityIncomplete):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "token does not identify a user"})
		case errors.Is(err, service.ErrMissingFormationID):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "formationId is required"})
		case errors.Is(err, service.ErrInvalidFormationID):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "formationId is invalid"})
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case errors.Is(err, service.ErrAlreadyEnrolled):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "you are already enrolled in this formation"})
		case errors.Is(err, service.ErrFormationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "formation not found"})
		case errors.Is(err, service.ErrNoSeatsAvailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "no seats available for this formation"})
		case errors.Is(err, service.ErrValidation):
			// a malformed snapshot is a server bug, not a client error
			log.Printf("enroll: snapshot validation failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "enrollment failed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "enrollment failed"})
		}
	}

	// Best-effort event; the enrollment is already persisted.
	_ = queue.PublishEnrollmentConfirmed(context.Background(), queue.EnrollmentConfirmedEvent{
		EnrollmentID:      enrollment.ID,
		UserID:            enrollment.UserID,
		UserEmail:         enrollment.UserEmail,
		FormationID:       enrollment.FormationID,
		FormationTitle:    enrollment.FormationTitle,
		FormationDate:     enrollment.FormationDate,
		FormationLocation: enrollment.FormationLocation,
		SeatsLeft:         enrollment.FormationSeats - 1,
		EnrolledAt:        enrollment.EnrolledAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    msg,
		"enrollment": enrollment,
	})
}

// MyEnrollments lists the authenticated user's enrollments, newest first.
func (h *EnrollmentHandler) MyEnrollments(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
	}
	items, err := h.Enrollments.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load enrollments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"enrollments": items})
}

// GetEnrollment returns one enrollment owned by the authenticated user.
func (h *EnrollmentHandler) GetEnrollment(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid enrollment id"})
	}
	e, err := h.Enrollments.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "enrollment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load enrollment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"enrollment": e})
}

// bearerToken returns the raw token from the Authorization header, or ""
// when the header is absent or not a Bearer scheme.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
