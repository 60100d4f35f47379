package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/formation-enrollment/internal/model"
)

func validCreateRequest() createFormationRequest {
	return createFormationRequest{
		Title:       "Go Fundamentals",
		Description: "Three days of Go",
		Date:        "12-14 March 2026",
		Location:    "Lyon",
		Duration:    "3 days",
		Instructor:  "A. Martin",
		Price:       "1200 EUR",
		Seats:       12,
		Level:       model.LevelBeginner,
	}
}

func TestValidateCreateFormation(t *testing.T) {
	require.Empty(t, validateCreateFormation(validCreateRequest()))

	req := validCreateRequest()
	req.Title = "  "
	req.Level = "expert"
	errs := validateCreateFormation(req)
	require.Contains(t, errs, "title is required")
	require.Contains(t, errs, "level must be one of Beginner, Intermediate, Advanced")
}

func TestValidateCreateFormationRejectsZeroSeats(t *testing.T) {
	req := validCreateRequest()
	req.Seats = 0
	require.Contains(t, validateCreateFormation(req), "seats must be at least 1")

	req.Seats = -3
	require.Contains(t, validateCreateFormation(req), "seats must be at least 1")

	req.Seats = 1
	require.Empty(t, validateCreateFormation(req))
}

func TestCreateFormationRejectsInvalidBody(t *testing.T) {
	// validation failures never reach the repository
	h := NewFormationHandler(nil)

	e := echo.New()
	body := `{"title":"Go Fundamentals","seats":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/formations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "seats must be at least 1")
	require.Contains(t, rec.Body.String(), "description is required")
}
