package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/formation-enrollment/internal/model"
	"github.com/iliyamo/formation-enrollment/internal/repository"
	"github.com/iliyamo/formation-enrollment/internal/service"
)

type stubUsers struct{ user model.User }

func (s *stubUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if id != s.user.ID {
		return model.User{}, sql.ErrNoRows
	}
	return s.user, nil
}

type stubFormations struct{ formation *model.Formation }

func (s *stubFormations) FindByID(_ context.Context, id uint64) (*model.Formation, error) {
	if s.formation == nil || s.formation.ID != id {
		return nil, repository.ErrFormationNotFound
	}
	cp := *s.formation
	return &cp, nil
}

func (s *stubFormations) ReserveSeat(_ context.Context, id uint64) (*model.Formation, error) {
	if s.formation == nil || s.formation.ID != id || s.formation.Seats <= 0 {
		return nil, repository.ErrNoSeatsAvailable
	}
	s.formation.Seats--
	cp := *s.formation
	return &cp, nil
}

type stubEnrollments struct {
	enrolled  bool
	createErr error
}

func (s *stubEnrollments) Exists(_ context.Context, _, _ uint64) (bool, error) {
	return s.enrolled, nil
}

func (s *stubEnrollments) Create(_ context.Context, e *model.Enrollment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.enrolled = true
	e.ID = 41
	return nil
}

func newEnrollFixture(seats int) *EnrollmentHandler {
	return newEnrollFixtureWithStore(seats, &stubEnrollments{})
}

func newEnrollFixtureWithStore(seats int, enrollments *stubEnrollments) *EnrollmentHandler {
	svc := service.NewEnrollmentService(
		service.VerifierFunc(func(raw string) (uint64, error) {
			if raw == "good-token" {
				return 3, nil
			}
			return 0, service.ErrInvalidCredential
		}),
		&stubUsers{user: model.User{ID: 3, Name: "Nora", Email: "nora@example.com", Role: model.RoleUser}},
		&stubFormations{formation: &model.Formation{
			ID: 7, Title: "Go Fundamentals", Description: "Three days of Go",
			Date: "12-14 March 2026", Location: "Lyon", Duration: "3 days",
			Instructor: "A. Martin", Price: "1200 EUR", Seats: seats,
			Level: model.LevelBeginner,
		}},
		enrollments,
	)
	return NewEnrollmentHandler(svc, nil)
}

func postEnroll(h *EnrollmentHandler, token, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/enrollments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	_ = h.Enroll(e.NewContext(req, rec))
	return rec
}

func TestEnrollHandlerSuccess(t *testing.T) {
	h := newEnrollFixture(12)
	rec := postEnroll(h, "good-token", `{"formationId":"7"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message    string           `json:"message"`
		Enrollment model.Enrollment `json:"enrollment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, `You have been enrolled in the formation "Go Fundamentals".`, resp.Message)
	require.Equal(t, uint64(41), resp.Enrollment.ID)
	require.Equal(t, "Go Fundamentals", resp.Enrollment.FormationTitle)
	require.Equal(t, 12, resp.Enrollment.FormationSeats)
}

func TestEnrollHandlerWithoutToken(t *testing.T) {
	h := newEnrollFixture(12)
	rec := postEnroll(h, "", `{"formationId":"7"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "authentication required")
}

func TestEnrollHandlerBadToken(t *testing.T) {
	h := newEnrollFixture(12)
	rec := postEnroll(h, "expired", `{"formationId":"7"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestEnrollHandlerMissingFormationID(t *testing.T) {
	h := newEnrollFixture(12)
	rec := postEnroll(h, "good-token", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "formationId is required")
}

func TestEnrollHandlerUnknownFormation(t *testing.T) {
	h := newEnrollFixture(12)
	rec := postEnroll(h, "good-token", `{"formationId":"999"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "formation not found")
}

func TestEnrollHandlerSoldOut(t *testing.T) {
	h := newEnrollFixture(0)
	rec := postEnroll(h, "good-token", `{"formationId":"7"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "no seats available")
}

func TestEnrollHandlerSnapshotBugIsServerError(t *testing.T) {
	// a snapshot that fails store validation is a server bug; the client
	// gets a generic 500, never the internal detail
	h := newEnrollFixtureWithStore(12, &stubEnrollments{createErr: repository.ErrInvalidEnrollment})
	rec := postEnroll(h, "good-token", `{"formationId":"7"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "enrollment failed")
	require.NotContains(t, rec.Body.String(), "validation")
}

func TestEnrollHandlerDuplicate(t *testing.T) {
	h := newEnrollFixture(12)
	first := postEnroll(h, "good-token", `{"formationId":"7"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postEnroll(h, "good-token", `{"formationId":"7"}`)
	require.Equal(t, http.StatusBadRequest, second.Code)
	require.Contains(t, second.Body.String(), "already enrolled")
}
