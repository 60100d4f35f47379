package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/model"
	"github.com/iliyamo/formation-enrollment/internal/repository"
)

// FormationHandler serves the public formation catalog and the admin
// creation endpoint.
type FormationHandler struct {
	Formations *repository.FormationRepo
}

func NewFormationHandler(formations *repository.FormationRepo) *FormationHandler {
	return &FormationHandler{Formations: formations}
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// List returns a filtered, paginated page of the catalog.  Supported
// query parameters: level, location, search, limit, offset.
func (h *FormationHandler) List(c echo.Context) error {
	filter := repository.ListFilter{
		Level:    strings.TrimSpace(c.QueryParam("level")),
		Location: strings.TrimSpace(c.QueryParam("location")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Limit:    defaultListLimit,
	}
	if filter.Level != "" && !model.ValidLevel(filter.Level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown level"})
	}
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if s := c.QueryParam("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	items, total, err := h.Formations.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load formations"})
	}

	pages := 0
	if filter.Limit > 0 {
		pages = (total + filter.Limit - 1) / filter.Limit
	}
	return c.JSON(http.StatusOK, echo.Map{
		"formations": items,
		"pagination": echo.Map{
			"total":  total,
			"limit":  filter.Limit,
			"offset": filter.Offset,
			"pages":  pages,
		},
	})
}

// GetByID returns a single formation.
func (h *FormationHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid formation id"})
	}
	f, err := h.Formations.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFormationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "formation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load formation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"formation": f})
}

type createFormationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Duration    string `json:"duration"`
	Instructor  string `json:"instructor"`
	Price       string `json:"price"`
	Seats       int    `json:"seats"`
	Level       string `json:"level"`
	Image       string `json:"image"`
}

func validateCreateFormation(req createFormationRequest) []string {
	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		errs = append(errs, "location is required")
	}
	if strings.TrimSpace(req.Duration) == "" {
		errs = append(errs, "duration is required")
	}
	if strings.TrimSpace(req.Instructor) == "" {
		errs = append(errs, "instructor is required")
	}
	if strings.TrimSpace(req.Price) == "" {
		errs = append(errs, "price is required")
	}
	if req.Seats < 1 {
		errs = append(errs, "seats must be at least 1")
	}
	if !model.ValidLevel(req.Level) {
		errs = append(errs, "level must be one of Beginner, Intermediate, Advanced")
	}
	return errs
}

// Create adds a formation to the catalog.  ADMIN only; field errors are
// collected and returned together.
func (h *FormationHandler) Create(c echo.Context) error {
	var req createFormationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if errs := validateCreateFormation(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	f := &model.Formation{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Date:        strings.TrimSpace(req.Date),
		Location:    strings.TrimSpace(req.Location),
		Duration:    strings.TrimSpace(req.Duration),
		Instructor:  strings.TrimSpace(req.Instructor),
		Price:       strings.TrimSpace(req.Price),
		Seats:       req.Seats,
		Level:       req.Level,
		Image:       strings.TrimSpace(req.Image),
	}
	if err := h.Formations.Create(c.Request().Context(), f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create formation"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "formation created", "formation": f})
}
