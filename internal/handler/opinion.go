package handler

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/model"
	"github.com/iliyamo/formation-enrollment/internal/repository"
)

// OpinionHandler accepts contact-form submissions and lets admins read
// them back.
type OpinionHandler struct {
	Opinions *repository.OpinionRepo
}

func NewOpinionHandler(opinions *repository.OpinionRepo) *OpinionHandler {
	return &OpinionHandler{Opinions: opinions}
}

type opinionRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Create stores a contact-form submission.  The endpoint is public.
func (h *OpinionHandler) Create(c echo.Context) error {
	var req opinionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Subject == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name, subject and message are required"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "a valid email is required"})
	}

	o := &model.Opinion{
		Name:    req.Name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.Opinions.Create(c.Request().Context(), o); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not save your message"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "thank you for your feedback", "opinion": o})
}

// ListAll returns every submission, newest first.  ADMIN only.
func (h *OpinionHandler) ListAll(c echo.Context) error {
	items, err := h.Opinions.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load opinions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"opinions": items})
}
