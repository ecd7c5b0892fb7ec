package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
	"github.com/arenahub/arena-backend/internal/service"
)

// EventHandler exposes event CRUD.
type EventHandler struct {
	Events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{Events: events}
}

type createEventReq struct {
	Title            string  `json:"title"`
	Date             *string `json:"date"`
	Location         string  `json:"location"`
	LocationURL      string  `json:"location_url"`
	RegistrationDate *string `json:"registration_date"`
	Timeline         string  `json:"timeline"`
	Category         string  `json:"category"`
	Level            string  `json:"level"`
	RegistrationFee  string  `json:"registration_fee"`
	Notes            string  `json:"notes"`
	URL              string  `json:"url"`
}

type updateEventReq struct {
	Title            *string `json:"title"`
	Date             *string `json:"date"`
	Location         *string `json:"location"`
	LocationURL      *string `json:"location_url"`
	RegistrationDate *string `json:"registration_date"`
	Timeline         *string `json:"timeline"`
	Category         *string `json:"category"`
	Level            *string `json:"level"`
	RegistrationFee  *string `json:"registration_fee"`
	Notes            *string `json:"notes"`
	URL              *string `json:"url"`
}

func parseEventDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	regDate, err := parseEventDate(req.RegistrationDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration_date must be YYYY-MM-DD"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	item, err := h.Events.Create(ctx,
		ownerID,
		model.Event{Title: req.Title, Date: date},
		model.EventDetail{
			Location:         req.Location,
			LocationURL:      req.LocationURL,
			RegistrationDate: regDate,
			Timeline:         req.Timeline,
			Category:         req.Category,
			Level:            req.Level,
			RegistrationFee:  req.RegistrationFee,
		},
		model.EventFooter{Notes: req.Notes, URL: req.URL})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// List handles GET /v1/events?page=&page_size=&search=.
func (h *EventHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := requestCtx(c)
	defer cancel()

	out, err := h.Events.List(ctx, page, pageSize, c.QueryParam("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	item, err := h.Events.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Update handles PATCH /v1/events/:id. Absent fields keep their value.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	regDate, err := parseEventDate(req.RegistrationDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration_date must be YYYY-MM-DD"})
	}
	patch := repository.EventPatch{
		Title:            req.Title,
		Date:             date,
		Location:         req.Location,
		LocationURL:      req.LocationURL,
		RegistrationDate: regDate,
		Timeline:         req.Timeline,
		Category:         req.Category,
		Level:            req.Level,
		RegistrationFee:  req.RegistrationFee,
		Notes:            req.Notes,
		URL:              req.URL,
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	item, err := h.Events.Update(ctx, id, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /v1/events/:id (soft delete).
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
