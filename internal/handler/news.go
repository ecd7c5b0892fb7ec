package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
	"github.com/arenahub/arena-backend/internal/service"
)

// NewsHandler exposes news article CRUD.
type NewsHandler struct {
	News *service.NewsService
}

func NewNewsHandler(news *service.NewsService) *NewsHandler {
	return &NewsHandler{News: news}
}

type newsSectionReq struct {
	Content string `json:"content"`
	URL     string `json:"url"`
}
type createNewsReq struct {
	Title    string           `json:"title"`
	SubTitle string           `json:"sub_title"`
	Sequence int              `json:"sequence"`
	Sections []newsSectionReq `json:"sections"`
}
type updateNewsReq struct {
	Title    *string           `json:"title"`
	SubTitle *string           `json:"sub_title"`
	Sequence *int              `json:"sequence"`
	Status   *bool             `json:"status"`
	Sections *[]newsSectionReq `json:"sections"`
}

func toNewsDetails(sections []newsSectionReq) []model.NewsDetail {
	out := make([]model.NewsDetail, 0, len(sections))
	for _, s := range sections {
		out = append(out, model.NewsDetail{Content: s.Content, URL: s.URL})
	}
	return out
}

// Create handles POST /v1/news.
func (h *NewsHandler) Create(c echo.Context) error {
	authorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createNewsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	item, err := h.News.Create(ctx, authorID, req.Title, req.SubTitle, req.Sequence, toNewsDetails(req.Sections))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// List handles GET /v1/news?include_inactive=true|false.
func (h *NewsHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	articles, err := h.News.List(ctx, c.QueryParam("include_inactive") == "true")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, articles)
}

// Get handles GET /v1/news/:id.
func (h *NewsHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	item, err := h.News.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Update handles PATCH /v1/news/:id. Supplied sections replace the
// article's section set.
func (h *NewsHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateNewsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := repository.NewsPatch{
		Title:    req.Title,
		SubTitle: req.SubTitle,
		Sequence: req.Sequence,
		Status:   req.Status,
	}
	if req.Sections != nil {
		patch.Details = toNewsDetails(*req.Sections)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	item, err := h.News.Update(ctx, id, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /v1/news/:id (soft delete).
func (h *NewsHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.News.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
