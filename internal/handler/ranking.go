package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arenahub/arena-backend/internal/repository"
	"github.com/arenahub/arena-backend/internal/service"
)

// RankingHandler exposes the player leaderboard and the match-history
// ledger behind it.
type RankingHandler struct {
	Ranking *service.RankingService
}

func NewRankingHandler(ranking *service.RankingService) *RankingHandler {
	return &RankingHandler{Ranking: ranking}
}

// ----- DTOs -----

type createPlayerReq struct {
	Name          string `json:"name"`
	Region        string `json:"region"`
	InitialPoints int64  `json:"initial_points"`
	PhotoBase64   string `json:"photo"`
	Gender        string `json:"gender"`
	Nationality   string `json:"nationality"`
	BirthPlace    string `json:"birth_place"`
	BirthDate     string `json:"birth_date"`
}

type updatePlayerReq struct {
	Name        *string `json:"name"`
	Region      *string `json:"region"`
	Points      *int64  `json:"points"`
	PhotoBase64 *string `json:"photo"`
	Gender      *string `json:"gender"`
	Nationality *string `json:"nationality"`
	BirthPlace  *string `json:"birth_place"`
	BirthDate   *string `json:"birth_date"`
}

type matchReq struct {
	PlayerID uint64  `json:"player_id"`
	Title    string  `json:"title"`
	Date     *string `json:"date"` // ISO date, optional
	Level    string  `json:"level"`
	Result   string  `json:"result"`
	Points   *int64  `json:"points"`
}

type updateMatchReq struct {
	Title  *string `json:"title"`
	Date   *string `json:"date"`
	Level  *string `json:"level"`
	Result *string `json:"result"`
	Points *int64  `json:"points"`
}

func parseMatchDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// CreatePlayer handles POST /v1/players.
func (h *RankingHandler) CreatePlayer(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPlayerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	var photo []byte
	if req.PhotoBase64 != "" {
		photo, err = base64.StdEncoding.DecodeString(req.PhotoBase64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo encoding"})
		}
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	player, err := h.Ranking.AddPlayer(ctx, ownerID, service.NewPlayer{
		Name:          req.Name,
		Region:        req.Region,
		InitialPoints: req.InitialPoints,
		Photo:         photo,
		Gender:        req.Gender,
		Nationality:   req.Nationality,
		BirthPlace:    req.BirthPlace,
		BirthDate:     req.BirthDate,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":     player.ID,
		"name":   player.Name,
		"region": player.Region,
		"points": player.Points,
	})
}

// ListPlayers handles GET /v1/players?page=&page_size=&search=.
func (h *RankingHandler) ListPlayers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := requestCtx(c)
	defer cancel()

	result, err := h.Ranking.GetPlayersList(ctx, page, pageSize, c.QueryParam("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetPlayer handles GET /v1/players/:id.
func (h *RankingHandler) GetPlayer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.Ranking.GetPlayerDetail(ctx, id)
	if err != nil {
		return fail(c, err)
	}

	matches := make([]echo.Map, 0, len(profile.Matches))
	for _, m := range profile.Matches {
		entry := echo.Map{
			"id":     m.ID,
			"title":  m.Title,
			"level":  m.Level,
			"result": m.Result,
			"points": m.Points,
		}
		if m.MatchDate != nil {
			entry["date"] = m.MatchDate.Format("2006-01-02")
		}
		matches = append(matches, entry)
	}

	resp := echo.Map{
		"id":      profile.Player.ID,
		"name":    profile.Player.Name,
		"region":  profile.Player.Region,
		"points":  profile.Player.Points,
		"rank":    profile.Rank,
		"matches": matches,
	}
	if profile.Detail.PlayerID != 0 {
		resp["gender"] = profile.Detail.Gender
		resp["nationality"] = profile.Detail.Nationality
		resp["birth_place"] = profile.Detail.BirthPlace
		resp["birth_date"] = profile.Detail.BirthDate
		if len(profile.Detail.Photo) > 0 {
			resp["photo"] = base64.StdEncoding.EncodeToString(profile.Detail.Photo)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdatePlayer handles PATCH /v1/players/:id. Only supplied fields change;
// a supplied points value overwrites the ledger total directly.
func (h *RankingHandler) UpdatePlayer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updatePlayerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	patch := repository.PlayerPatch{
		Name:        req.Name,
		Region:      req.Region,
		Points:      req.Points,
		Gender:      req.Gender,
		Nationality: req.Nationality,
		BirthPlace:  req.BirthPlace,
		BirthDate:   req.BirthDate,
	}
	if req.PhotoBase64 != nil {
		photo, err := base64.StdEncoding.DecodeString(*req.PhotoBase64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo encoding"})
		}
		patch.Photo = photo
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	player, err := h.Ranking.UpdatePlayer(ctx, id, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":     player.ID,
		"name":   player.Name,
		"region": player.Region,
		"points": player.Points,
	})
}

// DeletePlayer handles DELETE /v1/players/:id (soft delete).
func (h *RankingHandler) DeletePlayer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Ranking.DeletePlayer(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddMatch handles POST /v1/matches: it records the match and moves the
// player's total in one transaction, returning before/after totals.
func (h *RankingHandler) AddMatch(c echo.Context) error {
	var req matchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PlayerID == 0 || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "player_id and title required"})
	}
	in := service.NewMatch{
		PlayerID: req.PlayerID,
		Title:    req.Title,
		Level:    req.Level,
		Result:   req.Result,
		Points:   req.Points,
	}
	if req.Date != nil && *req.Date != "" {
		d, err := parseMatchDate(*req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
		in.Date = &d
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	adj, err := h.Ranking.AddMatchHistory(ctx, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, adj)
}

// UpdateMatch handles PATCH /v1/matches/:id with sparse-patch semantics.
func (h *RankingHandler) UpdateMatch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateMatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := repository.MatchPatch{
		Title:  req.Title,
		Level:  req.Level,
		Result: req.Result,
		Points: req.Points,
	}
	if req.Date != nil && *req.Date != "" {
		d, err := parseMatchDate(*req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
		patch.MatchDate = &d
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	adj, err := h.Ranking.UpdateMatchHistory(ctx, id, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, adj)
}

// DeleteMatch handles DELETE /v1/matches/:id: the match is soft-deleted
// and its points subtracted from the player in one transaction.
func (h *RankingHandler) DeleteMatch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	adj, err := h.Ranking.DeleteMatchHistory(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, adj)
}
