package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
)

// RankingService keeps each player's point total synchronized with the
// append/edit/delete history of their matches, and computes a dense
// population-relative rank. The total always equals the player's initial
// baseline plus the sum of live match deltas, except when an administrator
// overwrites it through UpdatePlayer.
//
// Deleting a player tombstones only the header row: its match history
// stays live so the ledger can be reconstructed if the player is restored.
type RankingService struct {
	players *repository.PlayerRepo
	matches *repository.MatchRepo
	logger  *zap.Logger
}

func NewRankingService(players *repository.PlayerRepo, matches *repository.MatchRepo, logger *zap.Logger) *RankingService {
	return &RankingService{players: players, matches: matches, logger: logger.Named("ranking")}
}

// NewPlayer is the input for AddPlayer. InitialPoints becomes the baseline
// of the ledger; it is not backed by a match row.
type NewPlayer struct {
	Name          string
	Region        string
	InitialPoints int64
	Photo         []byte
	Gender        string
	Nationality   string
	BirthPlace    string
	BirthDate     string
}

// PlayerPage is one page of the ranked player list.
type PlayerPage struct {
	Players    []repository.RankedPlayer `json:"players"`
	Total      int                       `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
}

// PlayerProfile is the full record returned by GetPlayerDetail.
type PlayerProfile struct {
	Player  model.Player
	Rank    int
	Detail  model.PlayerDetail
	Matches []model.MatchHistory
}

// AddPlayer registers a player with a baseline point total. Names are
// unique among non-deleted players regardless of case.
func (s *RankingService) AddPlayer(ctx context.Context, ownerID uint64, in NewPlayer) (model.Player, error) {
	exists, err := s.players.NameExists(ctx, in.Name, 0)
	if err != nil {
		return model.Player{}, err
	}
	if exists {
		s.logger.Warn("duplicate player name", zap.String("name", in.Name))
		return model.Player{}, model.ErrDuplicatePlayerName
	}

	p := model.Player{Name: in.Name, Region: in.Region, Points: in.InitialPoints, OwnerID: ownerID}
	d := model.PlayerDetail{
		Photo:       in.Photo,
		Gender:      in.Gender,
		Nationality: in.Nationality,
		BirthPlace:  in.BirthPlace,
		BirthDate:   in.BirthDate,
	}
	id, err := s.players.Create(ctx, &p, &d)
	if err != nil {
		return model.Player{}, err
	}
	p.ID = id
	s.logger.Info("player added", zap.Uint64("player_id", id), zap.String("name", p.Name))
	return p, nil
}

// GetPlayersList returns one page of the leaderboard. Rank is dense and
// computed against the whole non-deleted population, not the page.
func (s *RankingService) GetPlayersList(ctx context.Context, page, pageSize int, search string) (PlayerPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	players, total, err := s.players.List(ctx, page, pageSize, search)
	if err != nil {
		return PlayerPage{}, err
	}
	totalPages := (total + pageSize - 1) / pageSize
	return PlayerPage{
		Players:    players,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetPlayerDetail returns the full player record with rank and live match
// history, newest match first.
func (s *RankingService) GetPlayerDetail(ctx context.Context, playerID uint64) (PlayerProfile, error) {
	p, rank, d, matches, err := s.players.Detail(ctx, playerID)
	if err != nil {
		return PlayerProfile{}, err
	}
	return PlayerProfile{Player: p, Rank: rank, Detail: d, Matches: matches}, nil
}

// UpdatePlayer applies a sparse patch. A supplied point value overwrites
// the stored total directly, outside the ledger; use match operations for
// ledger-backed adjustments.
func (s *RankingService) UpdatePlayer(ctx context.Context, playerID uint64, patch repository.PlayerPatch) (model.Player, error) {
	if patch.Name != nil {
		exists, err := s.players.NameExists(ctx, *patch.Name, playerID)
		if err != nil {
			return model.Player{}, err
		}
		if exists {
			return model.Player{}, model.ErrDuplicatePlayerName
		}
	}
	if err := s.players.Update(ctx, playerID, patch); err != nil {
		return model.Player{}, err
	}
	if patch.Points != nil {
		s.logger.Info("player points overridden",
			zap.Uint64("player_id", playerID), zap.Int64("points", *patch.Points))
	}
	return s.players.GetByID(ctx, playerID)
}

// DeletePlayer soft-deletes the player header. Match rows are left live on
// purpose; see the type comment.
func (s *RankingService) DeletePlayer(ctx context.Context, playerID uint64) error {
	if err := s.players.SoftDelete(ctx, playerID); err != nil {
		return err
	}
	s.logger.Info("player deleted", zap.Uint64("player_id", playerID))
	return nil
}

// NewMatch is the input for AddMatchHistory.
type NewMatch struct {
	PlayerID uint64
	Title    string
	Date     *time.Time
	Level    string
	Result   string
	Points   *int64
}

// AddMatchHistory records a match and moves the player's total by its
// delta (possibly negative) in the same transaction. The returned
// adjustment reports the before/after totals.
func (s *RankingService) AddMatchHistory(ctx context.Context, in NewMatch) (repository.PointsAdjustment, error) {
	m := model.MatchHistory{
		PlayerID:  in.PlayerID,
		Title:     in.Title,
		MatchDate: in.Date,
		Level:     in.Level,
		Result:    in.Result,
		Points:    in.Points,
	}
	adj, err := s.matches.AddWithPoints(ctx, &m)
	if err != nil {
		return repository.PointsAdjustment{}, err
	}
	s.logger.Info("match recorded",
		zap.Uint64("match_id", adj.MatchID), zap.Uint64("player_id", adj.PlayerID),
		zap.Int64("old_points", adj.OldTotal), zap.Int64("new_points", adj.NewTotal))
	return adj, nil
}

// UpdateMatchHistory patches a match; only a supplied point value moves
// the player's total, and only by the difference against the stored value.
func (s *RankingService) UpdateMatchHistory(ctx context.Context, matchID uint64, patch repository.MatchPatch) (repository.PointsAdjustment, error) {
	adj, err := s.matches.UpdateSparse(ctx, matchID, patch)
	if err != nil {
		return repository.PointsAdjustment{}, err
	}
	if adj.OldTotal != adj.NewTotal {
		s.logger.Info("match updated with points adjustment",
			zap.Uint64("match_id", matchID),
			zap.Int64("old_points", adj.OldTotal), zap.Int64("new_points", adj.NewTotal))
	}
	return adj, nil
}

// DeleteMatchHistory soft-deletes a match and gives back its points, as if
// the match had never been recorded.
func (s *RankingService) DeleteMatchHistory(ctx context.Context, matchID uint64) (repository.PointsAdjustment, error) {
	adj, err := s.matches.SoftDelete(ctx, matchID)
	if err != nil {
		return repository.PointsAdjustment{}, err
	}
	s.logger.Info("match deleted",
		zap.Uint64("match_id", matchID), zap.Uint64("player_id", adj.PlayerID),
		zap.Int64("new_points", adj.NewTotal))
	return adj, nil
}
