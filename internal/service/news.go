package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
)

// NewsService manages news articles and their content sections.
type NewsService struct {
	news *repository.NewsRepo
	log  *zap.Logger
}

func NewNewsService(news *repository.NewsRepo, logger *zap.Logger) *NewsService {
	return &NewsService{news: news, log: logger.Named("news")}
}

// NewsItem pairs an article with its sections for read responses.
type NewsItem struct {
	Article model.NewsArticle  `json:"article"`
	Details []model.NewsDetail `json:"details"`
}

// Create publishes an article with its sections.
func (s *NewsService) Create(ctx context.Context, authorID uint64, title, subTitle string, sequence int, details []model.NewsDetail) (NewsItem, error) {
	a := model.NewsArticle{
		Title:    title,
		SubTitle: subTitle,
		AuthorID: authorID,
		Sequence: sequence,
		Status:   true,
	}
	id, err := s.news.Create(ctx, &a, details)
	if err != nil {
		return NewsItem{}, err
	}
	s.log.Info("news created", zap.Uint64("news_id", id), zap.String("title", title))
	return s.Get(ctx, id)
}

// Get loads one article with live sections.
func (s *NewsService) Get(ctx context.Context, id uint64) (NewsItem, error) {
	a, details, err := s.news.GetByID(ctx, id)
	if err != nil {
		return NewsItem{}, err
	}
	return NewsItem{Article: a, Details: details}, nil
}

// List returns live articles; inactive ones only when asked for.
func (s *NewsService) List(ctx context.Context, includeInactive bool) ([]model.NewsArticle, error) {
	return s.news.List(ctx, includeInactive)
}

// Update applies a sparse patch; supplied sections replace the set.
func (s *NewsService) Update(ctx context.Context, id uint64, patch repository.NewsPatch) (NewsItem, error) {
	if err := s.news.Update(ctx, id, patch); err != nil {
		return NewsItem{}, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes an article with its sections.
func (s *NewsService) Delete(ctx context.Context, id uint64) error {
	if err := s.news.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("news deleted", zap.Uint64("news_id", id))
	return nil
}
