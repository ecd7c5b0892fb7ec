package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
)

// EventService manages tournament/competition events.
type EventService struct {
	events *repository.EventRepo
	log    *zap.Logger
}

func NewEventService(events *repository.EventRepo, logger *zap.Logger) *EventService {
	return &EventService{events: events, log: logger.Named("event")}
}

// EventItem is the full event record for read responses.
type EventItem struct {
	Event  model.Event       `json:"event"`
	Detail model.EventDetail `json:"detail"`
	Footer model.EventFooter `json:"footer"`
}

// EventPage is one page of the event list.
type EventPage struct {
	Events     []model.Event `json:"events"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// Create stores header, detail and footer together.
func (s *EventService) Create(ctx context.Context, ownerID uint64, e model.Event, d model.EventDetail, f model.EventFooter) (EventItem, error) {
	e.OwnerID = ownerID
	id, err := s.events.Create(ctx, &e, &d, &f)
	if err != nil {
		return EventItem{}, err
	}
	s.log.Info("event created", zap.Uint64("event_id", id), zap.String("title", e.Title))
	return s.Get(ctx, id)
}

// Get loads one event.
func (s *EventService) Get(ctx context.Context, id uint64) (EventItem, error) {
	e, d, f, err := s.events.GetByID(ctx, id)
	if err != nil {
		return EventItem{}, err
	}
	return EventItem{Event: e, Detail: d, Footer: f}, nil
}

// List returns a page of live events, newest date first.
func (s *EventService) List(ctx context.Context, page, pageSize int, search string) (EventPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	events, total, err := s.events.List(ctx, page, pageSize, search)
	if err != nil {
		return EventPage{}, err
	}
	return EventPage{
		Events:     events,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Update applies a sparse patch across the event's three rows.
func (s *EventService) Update(ctx context.Context, id uint64, patch repository.EventPatch) (EventItem, error) {
	if err := s.events.Update(ctx, id, patch); err != nil {
		return EventItem{}, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes an event.
func (s *EventService) Delete(ctx context.Context, id uint64) error {
	if err := s.events.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("event deleted", zap.Uint64("event_id", id))
	return nil
}
