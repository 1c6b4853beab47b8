package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
)

const (
	defaultJournalLimit = 30
	maxJournalLimit     = 100
)

type JournalInput struct {
	Title   string     `json:"title" validate:"max=200"`
	Content string     `json:"content" validate:"required"`
	Mood    string     `json:"mood" validate:"omitempty,oneof=great good okay bad terrible"`
	Tags    []string   `json:"tags" validate:"max=20,dive,required,max=32"`
	Date    *time.Time `json:"date"`
}

type JournalPatch struct {
	Title   *string    `json:"title"`
	Content *string    `json:"content"`
	Mood    *string    `json:"mood"`
	Tags    *[]string  `json:"tags"`
	Date    *time.Time `json:"date"`
}

type JournalQuery struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Tag   string `form:"tag"`
	Mood  string `form:"mood"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type JournalPage struct {
	Entries    []models.JournalEntry `json:"entries"`
	Pagination Pagination            `json:"pagination"`
}

type JournalService struct {
	store  *db.Store
	cache  cache.Cache
	logger *zap.Logger
	clock  Clock
}

func NewJournalService(store *db.Store, c cache.Cache, logger *zap.Logger, clock Clock) *JournalService {
	return &JournalService{store: store, cache: c, logger: logger, clock: clock}
}

func (s *JournalService) Create(ctx context.Context, ownerID string, in JournalInput) (*models.JournalEntry, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	date := s.clock.Now()
	if in.Date != nil {
		date = *in.Date
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	entry := &models.JournalEntry{
		Date:      date.UTC(),
		Title:     in.Title,
		Content:   in.Content,
		Mood:      in.Mood,
		Tags:      tags,
		IsPrivate: true,
	}
	if err := s.store.ForOwner(ownerID).CreateEntry(ctx, entry); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return entry, nil
}

func (s *JournalService) Get(ctx context.Context, ownerID, id string) (*models.JournalEntry, error) {
	entry, err := s.store.ForOwner(ownerID).FindEntry(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return entry, nil
}

// List pages through entries newest first.
func (s *JournalService) List(ctx context.Context, ownerID string, q JournalQuery) (*JournalPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = defaultJournalLimit
	}
	if q.Page < 1 {
		return nil, invalid("page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > maxJournalLimit {
		return nil, invalid("limit must be between 1 and %d", maxJournalLimit)
	}

	entries, total, err := s.store.ForOwner(ownerID).ListEntries(ctx, db.JournalFilter{
		Tag:    q.Tag,
		Mood:   q.Mood,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}

	return &JournalPage{
		Entries: entries,
		Pagination: Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: pageCount(total, q.Limit),
		},
	}, nil
}

func pageCount(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *JournalService) Update(ctx context.Context, ownerID, id string, patch JournalPatch) (*models.JournalEntry, error) {
	scope := s.store.ForOwner(ownerID)
	entry, err := scope.FindEntry(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	if patch.Title != nil {
		entry.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		entry.Content = strings.TrimSpace(*patch.Content)
	}
	if patch.Mood != nil {
		entry.Mood = *patch.Mood
	}
	if patch.Tags != nil {
		entry.Tags = *patch.Tags
	}
	if patch.Date != nil {
		entry.Date = patch.Date.UTC()
	}

	if err := validateStruct(JournalInput{
		Title:   entry.Title,
		Content: entry.Content,
		Mood:    entry.Mood,
		Tags:    entry.Tags,
	}); err != nil {
		return nil, err
	}

	if err := scope.UpdateEntry(ctx, entry); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return entry, nil
}

func (s *JournalService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteEntry(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *JournalService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.DeletePattern(ctx, cache.ResponsePattern(ownerID, "/api/journal")); err != nil {
		s.logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}
