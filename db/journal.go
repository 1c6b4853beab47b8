package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/JBE10/lifeops/models"
)

type JournalFilter struct {
	Tag    string
	Mood   string
	Offset int
	Limit  int
}

func (o *OwnerScope) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	entry.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(entry).Error)
}

func (o *OwnerScope) FindEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := o.query(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// ListEntries returns one page of entries, newest first, and the total
// number of entries matching the filter.
func (o *OwnerScope) ListEntries(ctx context.Context, f JournalFilter) ([]models.JournalEntry, int64, error) {
	q := o.query(ctx).Model(&models.JournalEntry{})
	if f.Tag != "" {
		q = q.Where(tagContains(o.db.Dialector.Name()), f.Tag)
	}
	if f.Mood != "" {
		q = q.Where("mood = ?", f.Mood)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.JournalEntry
	err := q.Order("date DESC").Offset(f.Offset).Limit(f.Limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (o *OwnerScope) UpdateEntry(ctx context.Context, entry *models.JournalEntry) error {
	res := o.db.WithContext(ctx).
		Model(&models.JournalEntry{}).
		Where("id = ? AND owner_id = ?", entry.ID, o.ownerID).
		Select("title", "content", "mood", "tags", "date").
		Updates(entry)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (o *OwnerScope) DeleteEntry(ctx context.Context, id string) error {
	res := o.query(ctx).Where("id = ?", id).Delete(&models.JournalEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func tagContains(dialect string) string {
	if dialect == "postgres" {
		return "jsonb_exists(tags::jsonb, ?)"
	}
	return "EXISTS (SELECT 1 FROM json_each(tags) WHERE json_each.value = ?)"
}
