package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"journal-backend/internal/model"
)

type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(entry *model.JournalEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create entry failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's entries in insertion order.
func (r *EntryRepository) ListByUserID(userID uint) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	if err := r.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries failed: %w", err)
	}
	return entries, nil
}

// GetByIDAndUserID returns nil for both a missing entry and an entry owned
// by someone else, so callers cannot tell the two apart.
func (r *EntryRepository) GetByIDAndUserID(entryID, userID uint) (*model.JournalEntry, error) {
	var entry model.JournalEntry
	if err := r.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry failed: %w", err)
	}
	return &entry, nil
}

func (r *EntryRepository) Update(entry *model.JournalEntry) error {
	if err := r.db.Save(entry).Error; err != nil {
		return fmt.Errorf("update entry failed: %w", err)
	}
	return nil
}

func (r *EntryRepository) DeleteByIDAndUserID(entryID, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", entryID, userID).Delete(&model.JournalEntry{}).Error; err != nil {
		return fmt.Errorf("delete entry failed: %w", err)
	}
	return nil
}

// ListByUserIDWithinRange selects entries created in [start, end). Callers
// pass end as the day after the inclusive end date.
func (r *EntryRepository) ListByUserIDWithinRange(userID uint, start, end time.Time) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := r.db.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list entries in range failed: %w", err)
	}
	return entries, nil
}
