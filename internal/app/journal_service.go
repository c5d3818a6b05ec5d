package app

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"journal-backend/internal/model"
)

// DateLayout is the day-granularity format used on the wire.
const DateLayout = "2006-01-02"

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidPeriod = errors.New("invalid period")
)

// EntryStore is the slice of the entry repository the journal service needs.
type EntryStore interface {
	Create(entry *model.JournalEntry) error
	ListByUserID(userID uint) ([]model.JournalEntry, error)
	GetByIDAndUserID(entryID, userID uint) (*model.JournalEntry, error)
	Update(entry *model.JournalEntry) error
	DeleteByIDAndUserID(entryID, userID uint) error
	ListByUserIDWithinRange(userID uint, start, end time.Time) ([]model.JournalEntry, error)
}

type AuditRecorder interface {
	Publish(ctx context.Context, event model.AuditEvent) error
}

type SummaryCache interface {
	GetRangeSummary(ctx context.Context, userID uint, start, end time.Time) (*RangeSummary, bool, error)
	SetRangeSummary(ctx context.Context, userID uint, start, end time.Time, summary *RangeSummary) error
	Invalidate(ctx context.Context, userID uint) error
}

type JournalService struct {
	entries EntryStore
	audit   AuditRecorder
	cache   SummaryCache
}

type CreateEntryInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
}

type UpdateEntryInput struct {
	UserID   uint
	EntryID  uint
	Title    *string
	Content  *string
	Category *string
}

// RangeSummary aggregates a user's entries inside an inclusive date window.
type RangeSummary struct {
	TotalEntries    int            `json:"total_entries"`
	CategorySummary map[string]int `json:"category_summary"`
	Categories      []string       `json:"categories"`
}

type PeriodSummary struct {
	Period  string
	Start   time.Time
	End     time.Time
	Entries []model.JournalEntry
}

func NewJournalService(entries EntryStore, audit AuditRecorder, cache SummaryCache) *JournalService {
	return &JournalService{
		entries: entries,
		audit:   audit,
		cache:   cache,
	}
}

func (s *JournalService) CreateEntry(input CreateEntryInput) (*model.JournalEntry, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	category := strings.TrimSpace(input.Category)
	if input.UserID == 0 || title == "" || content == "" || category == "" {
		return nil, ErrInvalidInput
	}

	entry := &model.JournalEntry{
		UserID:   input.UserID,
		Title:    title,
		Content:  content,
		Category: category,
	}
	if err := s.entries.Create(entry); err != nil {
		return nil, err
	}

	s.recordWrite(entry, model.AuditEntryCreated)
	return entry, nil
}

func (s *JournalService) ListEntries(userID uint) ([]model.JournalEntry, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.entries.ListByUserID(userID)
}

// GetEntry reports ErrEntryNotFound both for a missing entry and for one
// owned by another user.
func (s *JournalService) GetEntry(userID, entryID uint) (*model.JournalEntry, error) {
	if userID == 0 || entryID == 0 {
		return nil, ErrInvalidInput
	}
	entry, err := s.entries.GetByIDAndUserID(entryID, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// UpdateEntry overwrites only the fields present in the input. An input with
// no fields at all is rejected.
func (s *JournalService) UpdateEntry(input UpdateEntryInput) error {
	if input.UserID == 0 || input.EntryID == 0 {
		return ErrInvalidInput
	}
	if input.Title == nil && input.Content == nil && input.Category == nil {
		return ErrInvalidInput
	}

	entry, err := s.entries.GetByIDAndUserID(input.EntryID, input.UserID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrEntryNotFound
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return ErrInvalidInput
		}
		entry.Title = title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return ErrInvalidInput
		}
		entry.Content = content
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return ErrInvalidInput
		}
		entry.Category = category
	}

	if err := s.entries.Update(entry); err != nil {
		return err
	}

	s.recordWrite(entry, model.AuditEntryUpdated)
	return nil
}

func (s *JournalService) DeleteEntry(userID, entryID uint) error {
	if userID == 0 || entryID == 0 {
		return ErrInvalidInput
	}
	entry, err := s.entries.GetByIDAndUserID(entryID, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrEntryNotFound
	}
	if err := s.entries.DeleteByIDAndUserID(entryID, userID); err != nil {
		return err
	}

	s.recordWrite(entry, model.AuditEntryDeleted)
	return nil
}

// RangeSummary aggregates entries created within [start, end], end date
// inclusive of the whole day. Results are cached per user and window until
// the user's next entry write.
func (s *JournalService) RangeSummary(userID uint, start, end time.Time) (*RangeSummary, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	ctx := context.Background()
	if s.cache != nil {
		cached, ok, err := s.cache.GetRangeSummary(ctx, userID, start, end)
		if err != nil {
			log.Printf("read summary cache failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	entries, err := s.entries.ListByUserIDWithinRange(userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	summary := buildRangeSummary(entries)
	if s.cache != nil {
		if err := s.cache.SetRangeSummary(ctx, userID, start, end, summary); err != nil {
			log.Printf("cache range summary failed: %v", err)
		}
	}
	return summary, nil
}

// PeriodSummary computes the window for a daily/weekly/monthly tag and
// returns the matching entries alongside the window bounds.
func (s *JournalService) PeriodSummary(userID uint, period string) (*PeriodSummary, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	start, end, err := periodWindow(period, time.Now())
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByUserIDWithinRange(userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return &PeriodSummary{
		Period:  period,
		Start:   start,
		End:     end,
		Entries: entries,
	}, nil
}

func buildRangeSummary(entries []model.JournalEntry) *RangeSummary {
	categorySummary := make(map[string]int, len(entries))
	for _, entry := range entries {
		categorySummary[entry.Category]++
	}

	categories := make([]string, 0, len(categorySummary))
	for category := range categorySummary {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return &RangeSummary{
		TotalEntries:    len(entries),
		CategorySummary: categorySummary,
		Categories:      categories,
	}
}

// recordWrite publishes an audit event and drops the cached summaries for
// the owner. Both are best effort: a broker or cache failure never fails
// the entry write itself.
func (s *JournalService) recordWrite(entry *model.JournalEntry, action string) {
	ctx := context.Background()
	if s.audit != nil {
		event := model.AuditEvent{
			UserID:     entry.UserID,
			EntryID:    entry.ID,
			Action:     action,
			OccurredAt: time.Now(),
		}
		if err := s.audit.Publish(ctx, event); err != nil {
			log.Printf("publish audit event failed: %v", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, entry.UserID); err != nil {
			log.Printf("invalidate summary cache failed: %v", err)
		}
	}
}
