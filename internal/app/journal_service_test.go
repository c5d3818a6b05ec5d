package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-backend/internal/app"
	"journal-backend/internal/model"
)

type fakeEntryStore struct {
	entries map[uint]model.JournalEntry
	nextID  uint
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[uint]model.JournalEntry)}
}

func (s *fakeEntryStore) Create(entry *model.JournalEntry) error {
	s.nextID++
	entry.ID = s.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.entries[entry.ID] = *entry
	return nil
}

func (s *fakeEntryStore) ListByUserID(userID uint) ([]model.JournalEntry, error) {
	var result []model.JournalEntry
	for id := uint(1); id <= s.nextID; id++ {
		if entry, ok := s.entries[id]; ok && entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *fakeEntryStore) GetByIDAndUserID(entryID, userID uint) (*model.JournalEntry, error) {
	entry, ok := s.entries[entryID]
	if !ok || entry.UserID != userID {
		return nil, nil
	}
	found := entry
	return &found, nil
}

func (s *fakeEntryStore) Update(entry *model.JournalEntry) error {
	s.entries[entry.ID] = *entry
	return nil
}

func (s *fakeEntryStore) DeleteByIDAndUserID(entryID, userID uint) error {
	if entry, ok := s.entries[entryID]; ok && entry.UserID == userID {
		delete(s.entries, entryID)
	}
	return nil
}

func (s *fakeEntryStore) ListByUserIDWithinRange(userID uint, start, end time.Time) ([]model.JournalEntry, error) {
	var result []model.JournalEntry
	for id := uint(1); id <= s.nextID; id++ {
		entry, ok := s.entries[id]
		if !ok || entry.UserID != userID {
			continue
		}
		if !entry.CreatedAt.Before(start) && entry.CreatedAt.Before(end) {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeAuditRecorder struct {
	events []model.AuditEvent
}

func (r *fakeAuditRecorder) Publish(_ context.Context, event model.AuditEvent) error {
	r.events = append(r.events, event)
	return nil
}

type fakeSummaryCache struct {
	stored      map[string]*app.RangeSummary
	invalidated int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{stored: make(map[string]*app.RangeSummary)}
}

func (c *fakeSummaryCache) key(userID uint, start, end time.Time) string {
	return fmt.Sprintf("%d|%s|%s", userID, start.Format(app.DateLayout), end.Format(app.DateLayout))
}

func (c *fakeSummaryCache) GetRangeSummary(_ context.Context, userID uint, start, end time.Time) (*app.RangeSummary, bool, error) {
	summary, ok := c.stored[c.key(userID, start, end)]
	return summary, ok, nil
}

func (c *fakeSummaryCache) SetRangeSummary(_ context.Context, userID uint, start, end time.Time, summary *app.RangeSummary) error {
	c.stored[c.key(userID, start, end)] = summary
	return nil
}

func (c *fakeSummaryCache) Invalidate(_ context.Context, userID uint) error {
	c.invalidated++
	c.stored = make(map[string]*app.RangeSummary)
	return nil
}

func newJournalService(store *fakeEntryStore) (*app.JournalService, *fakeAuditRecorder, *fakeSummaryCache) {
	audit := &fakeAuditRecorder{}
	cache := newFakeSummaryCache()
	return app.NewJournalService(store, audit, cache), audit, cache
}

func createEntry(t *testing.T, svc *app.JournalService, userID uint, title, content, category string) *model.JournalEntry {
	t.Helper()
	entry, err := svc.CreateEntry(app.CreateEntryInput{
		UserID:   userID,
		Title:    title,
		Content:  content,
		Category: category,
	})
	require.NoError(t, err)
	return entry
}

func TestCreateEntry(t *testing.T) {
	store := newFakeEntryStore()
	svc, audit, cache := newJournalService(store)

	entry := createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")
	assert.NotZero(t, entry.ID)
	assert.Equal(t, uint(1), entry.UserID)

	require.Len(t, audit.events, 1)
	assert.Equal(t, model.AuditEntryCreated, audit.events[0].Action)
	assert.Equal(t, entry.ID, audit.events[0].EntryID)
	assert.Equal(t, 1, cache.invalidated)
}

func TestCreateEntryMissingFields(t *testing.T) {
	svc, _, _ := newJournalService(newFakeEntryStore())

	_, err := svc.CreateEntry(app.CreateEntryInput{UserID: 1, Title: "Gym", Content: "", Category: "Fitness"})
	assert.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestListEntriesRoundTrip(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, _ := newJournalService(store)
	createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")
	createEntry(t, svc, 1, "Dinner", "Pasta", "Food")
	createEntry(t, svc, 2, "Other user", "Hidden", "Private")

	entries, err := svc.ListEntries(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Gym", entries[0].Title)
	assert.Equal(t, "Ran 5k", entries[0].Content)
	assert.Equal(t, "Fitness", entries[0].Category)
	assert.Equal(t, time.Now().Format(app.DateLayout), entries[0].CreatedAt.Format(app.DateLayout))
}

func TestGetEntryConcealsForeignEntries(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, _ := newJournalService(store)
	entry := createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")

	got, err := svc.GetEntry(1, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	_, err = svc.GetEntry(2, entry.ID)
	assert.ErrorIs(t, err, app.ErrEntryNotFound, "another user's lookup looks like a missing entry")

	_, err = svc.GetEntry(1, 999)
	assert.ErrorIs(t, err, app.ErrEntryNotFound)
}

func TestUpdateEntryPartial(t *testing.T) {
	store := newFakeEntryStore()
	svc, audit, _ := newJournalService(store)
	entry := createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")

	newTitle := "Morning gym"
	err := svc.UpdateEntry(app.UpdateEntryInput{UserID: 1, EntryID: entry.ID, Title: &newTitle})
	require.NoError(t, err)

	updated, err := svc.GetEntry(1, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning gym", updated.Title)
	assert.Equal(t, "Ran 5k", updated.Content, "absent fields stay untouched")
	assert.Equal(t, "Fitness", updated.Category, "absent fields stay untouched")

	require.Len(t, audit.events, 2)
	assert.Equal(t, model.AuditEntryUpdated, audit.events[1].Action)
}

func TestUpdateEntryEmptyBody(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, _ := newJournalService(store)
	entry := createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")

	err := svc.UpdateEntry(app.UpdateEntryInput{UserID: 1, EntryID: entry.ID})
	assert.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestUpdateEntryOwnership(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, _ := newJournalService(store)
	entry := createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")

	newTitle := "Hijacked"
	err := svc.UpdateEntry(app.UpdateEntryInput{UserID: 2, EntryID: entry.ID, Title: &newTitle})
	assert.ErrorIs(t, err, app.ErrEntryNotFound)

	unchanged, err := svc.GetEntry(1, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gym", unchanged.Title)
}

func TestDeleteEntry(t *testing.T) {
	store := newFakeEntryStore()
	svc, audit, _ := newJournalService(store)
	entry := createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")

	require.ErrorIs(t, svc.DeleteEntry(2, entry.ID), app.ErrEntryNotFound)

	require.NoError(t, svc.DeleteEntry(1, entry.ID))
	_, err := svc.GetEntry(1, entry.ID)
	assert.ErrorIs(t, err, app.ErrEntryNotFound)
	assert.ErrorIs(t, svc.DeleteEntry(1, entry.ID), app.ErrEntryNotFound)

	assert.Equal(t, model.AuditEntryDeleted, audit.events[len(audit.events)-1].Action)
}

func seedEntryAt(store *fakeEntryStore, userID uint, category string, createdAt time.Time) {
	store.nextID++
	store.entries[store.nextID] = model.JournalEntry{
		ID:        store.nextID,
		UserID:    userID,
		Title:     "t",
		Content:   "c",
		Category:  category,
		CreatedAt: createdAt,
	}
}

func TestRangeSummary(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, cache := newJournalService(store)

	seedEntryAt(store, 1, "Fitness", time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
	seedEntryAt(store, 1, "Fitness", time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	seedEntryAt(store, 1, "Food", time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC))
	seedEntryAt(store, 1, "Food", time.Date(2024, time.April, 1, 0, 30, 0, 0, time.UTC))
	seedEntryAt(store, 2, "Fitness", time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	summary, err := svc.RangeSummary(1, start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalEntries, "end date is inclusive of the whole day")
	assert.Equal(t, map[string]int{"Fitness": 2, "Food": 1}, summary.CategorySummary)
	assert.Equal(t, []string{"Fitness", "Food"}, summary.Categories)

	assert.Len(t, cache.stored, 1, "computed summary is cached")
}

func TestRangeSummaryServedFromCache(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, cache := newJournalService(store)

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	canned := &app.RangeSummary{TotalEntries: 7, CategorySummary: map[string]int{"X": 7}, Categories: []string{"X"}}
	require.NoError(t, cache.SetRangeSummary(context.Background(), 1, start, end, canned))

	summary, err := svc.RangeSummary(1, start, end)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.TotalEntries)
}

func TestRangeSummaryCacheInvalidatedByWrite(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, cache := newJournalService(store)

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	_, err := svc.RangeSummary(1, start, end)
	require.NoError(t, err)
	require.Len(t, cache.stored, 1)

	createEntry(t, svc, 1, "Gym", "Ran 5k", "Fitness")
	assert.Empty(t, cache.stored, "entry write drops cached summaries")
}

func TestPeriodSummary(t *testing.T) {
	store := newFakeEntryStore()
	svc, _, _ := newJournalService(store)

	today := time.Now()
	seedEntryAt(store, 1, "Fitness", today)
	seedEntryAt(store, 1, "Food", today.AddDate(0, -2, 0))

	summary, err := svc.PeriodSummary(1, app.PeriodDaily)
	require.NoError(t, err)
	assert.Equal(t, app.PeriodDaily, summary.Period)
	assert.Equal(t, summary.Start, summary.End)
	require.Len(t, summary.Entries, 1)
	assert.Equal(t, "Fitness", summary.Entries[0].Category)
}

func TestPeriodSummaryInvalidTag(t *testing.T) {
	svc, _, _ := newJournalService(newFakeEntryStore())

	_, err := svc.PeriodSummary(1, "hourly")
	assert.ErrorIs(t, err, app.ErrInvalidPeriod)
}

type failingSummaryCache struct{}

func (failingSummaryCache) GetRangeSummary(context.Context, uint, time.Time, time.Time) (*app.RangeSummary, bool, error) {
	return nil, false, errors.New("redis down")
}

func (failingSummaryCache) SetRangeSummary(context.Context, uint, time.Time, time.Time, *app.RangeSummary) error {
	return errors.New("redis down")
}

func (failingSummaryCache) Invalidate(context.Context, uint) error {
	return errors.New("redis down")
}

func TestRangeSummarySurvivesCacheFailure(t *testing.T) {
	store := newFakeEntryStore()
	svc := app.NewJournalService(store, nil, failingSummaryCache{})

	seedEntryAt(store, 1, "Fitness", time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	summary, err := svc.RangeSummary(1, start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalEntries, "cache failures fall through to the store")

	_, err = svc.CreateEntry(app.CreateEntryInput{UserID: 1, Title: "a", Content: "b", Category: "c"})
	assert.NoError(t, err, "invalidation failure never fails the write")
}

func TestPeriodSummaryWithoutAuditOrCache(t *testing.T) {
	svc := app.NewJournalService(newFakeEntryStore(), nil, nil)

	entry, err := svc.CreateEntry(app.CreateEntryInput{UserID: 1, Title: "a", Content: "b", Category: "c"})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	start := time.Now().AddDate(0, 0, -1)
	summary, err := svc.RangeSummary(1, start, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalEntries)
}
