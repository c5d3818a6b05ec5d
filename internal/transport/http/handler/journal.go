package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"journal-backend/internal/app"
	"journal-backend/internal/model"
	"journal-backend/internal/transport/http/middleware"
	"journal-backend/internal/transport/http/response"
)

type JournalHandler struct {
	journalService *app.JournalService
	authService    *app.AuthService
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type CreateEntryRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type UpdateEntryRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// entryView is the wire shape of an entry; the date is the creation day.
type entryView struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func NewJournalHandler(journalService *app.JournalService, authService *app.AuthService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
		authService:    authService,
	}
}

func (h *JournalHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "fetch profile failed")
		return
	}

	response.OK(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *JournalHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	err := h.authService.UpdateProfile(app.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrDuplicateProfile):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update profile failed")
		}
		return
	}

	response.OK(c, gin.H{"message": "profile updated successfully"})
}

func (h *JournalHandler) CreateEntry(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if _, err := h.journalService.CreateEntry(app.CreateEntryInput{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}); err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "create entry failed")
		return
	}

	response.Created(c, gin.H{"message": "entry created successfully"})
}

func (h *JournalHandler) ListEntries(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	entries, err := h.journalService.ListEntries(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list entries failed")
		return
	}

	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryView(entry))
	}
	response.OK(c, views)
}

func (h *JournalHandler) GetEntry(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	entryID, ok := entryIDParam(c)
	if !ok {
		response.Error(c, http.StatusNotFound, "entry not found")
		return
	}

	entry, err := h.journalService.GetEntry(userID, entryID)
	if err != nil {
		if errors.Is(err, app.ErrEntryNotFound) || errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusNotFound, "entry not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "fetch entry failed")
		return
	}

	response.OK(c, newEntryView(*entry))
}

func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	entryID, ok := entryIDParam(c)
	if !ok {
		response.Error(c, http.StatusNotFound, "entry not found")
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid input")
		return
	}

	err := h.journalService.UpdateEntry(app.UpdateEntryInput{
		UserID:   userID,
		EntryID:  entryID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid input")
		case errors.Is(err, app.ErrEntryNotFound):
			response.Error(c, http.StatusNotFound, "entry not found")
		default:
			response.Error(c, http.StatusInternalServerError, "update entry failed")
		}
		return
	}

	response.OK(c, gin.H{"message": "entry updated successfully"})
}

func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	entryID, ok := entryIDParam(c)
	if !ok {
		response.Error(c, http.StatusNotFound, "entry not found")
		return
	}

	if err := h.journalService.DeleteEntry(userID, entryID); err != nil {
		if errors.Is(err, app.ErrEntryNotFound) {
			response.Error(c, http.StatusNotFound, "entry not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "delete entry failed")
		return
	}

	response.OK(c, gin.H{"message": "entry deleted successfully"})
}

// GetSummary serves both modes: a period tag when present, otherwise an
// explicit start_date/end_date pair.
func (h *JournalHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	if period := c.Query("period"); period != "" {
		h.periodSummary(c, userID, period)
		return
	}
	h.rangeSummary(c, userID)
}

func (h *JournalHandler) periodSummary(c *gin.Context, userID uint, period string) {
	summary, err := h.journalService.PeriodSummary(userID, period)
	if err != nil {
		if errors.Is(err, app.ErrInvalidPeriod) {
			response.Error(c, http.StatusBadRequest, "invalid period, use daily, weekly or monthly")
			return
		}
		response.Error(c, http.StatusInternalServerError, "summary failed")
		return
	}

	views := make([]entryView, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		views = append(views, newEntryView(entry))
	}

	response.OK(c, gin.H{
		"period":        summary.Period,
		"start_date":    summary.Start.Format(app.DateLayout),
		"end_date":      summary.End.Format(app.DateLayout),
		"total_entries": len(summary.Entries),
		"entries":       views,
	})
}

func (h *JournalHandler) rangeSummary(c *gin.Context, userID uint) {
	startRaw := c.Query("start_date")
	endRaw := c.Query("end_date")
	if startRaw == "" || endRaw == "" {
		response.Error(c, http.StatusBadRequest, "please provide both start_date and end_date")
		return
	}

	start, err := time.Parse(app.DateLayout, startRaw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid date format, please use YYYY-MM-DD")
		return
	}
	end, err := time.Parse(app.DateLayout, endRaw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid date format, please use YYYY-MM-DD")
		return
	}

	summary, err := h.journalService.RangeSummary(userID, start, end)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "summary failed")
		return
	}

	response.OK(c, summary)
}

func newEntryView(entry model.JournalEntry) entryView {
	return entryView{
		ID:       entry.ID,
		Title:    entry.Title,
		Content:  entry.Content,
		Category: entry.Category,
		Date:     entry.CreatedAt.Format(app.DateLayout),
	}
}

func entryIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
