package model

import "time"

const (
	AuditEntryCreated = "entry.created"
	AuditEntryUpdated = "entry.updated"
	AuditEntryDeleted = "entry.deleted"
)

// AuditEvent records a journal entry write. Events travel through the
// message queue and are persisted asynchronously by the audit worker.
type AuditEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	EntryID    uint      `gorm:"not null" json:"entry_id"`
	Action     string    `gorm:"size:32;not null" json:"action"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
}
