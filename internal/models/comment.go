package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a reply attached to a trace. ParentID is nil for root
// comments; replies reference a root on the same trace and nesting stops
// there (depth is capped at one level, enforced at write time).
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TraceID   string    `gorm:"size:36;not null;index:idx_comments_trace" json:"trace_id"`
	Trace     Trace     `gorm:"foreignKey:TraceID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string    `gorm:"size:36;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	ParentID  *string   `gorm:"size:36;index:idx_comments_parent" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsDeleted bool      `gorm:"not null" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsRoot reports whether the comment is a thread root.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// CommentThread is a root comment with its replies in creation order.
type CommentThread struct {
	Comment
	Replies []*Comment `json:"replies"`
}
