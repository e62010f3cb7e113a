package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trace represents a message pinned to a coordinate.
type Trace struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;not null;index:idx_traces_user" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	ImageURL  string     `json:"image_url,omitempty"`
	Latitude  float64    `gorm:"not null;index:idx_traces_location" json:"latitude"`
	Longitude float64    `gorm:"not null;index:idx_traces_location" json:"longitude"`
	IsDeleted bool       `gorm:"not null" json:"is_deleted"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (t *Trace) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TraceWithDistance annotates a trace with its distance from the caller's
// position. The distance is computed per query and never persisted.
type TraceWithDistance struct {
	Trace
	DistanceKm float64 `json:"distance"`
}

// ExpiryPolicy selects how a set expires_at affects discovery visibility.
type ExpiryPolicy string

const (
	// ExpiryHideAny hides any trace with a non-null expires_at. This is the
	// historically observed behavior and the default.
	ExpiryHideAny ExpiryPolicy = "hide-any-expiry"
	// ExpiryHideAfter hides a trace only once expires_at has passed.
	ExpiryHideAfter ExpiryPolicy = "hide-after-expiry"
)

// Visible reports whether the trace may appear in discovery at the given
// instant under the given expiry policy.
func (t *Trace) Visible(now time.Time, policy ExpiryPolicy) bool {
	if t.IsDeleted {
		return false
	}
	if t.ExpiresAt == nil {
		return true
	}
	if policy == ExpiryHideAfter {
		return t.ExpiresAt.After(now)
	}
	return false
}

// TraceState is the lifecycle state carried by the is_deleted flag.
type TraceState string

const (
	TraceActive  TraceState = "active"
	TraceDeleted TraceState = "deleted"
)

// TraceAction is a requested lifecycle transition.
type TraceAction string

const (
	TraceActionDelete  TraceAction = "delete"
	TraceActionRestore TraceAction = "restore"
)

// State derives the lifecycle state from the soft-delete flag.
func (t *Trace) State() TraceState {
	if t.IsDeleted {
		return TraceDeleted
	}
	return TraceActive
}

// Transition applies a lifecycle action on behalf of requesterID. Both
// directions are owner-gated; repeating an action is a no-op success, so
// delete and restore stay idempotent.
func (s TraceState) Transition(action TraceAction, requesterID, ownerID string) (TraceState, error) {
	if requesterID != ownerID {
		return s, NewForbiddenError("You can only modify your own traces")
	}
	switch action {
	case TraceActionDelete:
		return TraceDeleted, nil
	case TraceActionRestore:
		return TraceActive, nil
	default:
		return s, NewValidationError("Unknown trace action")
	}
}
