package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is a directed "subscriber follows channel" edge. Both ends are user ids.
type Subscription struct {
	ID           string    `gorm:"primaryKey;size:36"`
	SubscriberID string    `gorm:"size:36;not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    string    `gorm:"size:36;not null;uniqueIndex:idx_subscriber_channel;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate assigns a UUID when none is set.
func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Video is an uploaded video owned by a user.
type Video struct {
	ID          string  `gorm:"primaryKey;size:36"`
	OwnerID     string  `gorm:"size:36;not null;index"`
	Title       string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text"`
	VideoFile   string  `gorm:"size:2048;not null"`
	Thumbnail   string  `gorm:"size:2048;not null"`
	Duration    float64 `gorm:"not null"`
	Views       int64   `gorm:"not null;default:0"`
	IsPublished bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns a UUID when none is set.
func (v *Video) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// WatchHistoryEntry is one slot of a user's ordered watch history.
type WatchHistoryEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_user_position"`
	Position  int       `gorm:"not null;uniqueIndex:idx_user_position"`
	VideoID   string    `gorm:"size:36;not null;index"`
	WatchedAt time.Time `gorm:"not null"`
}
