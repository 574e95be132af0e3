// Package adapters provides the gorm implementation of the channel read model.
package adapters

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"videotube_backend/internal/feature/channel/domain/entity"
	"videotube_backend/internal/feature/channel/usecase"
)

type channelGorm struct {
	db *gorm.DB
}

var _ usecase.ChannelRepository = (*channelGorm)(nil)

// NewChannelGorm creates a read model over the users, subscriptions, videos
// and watch_history_entries tables.
func NewChannelGorm(db *gorm.DB) *channelGorm {
	return &channelGorm{db: db}
}

const channelProfileQuery = `
SELECT u.id, u.full_name, u.username, u.avatar, u.cover_image, u.email,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscriber_count,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS channels_subscribed_to_count,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?) AS caller_edges
FROM users u
WHERE u.username = ?
LIMIT 1`

type channelRow struct {
	ID                        string
	FullName                  string
	Username                  string
	Avatar                    string
	CoverImage                string
	Email                     string
	SubscriberCount           int64
	ChannelsSubscribedToCount int64
	CallerEdges               int64
}

// ChannelProfile aggregates the channel in a single round trip.
func (r *channelGorm) ChannelProfile(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error) {
	var rows []channelRow
	if err := r.db.WithContext(ctx).Raw(channelProfileQuery, callerID, username).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, usecase.ErrChannelNotFound
	}

	row := rows[0]
	return &entity.ChannelProfile{
		ID:                        row.ID,
		FullName:                  row.FullName,
		Username:                  row.Username,
		Avatar:                    row.Avatar,
		CoverImage:                row.CoverImage,
		Email:                     row.Email,
		SubscriberCount:           row.SubscriberCount,
		ChannelsSubscribedToCount: row.ChannelsSubscribedToCount,
		IsSubscribed:              row.CallerEdges > 0,
	}, nil
}

// Missing videos drop out of the inner join; missing owners leave NULL columns.
const watchHistoryQuery = `
SELECT v.id, v.title, v.description, v.video_file, v.thumbnail, v.duration, v.views,
	v.is_published, v.created_at, v.updated_at,
	o.id AS owner_id, o.full_name AS owner_full_name, o.avatar AS owner_avatar
FROM watch_history_entries w
JOIN videos v ON v.id = w.video_id
LEFT JOIN users o ON o.id = v.owner_id
WHERE w.user_id = ?
ORDER BY w.position ASC`

type historyRow struct {
	ID            string
	Title         string
	Description   string
	VideoFile     string
	Thumbnail     string
	Duration      float64
	Views         int64
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OwnerID       sql.NullString
	OwnerFullName sql.NullString
	OwnerAvatar   sql.NullString
}

// WatchHistory returns the user's watched videos ordered by history position.
func (r *channelGorm) WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, usecase.ErrUserNotFound
	}

	var rows []historyRow
	if err := r.db.WithContext(ctx).Raw(watchHistoryQuery, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	videos := make([]entity.WatchedVideo, 0, len(rows))
	for _, row := range rows {
		v := entity.WatchedVideo{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			VideoFile:   row.VideoFile,
			Thumbnail:   row.Thumbnail,
			Duration:    row.Duration,
			Views:       row.Views,
			IsPublished: row.IsPublished,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		}
		if row.OwnerID.Valid {
			v.Owner = &entity.VideoOwner{
				ID:       row.OwnerID.String,
				FullName: row.OwnerFullName.String,
				Avatar:   row.OwnerAvatar.String,
			}
		}
		videos = append(videos, v)
	}
	return videos, nil
}
