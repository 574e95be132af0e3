// Package entity defines the read models of the channel feature.
package entity

import "time"

// ChannelProfile is the public view of a user with subscription counts relative to the caller.
type ChannelProfile struct {
	ID                        string `json:"id"`
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	Email                     string `json:"email"`
	SubscriberCount           int64  `json:"subscriberCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// VideoOwner is the reduced projection of a video's owner.
type VideoOwner struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// WatchedVideo is a watch history item. Owner is nil when the owner no longer exists.
type WatchedVideo struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	VideoFile   string      `json:"videoFile"`
	Thumbnail   string      `json:"thumbnail"`
	Duration    float64     `json:"duration"`
	Views       int64       `json:"views"`
	IsPublished bool        `json:"isPublished"`
	Owner       *VideoOwner `json:"owner"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
