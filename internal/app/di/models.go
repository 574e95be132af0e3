// Package di provides dependency injection factories for creating application components.
package di

import (
	authentity "videotube_backend/internal/feature/auth/domain/entity"
	channelentity "videotube_backend/internal/feature/channel/domain/entity"
)

// Models returns every gorm model migrated at startup.
func Models() []any {
	return []any{
		&authentity.User{},
		&channelentity.Subscription{},
		&channelentity.Video{},
		&channelentity.WatchHistoryEntry{},
	}
}
