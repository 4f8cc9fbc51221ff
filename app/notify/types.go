package notify

import (
	"context"
)

// Announcement is the rich message posted for every new feed item.
type Announcement struct {
	Title       string
	Color       int
	URL         string
	Author      string
	Description string
}

// Sink delivers notifications. Announcements go to the primary channel,
// deadline notices to the assignment channel.
type Sink interface {
	Announce(ctx context.Context, a Announcement) error
	NotifyDeadline(ctx context.Context, text string) error
}
