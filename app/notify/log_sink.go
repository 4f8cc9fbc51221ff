package notify

import (
	"context"
	"log/slog"
)

// LogSink writes notifications to the log. It is used when no chat
// connection is configured.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Announce(ctx context.Context, a Announcement) error {
	slog.Info("Announcement",
		"title", a.Title,
		"author", a.Author,
		"url", a.URL,
		"description", a.Description)
	return nil
}

func (s *LogSink) NotifyDeadline(ctx context.Context, text string) error {
	slog.Info("Deadline notice", "text", text)
	return nil
}
