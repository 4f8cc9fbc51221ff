package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/ilias-herald/app/feed"
	"github.com/lysyi3m/ilias-herald/app/metrics"
	"github.com/lysyi3m/ilias-herald/app/notify"
)

// ReloadResult counts what happened to the items of one pass.
type ReloadResult struct {
	Total        int
	Invalid      int
	Unclassified int
	Duplicates   int
	New          int
	Failed       int
	Assignments  int
	StoppedEarly bool
}

type ReloadFeedTask struct {
	Task
	factory *Factory
	Result  ReloadResult
}

// Execute runs one ingestion pass. The feed is expected newest-first:
// scanning stops at the first item older than the retention window and
// later items are not looked at, even if they are newer.
func (t *ReloadFeedTask) Execute(ctx context.Context) error {
	metrics.ReloadStarted()
	defer func(start time.Time) { metrics.ObserveReload(time.Since(start)) }(time.Now())

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f := t.factory

	data, err := t.fetchFeed(ctx, f.settings.URL)
	if err != nil {
		metrics.ReloadFailed()
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	metadata, items, err := f.parser.Run(data)
	if err != nil {
		metrics.ReloadFailed()
		return fmt.Errorf("failed to parse feed: %w", err)
	}
	slog.Debug("Feed parsed", "feed", metadata.Title, "link", metadata.Link, "items", len(items))

	cutoff := f.now().AddDate(0, 0, -f.settings.StoreTime)
	t.Result = ReloadResult{Total: len(items)}

	for _, item := range items {
		fileType, err := feed.ClassifyFileType(item.Link, f.catalog)
		if err != nil {
			slog.Error("Skipping feed item", "link", item.Link, "title", item.Title, "error", err)
			metrics.ItemSkipped(metrics.SkipInvalid)
			t.Result.Invalid++
			continue
		}
		if fileType == nil {
			slog.Debug("Unclassified feed item", "link", item.Link)
			metrics.ItemSkipped(metrics.SkipUnclassified)
			t.Result.Unclassified++
			continue
		}

		if item.PublishedAt.Before(cutoff) {
			metrics.ItemSkipped(metrics.SkipTooOld)
			t.Result.StoppedEarly = true
			break
		}

		if f.store.Contains(item.Link) {
			metrics.ItemSkipped(metrics.SkipDuplicate)
			t.Result.Duplicates++
			continue
		}

		f.store.Record(item.Link, item.ISODate)
		parsed := feed.ParseTitle(item.Title, f.catalog)

		announcement := notify.BuildAnnouncement(parsed, fileType, item.Link)
		if err := f.sink.Announce(ctx, announcement); err != nil {
			// Forgetting the link lets the next pass pick the item up again.
			f.store.Forget(item.Link)
			slog.Error("Failed to announce feed item", "link", item.Link, "error", err)
			metrics.DispatchFailed("announcement")
			t.Result.Failed++
			continue
		}
		metrics.ItemDispatched()
		t.Result.New++

		deadline, ok := feed.CheckAssignment(parsed, item.Link, item.PublishedAt)
		if !ok {
			continue
		}
		if err := f.sink.NotifyDeadline(ctx, notify.BuildDeadlineNotice(*deadline)); err != nil {
			slog.Error("Failed to send deadline notice", "link", item.Link, "error", err)
			metrics.DispatchFailed("deadline")
			continue
		}
		metrics.AssignmentNotified()
		t.Result.Assignments++
	}

	if err := f.store.Persist(); err != nil {
		metrics.ReloadFailed()
		return fmt.Errorf("failed to persist dedup store: %w", err)
	}
	metrics.SetStoreEntries(f.store.Len())

	slog.Info("Task completed",
		"type", "ReloadedFeed",
		"trigger", string(t.Trigger),
		"feed", metadata.Title,
		"duration", t.GetDuration(),
		"total", t.Result.Total,
		"invalid", t.Result.Invalid,
		"unclassified", t.Result.Unclassified,
		"duplicates", t.Result.Duplicates,
		"new", t.Result.New,
		"failed", t.Result.Failed,
		"assignments", t.Result.Assignments,
		"stopped_early", t.Result.StoppedEarly)

	return nil
}

func (t *ReloadFeedTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeout := t.factory.settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if ua := t.factory.settings.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := t.factory.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timed out after %s: %w", timeout, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
