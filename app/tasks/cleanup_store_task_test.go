package tasks

import (
	"context"
	"testing"

	"github.com/lysyi3m/ilias-herald/app/database"
	"github.com/lysyi3m/ilias-herald/app/feed"
)

func TestCleanupStoreEvictsOldEntries(t *testing.T) {
	server := newFeedServer(rssDocument())
	defer server.Close()

	store, path := openTestStore(t)
	store.Record("https://ilias.example.com/goto.php?target=file_1_download", feed.FormatISODate(daysAgo(40)))
	store.Record("https://ilias.example.com/goto.php?target=file_2_download", feed.FormatISODate(daysAgo(5)))

	f := newTestFactory(t, server, store, &recordingSink{})

	first := f.NewCleanupStoreTask(TriggerStartup)
	if err := first.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if first.Evicted != 1 {
		t.Errorf("Expected 1 evicted entry, got %d", first.Evicted)
	}

	second := f.NewCleanupStoreTask(TriggerTimer)
	if err := second.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if second.Evicted != 0 {
		t.Errorf("Expected second cleanup to evict nothing, got %d", second.Evicted)
	}

	reopened, err := database.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Len() != 1 || !reopened.Contains("https://ilias.example.com/goto.php?target=file_2_download") {
		t.Errorf("Expected only the recent entry to be persisted, got %d entries", reopened.Len())
	}
}
