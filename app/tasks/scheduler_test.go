package tasks

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestUntilNextMidnight(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("Timezone data unavailable: %v", err)
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{name: "noon", now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), want: 12 * time.Hour},
		{name: "just after midnight", now: time.Date(2024, 3, 15, 0, 0, 1, 0, time.UTC), want: 24*time.Hour - time.Second},
		{name: "end of month", now: time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC), want: 30 * time.Minute},
		// Clocks move forward on 2024-03-31, so that day has 23 hours.
		{name: "dst change", now: time.Date(2024, 3, 31, 0, 0, 0, 0, berlin), want: 23 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := untilNextMidnight(tt.now); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSchedulerCoalescesPendingTasks(t *testing.T) {
	server := newFeedServer(rssDocument())
	defer server.Close()

	store, _ := openTestStore(t)
	s := NewScheduler(newTestFactory(t, server, store, &recordingSink{}), time.Minute)
	defer s.Stop()

	for range 3 {
		if err := s.EnqueueReload(TriggerCommand); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	}
	if err := s.EnqueueCleanup(TriggerAPI); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := len(s.taskQueue); got != 2 {
		t.Errorf("Expected 2 queued tasks, got %d", got)
	}
}

func TestSchedulerRejectsTasksAfterStop(t *testing.T) {
	server := newFeedServer(rssDocument())
	defer server.Close()

	store, _ := openTestStore(t)
	s := NewScheduler(newTestFactory(t, server, store, &recordingSink{}), time.Minute)
	s.Stop()

	if err := s.EnqueueReload(TriggerCommand); err == nil {
		t.Error("Expected error after Stop")
	}
	if len(s.taskQueue) != 0 {
		t.Errorf("Expected empty queue, got %d", len(s.taskQueue))
	}
}

func TestSchedulerRunsStartupTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	server := newFeedServer(rssDocument(
		rssItem{title: "[CS101 > Skript] Folien.pdf: Neu", target: "file_1_download", published: daysAgo(1)},
	))
	defer server.Close()

	store, _ := openTestStore(t)
	sink := &recordingSink{}
	s := NewScheduler(newTestFactory(t, server, store, sink), time.Hour)

	s.Start()
	defer s.Stop()

	waitFor(t, func() bool {
		stats := s.Stats()
		return stats.LastReload != nil && stats.LastCleanup != nil
	})

	if got := len(sink.announced()); got != 1 {
		t.Errorf("Expected 1 announcement, got %d", got)
	}
	if stats := s.Stats(); stats.Completed != 2 || stats.Failed != 0 {
		t.Errorf("Expected 2 completed tasks, got %+v", stats)
	}
}

func TestSchedulerRecordsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	server := newFeedServer("")
	defer server.Close()
	server.setResponse(503, "maintenance")

	store, _ := openTestStore(t)
	s := NewScheduler(newTestFactory(t, server, store, &recordingSink{}), time.Hour)

	s.Start()
	defer s.Stop()

	waitFor(t, func() bool { return s.Stats().Failed == 1 && s.Stats().LastCleanup != nil })

	if stats := s.Stats(); stats.LastReload != nil || stats.LastError == "" {
		t.Errorf("Expected failed reload to be recorded, got %+v", stats)
	}
}
