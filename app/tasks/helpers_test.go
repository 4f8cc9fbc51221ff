package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lysyi3m/ilias-herald/app/catalog"
	"github.com/lysyi3m/ilias-herald/app/database"
	"github.com/lysyi3m/ilias-herald/app/feed"
	"github.com/lysyi3m/ilias-herald/app/notify"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type rssItem struct {
	title     string
	target    string // empty means the link has no target parameter
	published time.Time
}

func (i rssItem) link() string {
	if i.target == "" {
		return "https://ilias.example.com/ilias.php?ref_id=1"
	}
	return "https://ilias.example.com/goto.php?target=" + i.target
}

func rssDocument(items ...rssItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel>`)
	b.WriteString(`<title>ILIAS</title><link>https://ilias.example.com</link>`)
	for _, item := range items {
		b.WriteString("<item>")
		fmt.Fprintf(&b, "<title>%s</title><link>%s</link>", item.title, item.link())
		if !item.published.IsZero() {
			fmt.Fprintf(&b, "<pubDate>%s</pubDate>", item.published.Format(time.RFC1123Z))
		}
		b.WriteString("</item>")
	}
	b.WriteString("</channel></rss>")
	return b.String()
}

func daysAgo(days int) time.Time {
	return fixedNow.AddDate(0, 0, -days)
}

// feedServer serves body until it is replaced with setBody.
type feedServer struct {
	*httptest.Server
	mu     sync.Mutex
	body   string
	status int
	agent  string
}

func newFeedServer(body string) *feedServer {
	fs := &feedServer{body: body, status: http.StatusOK}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.agent = r.UserAgent()
		w.WriteHeader(fs.status)
		_, _ = w.Write([]byte(fs.body))
	}))
	return fs
}

func (fs *feedServer) setResponse(status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status = status
	fs.body = body
}

func (fs *feedServer) userAgent() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.agent
}

type recordingSink struct {
	mu            sync.Mutex
	announcements []notify.Announcement
	deadlines     []string
	failURLs      map[string]bool
}

func (s *recordingSink) Announce(ctx context.Context, a notify.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failURLs[a.URL] {
		return errors.New("channel unavailable")
	}
	s.announcements = append(s.announcements, a)
	return nil
}

func (s *recordingSink) NotifyDeadline(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines = append(s.deadlines, text)
	return nil
}

func (s *recordingSink) announced() []notify.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Announcement(nil), s.announcements...)
}

func (s *recordingSink) deadlineNotices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deadlines...)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.New(
		map[string]*catalog.Subject{
			"CS101": {
				Name:                 "Informatik 1",
				Icon:                 "💻",
				Color:                "#037a90",
				ExercisePath:         "CS101 > Übungen",
				ExerciseDocumentName: `^Blatt\d+\.pdf$`,
				ExerciseDeadline:     7,
				ExerciseTime:         "23:59",
			},
		},
		map[string]catalog.Status{
			"Neu": {Name: "Neu", Icon: "🆕"},
		},
		map[string]*catalog.FileType{
			"file": {Name: "Datei", Icon: "📄"},
			"fold": {Name: "Ordner", Icon: "📂"},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func openTestStore(t *testing.T) (*database.FileStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "messagesstore.json")
	store, err := database.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return store, path
}

func newTestFactory(t *testing.T, server *feedServer, store database.DedupStore, sink notify.Sink) *Factory {
	t.Helper()

	f := NewFactory(
		Settings{URL: server.URL, StoreTime: 30, Timeout: 5 * time.Second, UserAgent: "ILIAS Herald/test"},
		server.Client(),
		feed.NewParser(),
		testCatalog(t),
		store,
		sink,
	)
	f.now = func() time.Time { return fixedNow }
	return f
}
