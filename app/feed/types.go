package feed

import (
	"time"

	"github.com/lysyi3m/ilias-herald/app/catalog"
)

// ISODateLayout renders timestamps the way they are kept in the dedup
// store: UTC with millisecond precision, e.g. 2024-01-01T10:00:00.000Z.
const ISODateLayout = "2006-01-02T15:04:05.000Z07:00"

type Metadata struct {
	Title string
	Link  string
}

type Item struct {
	Link        string // identity of the item
	Title       string
	PublishedAt time.Time
	ISODate     string
}

// ParsedItem is the result of splitting an item title into its parts.
type ParsedItem struct {
	Subject     *catalog.Subject // nil when SubjectKey is not in the table
	SubjectKey  string
	FileName    string
	StatusLabel string
	Status      catalog.Status // zero value when StatusLabel is unknown
	FilePath    string
}

// DisplaySubject returns the resolved subject or a neutral fallback
// built from the raw key.
func (p ParsedItem) DisplaySubject() *catalog.Subject {
	if p.Subject != nil {
		return p.Subject
	}
	return catalog.FallbackSubject(p.SubjectKey)
}

// Deadline describes an uploaded assignment and when it is due.
type Deadline struct {
	Subject     *catalog.Subject
	FileName    string
	Link        string
	PublishedAt time.Time
	DueAt       time.Time
}
