package feed

import (
	"testing"
	"time"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>ILIAS News</title>
    <link>https://ilias.example.com</link>
    <description>Persönlicher Newsfeed</description>
    <item>
      <title>[CS101 > Übungen] Blatt02.pdf: Neu</title>
      <link>https://ilias.example.com/goto.php?target=file_1002_download</link>
      <pubDate>Tue, 09 Jan 2024 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>[CS101 > Folien] Vorlesung01.pdf: Aktualisiert</title>
      <link>https://ilias.example.com/goto.php?target=file_1001_download</link>
      <pubDate>Mon, 01 Jan 2024 08:30:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	metadata, items, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "ILIAS News" {
		t.Errorf("Expected title 'ILIAS News', got: %s", metadata.Title)
	}
	if metadata.Link != "https://ilias.example.com" {
		t.Errorf("Expected link 'https://ilias.example.com', got: %s", metadata.Link)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	// Document order is preserved.
	first := items[0]
	if first.Title != "[CS101 > Übungen] Blatt02.pdf: Neu" {
		t.Errorf("Unexpected first title: %s", first.Title)
	}
	if first.Link != "https://ilias.example.com/goto.php?target=file_1002_download" {
		t.Errorf("Unexpected first link: %s", first.Link)
	}
	if first.ISODate != "2024-01-09T10:00:00.000Z" {
		t.Errorf("Expected ISO date '2024-01-09T10:00:00.000Z', got: %s", first.ISODate)
	}
	if !first.PublishedAt.Equal(time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected published time: %v", first.PublishedAt)
	}

	if items[1].ISODate != "2024-01-01T08:30:00.000Z" {
		t.Errorf("Expected ISO date '2024-01-01T08:30:00.000Z', got: %s", items[1].ISODate)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ILIAS Atom</title>
  <link href="https://ilias.example.com"/>
  <updated>2024-01-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>[MA101] Skript.pdf: Neu</title>
    <link href="https://ilias.example.com/goto.php?target=file_7_download"/>
    <id>urn:uuid:entry-1</id>
    <updated>2024-01-03T10:00:00Z</updated>
  </entry>
</feed>`

	parser := NewParser()
	_, items, err := parser.Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}

	// Atom entries only carry <updated>, which is used as publish date.
	if items[0].ISODate != "2024-01-03T10:00:00.000Z" {
		t.Errorf("Expected updated date as ISO date, got: %s", items[0].ISODate)
	}
}

func TestParseItemWithoutDate(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>ILIAS News</title>
    <item>
      <title>[CS101] Ohne Datum.pdf: Neu</title>
      <link>https://ilias.example.com/goto.php?target=file_1_download</link>
    </item>
  </channel>
</rss>`

	fetchedAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	parser := NewParser()
	parser.now = func() time.Time { return fetchedAt }

	_, items, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !items[0].PublishedAt.Equal(fetchedAt) {
		t.Errorf("Expected fetch time as publish date, got: %v", items[0].PublishedAt)
	}
	if items[0].ISODate != "2024-02-01T12:00:00.000Z" {
		t.Errorf("Unexpected ISO date: %s", items[0].ISODate)
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, _, err := parser.Run([]byte("invalid xml"))

	if err == nil {
		t.Error("Expected error for invalid XML")
	}
}

func TestISODateRoundTrip(t *testing.T) {
	original := time.Date(2024, 3, 15, 9, 45, 30, 123000000, time.FixedZone("CET", 3600))

	formatted := FormatISODate(original)
	if formatted != "2024-03-15T08:45:30.123Z" {
		t.Errorf("Unexpected formatted date: %s", formatted)
	}

	parsed, err := time.Parse(time.RFC3339, formatted)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !parsed.Equal(original) {
		t.Errorf("Expected %v, got %v", original, parsed)
	}
}
