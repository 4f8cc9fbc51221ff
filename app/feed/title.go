package feed

import (
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/ilias-herald/app/catalog"
	"golang.org/x/text/unicode/norm"
)

const (
	segmentDelimiter = "] "
	statusDelimiter  = ": "
	pathDelimiter    = " > "
)

// ParseTitle splits a title of the form
//
//	[<subject> > <folder> > ...] <file name>: <status>
//
// into its parts and resolves subject and status against the catalog.
// A title without a bracketed path yields an empty FilePath and an
// unresolved subject.
func ParseTitle(title string, c *catalog.Catalog) ParsedItem {
	title = norm.NFC.String(title)

	segments := strings.Split(title, segmentDelimiter)
	fileName, statusLabel, _ := strings.Cut(segments[len(segments)-1], statusDelimiter)

	filePath := dropFirstRune(strings.Join(segments[:len(segments)-1], segmentDelimiter))
	subjectKey, _, _ := strings.Cut(filePath, pathDelimiter)

	parsed := ParsedItem{
		SubjectKey:  subjectKey,
		FileName:    fileName,
		StatusLabel: statusLabel,
		FilePath:    filePath,
	}

	if subject, ok := c.Subject(subjectKey); ok {
		parsed.Subject = subject
	}
	if status, ok := c.Status(statusLabel); ok {
		parsed.Status = status
	}

	return parsed
}

func dropFirstRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[size:]
}
