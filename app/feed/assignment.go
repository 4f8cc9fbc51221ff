package feed

import (
	"strings"
	"time"
)

// CheckAssignment decides whether item is an exercise sheet of a subject
// with a hand-in deadline. The due date is counted in calendar days of
// the local timezone.
func CheckAssignment(item ParsedItem, link string, publishedAt time.Time) (*Deadline, bool) {
	subject := item.Subject
	if subject == nil || !subject.HasExercises() {
		return nil, false
	}

	if !strings.HasPrefix(item.FilePath, subject.ExercisePath) {
		return nil, false
	}

	if !subject.MatchesDocument(item.FileName) {
		return nil, false
	}

	published := publishedAt.In(time.Local)
	return &Deadline{
		Subject:     subject,
		FileName:    item.FileName,
		Link:        link,
		PublishedAt: published,
		DueAt:       published.AddDate(0, 0, subject.ExerciseDeadline),
	}, true
}
