package notify

import (
	"strings"
	"time"

	"github.com/lysyi3m/ilias-herald/app/catalog"
	"github.com/lysyi3m/ilias-herald/app/feed"
)

const dateLayout = "02.01.2006"

func BuildAnnouncement(item feed.ParsedItem, fileType *catalog.FileType, link string) Announcement {
	subject := item.DisplaySubject()

	parts := make([]string, 0, 4)
	for _, part := range []string{item.Status.Icon, fileTypeIcon(fileType), subject.Icon, item.FileName} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	a := Announcement{
		Title:  strings.Join(parts, " "),
		Color:  subject.ColorValue(),
		URL:    link,
		Author: subject.Name,
	}
	if item.FilePath != "" {
		a.Description = "```" + item.FilePath + "```"
	}
	return a
}

func BuildDeadlineNotice(d feed.Deadline) string {
	due := d.DueAt.In(time.Local).Format(dateLayout)
	if d.Subject.ExerciseTime != "" {
		due += " " + d.Subject.ExerciseTime
	}

	return strings.Join([]string{
		strings.TrimSpace(d.Subject.Icon+" "+d.Subject.Name) + " - " + d.FileName,
		"Verfügbar seit: " + d.PublishedAt.In(time.Local).Format(dateLayout),
		"Fällig am: " + due,
		"Angabe: " + d.Link,
	}, "\n")
}

func fileTypeIcon(fileType *catalog.FileType) string {
	if fileType == nil {
		return ""
	}
	return fileType.Icon
}
