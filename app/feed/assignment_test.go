package feed

import (
	"testing"
	"time"
)

func TestCheckAssignment(t *testing.T) {
	c := newTestCatalog(t)
	subject, _ := c.Subject("CS101")
	published := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	link := "https://ilias.example.com/goto.php?target=file_1_download"

	deadline, ok := CheckAssignment(ParsedItem{
		Subject:  subject,
		FileName: "Sheet01.pdf",
		FilePath: "CS101/Exercises",
	}, link, published)

	if !ok {
		t.Fatal("Expected assignment to be detected")
	}
	if !deadline.DueAt.Equal(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected due date 2024-01-08, got %v", deadline.DueAt)
	}
	if !deadline.PublishedAt.Equal(published) {
		t.Errorf("Expected published %v, got %v", published, deadline.PublishedAt)
	}
	if deadline.Link != link || deadline.FileName != "Sheet01.pdf" || deadline.Subject != subject {
		t.Errorf("Unexpected deadline fields: %+v", deadline)
	}
}

func TestCheckAssignmentNoOp(t *testing.T) {
	c := newTestCatalog(t)
	withExercises, _ := c.Subject("CS101")
	withoutExercises, _ := c.Subject("Mathe für Informatiker")
	published := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item ParsedItem
	}{
		{
			name: "unresolved subject",
			item: ParsedItem{SubjectKey: "PHY200", FileName: "Sheet01.pdf", FilePath: "CS101/Exercises"},
		},
		{
			name: "subject without deadline",
			item: ParsedItem{Subject: withoutExercises, FileName: "Sheet01.pdf", FilePath: "CS101/Exercises"},
		},
		{
			name: "path outside exercise folder",
			item: ParsedItem{Subject: withExercises, FileName: "Sheet01.pdf", FilePath: "CS101/Slides"},
		},
		{
			name: "file name does not match",
			item: ParsedItem{Subject: withExercises, FileName: "Solution01.pdf", FilePath: "CS101/Exercises"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if deadline, ok := CheckAssignment(tt.item, "https://x", published); ok {
				t.Errorf("Expected no assignment, got %+v", deadline)
			}
		})
	}
}

func TestCheckAssignmentNestedExercisePath(t *testing.T) {
	c := newTestCatalog(t)
	subject, _ := c.Subject("CS101")

	_, ok := CheckAssignment(ParsedItem{
		Subject:  subject,
		FileName: "Sheet12.pdf",
		FilePath: "CS101/Exercises/Week12",
	}, "https://x", time.Now())

	if !ok {
		t.Error("Expected paths below the exercise path to match")
	}
}
