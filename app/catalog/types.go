package catalog

import (
	"regexp"
)

const (
	FallbackSubjectIcon  = "📁"
	FallbackSubjectColor = 0x99AAB5
	FallbackSubjectName  = "Unbekannt"
)

type Subject struct {
	Key                  string `yaml:"-"`
	Name                 string `yaml:"name"`
	Icon                 string `yaml:"icon"`
	Color                string `yaml:"color"` // hex, e.g. "#037a90"
	ExercisePath         string `yaml:"exercise_path"`
	ExerciseDocumentName string `yaml:"exercise_document_name"` // regular expression
	ExerciseDeadline     int    `yaml:"exercise_deadline"`      // days
	ExerciseTime         string `yaml:"exercise_time"`

	colorValue      int
	documentPattern *regexp.Regexp
}

// ColorValue returns Color as an RGB integer.
func (s *Subject) ColorValue() int {
	return s.colorValue
}

// HasExercises reports whether uploads of this subject may be assignments.
func (s *Subject) HasExercises() bool {
	return s.ExerciseDeadline > 0
}

// MatchesDocument reports whether fileName matches the exercise document
// pattern. An empty pattern matches every name.
func (s *Subject) MatchesDocument(fileName string) bool {
	if s.documentPattern == nil {
		return true
	}
	return s.documentPattern.MatchString(fileName)
}

type Status struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type FileType struct {
	Key  string `yaml:"-"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// FallbackSubject is rendered for items whose subject key has no entry in
// the subject table.
func FallbackSubject(key string) *Subject {
	name := key
	if name == "" {
		name = FallbackSubjectName
	}
	return &Subject{
		Key:        key,
		Name:       name,
		Icon:       FallbackSubjectIcon,
		colorValue: FallbackSubjectColor,
	}
}
