package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

const (
	SubjectsFile  = "subjects.yml"
	StatusesFile  = "statuses.yml"
	FileTypesFile = "filetypes.yml"
)

// Catalog holds the classification tables. It is built once at startup
// and never modified afterwards, so lookups need no locking.
type Catalog struct {
	subjects  map[string]*Subject
	statuses  map[string]Status
	fileTypes map[string]*FileType
}

// Load reads the three table files from dir. Subjects and statuses are
// optional; the file type table must exist and be non-empty because no
// item can be classified without it.
func Load(dir string) (*Catalog, error) {
	subjects := make(map[string]*Subject)
	if err := readTable(filepath.Join(dir, SubjectsFile), &subjects); err != nil {
		return nil, err
	}

	statuses := make(map[string]Status)
	if err := readTable(filepath.Join(dir, StatusesFile), &statuses); err != nil {
		return nil, err
	}

	fileTypes := make(map[string]*FileType)
	if err := readTable(filepath.Join(dir, FileTypesFile), &fileTypes); err != nil {
		return nil, err
	}
	if len(fileTypes) == 0 {
		return nil, fmt.Errorf("%s is missing or empty in %s", FileTypesFile, dir)
	}

	c, err := New(subjects, statuses, fileTypes)
	if err != nil {
		return nil, err
	}

	slog.Debug("Classification tables loaded",
		"dir", dir,
		"subjects", len(c.subjects),
		"statuses", len(c.statuses),
		"file_types", len(c.fileTypes))

	return c, nil
}

// New validates the tables and indexes them by NFC-normalized key.
func New(subjects map[string]*Subject, statuses map[string]Status, fileTypes map[string]*FileType) (*Catalog, error) {
	c := &Catalog{
		subjects:  make(map[string]*Subject, len(subjects)),
		statuses:  make(map[string]Status, len(statuses)),
		fileTypes: make(map[string]*FileType, len(fileTypes)),
	}

	for key, subject := range subjects {
		if subject == nil {
			return nil, fmt.Errorf("subject '%s' has no definition", key)
		}
		s := *subject
		s.Key = norm.NFC.String(key)
		if err := prepareSubject(&s); err != nil {
			return nil, fmt.Errorf("invalid subject '%s': %w", key, err)
		}
		c.subjects[s.Key] = &s
	}

	for label, status := range statuses {
		c.statuses[norm.NFC.String(label)] = status
	}

	for key, fileType := range fileTypes {
		if fileType == nil {
			return nil, fmt.Errorf("file type '%s' has no definition", key)
		}
		ft := *fileType
		ft.Key = key
		c.fileTypes[key] = &ft
	}

	return c, nil
}

func (c *Catalog) Subject(key string) (*Subject, bool) {
	s, ok := c.subjects[key]
	return s, ok
}

func (c *Catalog) Status(label string) (Status, bool) {
	s, ok := c.statuses[label]
	return s, ok
}

func (c *Catalog) FileType(key string) (*FileType, bool) {
	ft, ok := c.fileTypes[key]
	return ft, ok
}

func (c *Catalog) Counts() (subjects, statuses, fileTypes int) {
	return len(c.subjects), len(c.statuses), len(c.fileTypes)
}

func prepareSubject(s *Subject) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	color, err := parseColor(s.Color)
	if err != nil {
		return err
	}
	s.colorValue = color

	if s.ExerciseDeadline < 0 {
		return fmt.Errorf("exercise deadline must be non-negative")
	}

	if s.ExerciseDocumentName != "" {
		pattern, err := regexp.Compile(s.ExerciseDocumentName)
		if err != nil {
			return fmt.Errorf("invalid exercise document pattern: %w", err)
		}
		s.documentPattern = pattern
	}

	return nil
}

func parseColor(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(value), "#"), "0x")
	color, err := strconv.ParseInt(hex, 16, 32)
	if err != nil || color < 0 || color > 0xFFFFFF {
		return 0, fmt.Errorf("invalid color '%s'", value)
	}
	return int(color), nil
}

func readTable(path string, out any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Classification table not found, using empty table", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
