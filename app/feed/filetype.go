package feed

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lysyi3m/ilias-herald/app/catalog"
)

const targetParam = "target"

// ErrMissingTarget is returned when an item link carries no target query
// parameter. Every item of the feed is expected to have one.
var ErrMissingTarget = errors.New("link has no target parameter")

// ClassifyFileType resolves the file type from the first "_" separated
// segment of the link's target parameter. It returns nil without error
// when the segment is not a registered file type.
func ClassifyFileType(link string, c *catalog.Catalog) (*catalog.FileType, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("failed to parse link: %w", err)
	}

	values, ok := u.Query()[targetParam]
	if !ok || len(values) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTarget, link)
	}

	key, _, _ := strings.Cut(values[0], "_")
	fileType, ok := c.FileType(key)
	if !ok {
		return nil, nil
	}
	return fileType, nil
}
