package extractor

import (
	"errors"
	"fmt"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

var (
	// ErrAnchorNotFound is returned when the page lacks the element a source's rule starts from
	ErrAnchorNotFound = errors.New("anchor element not found")

	// ErrNotNumeric is returned when the located text is not a non-negative integer
	ErrNotNumeric = errors.New("count is not numeric")

	// ErrUnknownSource is returned when no extractor is registered for a source id
	ErrUnknownSource = errors.New("unknown source")
)

type ExtractionError struct {
	Source models.SourceID
	Addon  string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s count for %q: %v", e.Source, e.Addon, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
