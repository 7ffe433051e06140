package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

// rowDepth is how far the title link sits below its row on an author page.
const rowDepth = 3

// WowInterfaceExtractor reads an add-on's count from an author listing:
// the title link's row ends with a cell whose first child holds the count.
type WowInterfaceExtractor struct{}

func NewWowInterfaceExtractor() *WowInterfaceExtractor {
	return &WowInterfaceExtractor{}
}

func (e *WowInterfaceExtractor) Source() models.SourceID {
	return models.SourceWowInterface
}

func (e *WowInterfaceExtractor) Extract(doc *goquery.Document, addonName string) (int64, error) {
	if addonName == "" {
		return 0, fmt.Errorf("%w: empty addon name", ErrAnchorNotFound)
	}

	link := doc.Find("a").FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), addonName)
	}).First()
	if link.Length() == 0 {
		return 0, fmt.Errorf("%w: no link containing %q", ErrAnchorNotFound, addonName)
	}

	row := link
	for i := 0; i < rowDepth; i++ {
		row = row.Parent()
		if row.Length() == 0 {
			return 0, fmt.Errorf("%w: link has fewer than %d ancestors", ErrAnchorNotFound, rowDepth)
		}
	}

	cell := row.Children().Last()
	if cell.Length() == 0 {
		return 0, fmt.Errorf("%w: row has no cells", ErrAnchorNotFound)
	}

	value := cell.Children().First()
	if value.Length() == 0 {
		return 0, fmt.Errorf("%w: last cell is empty", ErrAnchorNotFound)
	}

	return ParseCount(value.Text())
}
