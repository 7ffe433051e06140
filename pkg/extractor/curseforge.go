package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

const curseForgeLabel = "Downloads"

// CurseForgeExtractor reads the value that follows the "Downloads" label of
// a project page's stats list (<dt>Downloads</dt><dd>1234</dd>).
type CurseForgeExtractor struct{}

func NewCurseForgeExtractor() *CurseForgeExtractor {
	return &CurseForgeExtractor{}
}

func (e *CurseForgeExtractor) Source() models.SourceID {
	return models.SourceCurseForge
}

func (e *CurseForgeExtractor) Extract(doc *goquery.Document, addonName string) (int64, error) {
	label := doc.Find("dt").FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == curseForgeLabel
	}).First()
	if label.Length() == 0 {
		return 0, fmt.Errorf("%w: no <dt>%s</dt>", ErrAnchorNotFound, curseForgeLabel)
	}

	value := label.Next()
	if value.Length() == 0 {
		return 0, fmt.Errorf("%w: nothing follows <dt>%s</dt>", ErrAnchorNotFound, curseForgeLabel)
	}

	return ParseCount(value.Text())
}
