package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

// SourceExtractor pulls an add-on's download count out of one source's page.
type SourceExtractor interface {
	Source() models.SourceID
	Extract(doc *goquery.Document, addonName string) (int64, error)
}
