package extractor

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

type Registry struct {
	extractors map[models.SourceID]SourceExtractor
}

func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[models.SourceID]SourceExtractor),
	}
}

// NewDefaultRegistry returns a registry holding every built-in source.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewCurseForgeExtractor())
	r.Register(NewWowInterfaceExtractor())
	return r
}

// Register adds e, replacing any extractor already bound to its source.
func (r *Registry) Register(e SourceExtractor) {
	r.extractors[e.Source()] = e
}

func (r *Registry) Has(source models.SourceID) bool {
	_, ok := r.extractors[source]
	return ok
}

func (r *Registry) Sources() []models.SourceID {
	ids := make([]models.SourceID, 0, len(r.extractors))
	for id := range r.extractors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Extract parses markup and runs the extractor registered for source.
// Every failure is returned as an *ExtractionError.
func (r *Registry) Extract(source models.SourceID, addonName, markup string) (int64, error) {
	e, ok := r.extractors[source]
	if !ok {
		return 0, &ExtractionError{Source: source, Addon: addonName, Err: ErrUnknownSource}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0, &ExtractionError{Source: source, Addon: addonName, Err: err}
	}

	count, err := e.Extract(doc, addonName)
	if err != nil {
		return 0, &ExtractionError{Source: source, Addon: addonName, Err: err}
	}
	return count, nil
}
