package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	plainCountRegex   = regexp.MustCompile(`^\d+$`)
	groupedCountRegex = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
)

// ParseCount converts scraped text such as "1234" or "1,234" to a count.
// Empty, signed, fractional or otherwise non-numeric text is rejected.
func ParseCount(text string) (int64, error) {
	text = strings.TrimSpace(text)
	switch {
	case plainCountRegex.MatchString(text):
	case groupedCountRegex.MatchString(text):
		text = strings.ReplaceAll(text, ",", "")
	default:
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, text)
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrNotNumeric, text, err)
	}
	return n, nil
}
