package knowledge

import (
	"strings"
	"unicode"
)

// RuneMatcher decides which runes take part in keyword extraction. The
// default matcher keeps ideographic (Han) runes only; other scripts can be
// plugged in without touching the windowing logic.
type RuneMatcher func(r rune) bool

// MatchHan is the default rune matcher.
func MatchHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// defaultStopwords are high-frequency function words that carry no topical
// signal. Single-rune entries are dropped from the filtered sequence,
// multi-rune entries are dropped from the emitted windows.
var defaultStopwords = []string{
	"的", "是", "在", "有", "和", "了", "与", "个", "对", "为",
	"这", "那", "什么", "如何", "怎么", "哪些", "哪个", "吗", "呢", "地方",
}

// Extractor turns free text into a keyword set by sliding 1 to 3 rune
// windows over the matcher-filtered rune sequence.
type Extractor struct {
	matcher   RuneMatcher
	stopwords map[string]bool
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRuneMatcher replaces the default Han matcher.
func WithRuneMatcher(matcher RuneMatcher) ExtractorOption {
	return func(e *Extractor) {
		e.matcher = matcher
	}
}

// WithStopwords replaces the default stopword list.
func WithStopwords(stopwords []string) ExtractorOption {
	return func(e *Extractor) {
		e.stopwords = make(map[string]bool, len(stopwords))
		for _, w := range stopwords {
			e.stopwords[w] = true
		}
	}
}

// NewExtractor creates an Extractor with the default matcher and stopwords.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		matcher:   MatchHan,
		stopwords: make(map[string]bool, len(defaultStopwords)),
	}
	for _, w := range defaultStopwords {
		e.stopwords[w] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the deduplicated keyword set for text. Pure and
// deterministic: identical input always yields an identical set.
func (e *Extractor) Extract(text string) map[string]bool {
	keywords := make(map[string]bool)

	var chars []rune
	for _, r := range strings.ToLower(text) {
		if !e.matcher(r) {
			continue
		}
		if e.stopwords[string(r)] {
			continue
		}
		chars = append(chars, r)
	}

	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(chars); i++ {
			word := string(chars[i : i+n])
			if e.stopwords[word] {
				continue
			}
			keywords[word] = true
		}
	}

	return keywords
}
