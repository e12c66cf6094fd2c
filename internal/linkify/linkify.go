// Package linkify annotates assistant reply text with outbound catalog
// search links for probable product mentions. Detection is heuristic and
// deliberately pluggable: each pass is an Annotator, and later passes only
// ever see text outside anchors inserted by earlier ones.
package linkify

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Vocabulary drives the two shipped annotation rules.
type Vocabulary struct {
	Categories []string `yaml:"categories"`
	Suffixes   []string `yaml:"suffixes"`
	Articles   []string `yaml:"articles"`
}

// LoadVocabulary reads a rule vocabulary from path, or the embedded
// defaults when path is empty.
func LoadVocabulary(path string) (Vocabulary, error) {
	b := defaultRules
	if path != "" {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			return Vocabulary{}, err
		}
	}
	var v Vocabulary
	if err := yaml.Unmarshal(b, &v); err != nil {
		return Vocabulary{}, err
	}
	if len(v.Categories) == 0 || len(v.Suffixes) == 0 {
		return Vocabulary{}, fmt.Errorf("link rules missing categories or suffixes")
	}
	if len(v.Articles) == 0 {
		v.Articles = []string{"the", "a", "an"}
	}
	return v, nil
}

// Annotator rewrites one kind of product mention into a link. Annotators
// receive only text outside previously inserted anchors.
type Annotator interface {
	Annotate(text string) string
}

// Linkifier applies its annotators in order. Spans already inside an
// anchor are never re-annotated, so the first matching pass wins on
// overlap and the transform is stable under re-application.
type Linkifier struct {
	annotators []Annotator
}

func New(annotators ...Annotator) *Linkifier {
	return &Linkifier{annotators: annotators}
}

// NewDefault builds the standard two-pass linkifier: quoted spans
// containing a category keyword, then noun phrases ending in a generic
// product suffix.
func NewDefault(vocab Vocabulary, searchURL string) *Linkifier {
	return New(
		NewQuotedRule(vocab, searchURL),
		NewSuffixRule(vocab, searchURL),
	)
}

func (l *Linkifier) Apply(text string) string {
	for _, a := range l.annotators {
		text = annotateOutsideAnchors(text, a.Annotate)
	}
	return text
}

var anchorRe = regexp.MustCompile(`(?s)<a\b[^>]*>.*?</a>`)

// annotateOutsideAnchors applies fn to every segment of text that is not
// inside an existing anchor tag.
func annotateOutsideAnchors(text string, fn func(string) string) string {
	var b strings.Builder
	last := 0
	for _, loc := range anchorRe.FindAllStringIndex(text, -1) {
		b.WriteString(fn(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(fn(text[last:]))
	return b.String()
}

func searchLink(searchURL, phrase, label string) string {
	return fmt.Sprintf(`<a href="%s%s" target="_blank">%s</a>`,
		searchURL, url.QueryEscape(phrase), label)
}

// QuotedRule wraps quote-delimited spans that mention a known product
// category.
type QuotedRule struct {
	re         *regexp.Regexp
	categories []string
	searchURL  string
}

func NewQuotedRule(vocab Vocabulary, searchURL string) *QuotedRule {
	return &QuotedRule{
		re:         regexp.MustCompile(`"([^"]+)"|'([^']+)'`),
		categories: lowerAll(vocab.Categories),
		searchURL:  searchURL,
	}
}

func (r *QuotedRule) Annotate(text string) string {
	return r.re.ReplaceAllStringFunc(text, func(m string) string {
		phrase := strings.Trim(m, `"'`)
		lower := strings.ToLower(phrase)
		for _, cat := range r.categories {
			if strings.Contains(lower, cat) {
				return searchLink(r.searchURL, phrase, m)
			}
		}
		return m
	})
}

// SuffixRule wraps token sequences ending in a generic product noun
// ("product", "device", ...). A leading article stays outside the link,
// and phrases of 3 characters or fewer are left alone.
type SuffixRule struct {
	re        *regexp.Regexp
	searchURL string
}

func NewSuffixRule(vocab Vocabulary, searchURL string) *SuffixRule {
	articles := strings.Join(escapeAll(vocab.Articles), "|")
	suffixes := strings.Join(escapeAll(vocab.Suffixes), "|")
	pattern := fmt.Sprintf(`(?i)\b((?:%s)\s+)?((?:[a-z0-9][a-z0-9'-]*\s+){0,3}(?:%s))\b`,
		articles, suffixes)
	return &SuffixRule{re: regexp.MustCompile(pattern), searchURL: searchURL}
}

func (r *SuffixRule) Annotate(text string) string {
	var b strings.Builder
	last := 0
	for _, idx := range r.re.FindAllStringSubmatchIndex(text, -1) {
		article := slice(text, idx[2], idx[3])
		phrase := slice(text, idx[4], idx[5])
		if len(strings.TrimSpace(phrase)) <= 3 {
			continue
		}
		b.WriteString(text[last:idx[0]])
		b.WriteString(article)
		b.WriteString(searchLink(r.searchURL, phrase, phrase))
		last = idx[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func slice(s string, start, end int) string {
	if start < 0 || end < 0 {
		return ""
	}
	return s[start:end]
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func escapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = regexp.QuoteMeta(s)
	}
	return out
}
