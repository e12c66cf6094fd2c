package linkify

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSearchURL = "https://shop.example.com/s?k="

func defaultVocab(t *testing.T) Vocabulary {
	t.Helper()
	v, err := LoadVocabulary("")
	require.NoError(t, err)
	return v
}

func TestQuotedSpanWithCategoryKeyword(t *testing.T) {
	l := NewDefault(defaultVocab(t), testSearchURL)

	out := l.Apply(`Check out the "Wireless Bluetooth Headphones" today`)
	assert.Contains(t, out, `<a href="`+testSearchURL+`Wireless+Bluetooth+Headphones"`)
	assert.Contains(t, out, `"Wireless Bluetooth Headphones"</a>`)
}

func TestQuotedSpanWithoutKeywordLeftAlone(t *testing.T) {
	l := New(NewQuotedRule(defaultVocab(t), testSearchURL))

	in := `I liked the "Garden Hose" a lot`
	assert.Equal(t, in, l.Apply(in))
}

func TestQuotedMatchingIsCaseInsensitive(t *testing.T) {
	l := New(NewQuotedRule(defaultVocab(t), testSearchURL))
	out := l.Apply(`try the 'Ultra LAPTOP Pro'`)
	assert.Contains(t, out, "</a>")
}

func TestSuffixRuleKeepsArticleOutsideLink(t *testing.T) {
	l := New(NewSuffixRule(defaultVocab(t), testSearchURL))

	out := l.Apply("You might enjoy the smart home device we stock")
	assert.Contains(t, out, `the <a href="`)
	assert.Contains(t, out, `>smart home device</a>`)
}

func TestSuffixRuleRequiresPhraseLongerThanThreeChars(t *testing.T) {
	vocab := defaultVocab(t)
	vocab.Suffixes = append(vocab.Suffixes, "kit")
	l := New(NewSuffixRule(vocab, testSearchURL))

	assert.Equal(t, "kit?", l.Apply("kit?"))
}

func TestSecondPassSkipsInsertedAnchors(t *testing.T) {
	l := NewDefault(defaultVocab(t), testSearchURL)

	out := l.Apply(`The "noise cancelling headphone product" is popular`)
	// The quoted pass wins the overlap; the suffix pass must not nest a
	// second anchor inside it.
	assert.Equal(t, 1, strings.Count(out, "<a href="))
	assert.Equal(t, 1, strings.Count(out, "</a>"))
}

func TestApplyIsStableUnderReapplication(t *testing.T) {
	l := NewDefault(defaultVocab(t), testSearchURL)

	inputs := []string{
		`Take a look at the "Acme Phone X" while it is on sale`,
		`I recommend this excellent gadget for travel`,
		`The "4K monitor" pairs well with a mechanical keyboard item`,
		"Nothing linkable in this sentence at all",
	}
	for _, in := range inputs {
		once := l.Apply(in)
		twice := l.Apply(once)
		assert.Equal(t, once, twice, "input: %s", in)
	}
}

func TestLoadVocabularyFromFile(t *testing.T) {
	path := t.TempDir() + "/rules.yaml"
	require.NoError(t, writeFile(path, "categories: [widget]\nsuffixes: [thing]\n"))

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"widget"}, v.Categories)
	assert.Equal(t, []string{"thing"}, v.Suffixes)
	// Articles fall back to defaults when the file omits them.
	assert.Equal(t, []string{"the", "a", "an"}, v.Articles)
}

func TestLoadVocabularyRejectsEmptyRules(t *testing.T) {
	path := t.TempDir() + "/rules.yaml"
	require.NoError(t, writeFile(path, "categories: []\nsuffixes: []\n"))

	_, err := LoadVocabulary(path)
	assert.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
