package text

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Normalizer prepares raw text for a speech model. Steps run in a fixed
// order: whitespace, abbreviations, numbers, punctuation spacing, length.
type Normalizer struct {
	*Config

	abbreviations *strings.Replacer
}

type Config struct {
	MaxLength    int
	MaxSentences int

	Abbreviations map[string]string
}

type Option func(*Config)

var DefaultAbbreviations = map[string]string{
	"и т.д.": "и так далее",
	"т.д.":   "так далее",
	"т.п.":   "тому подобное",
	"т.е.":   "то есть",
	"др.":    "другой",
}

var numberWords = []string{
	"ноль",
	"один",
	"два",
	"три",
	"четыре",
	"пять",
	"шесть",
	"семь",
	"восемь",
	"девять",
	"десять",
	"одиннадцать",
	"двенадцать",
	"тринадцать",
	"четырнадцать",
	"пятнадцать",
	"шестнадцать",
	"семнадцать",
	"восемнадцать",
	"девятнадцать",
	"двадцать",
}

var digitsPattern = regexp.MustCompile(`[0-9]+`)

func WithMaxLength(n int) Option {
	return func(c *Config) {
		c.MaxLength = n
	}
}

func WithMaxSentences(n int) Option {
	return func(c *Config) {
		c.MaxSentences = n
	}
}

func WithAbbreviations(abbreviations map[string]string) Option {
	return func(c *Config) {
		c.Abbreviations = abbreviations
	}
}

func NewNormalizer(options ...Option) *Normalizer {
	cfg := &Config{
		MaxLength:    500,
		MaxSentences: 3,

		Abbreviations: DefaultAbbreviations,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Normalizer{
		Config: cfg,

		abbreviations: newReplacer(cfg.Abbreviations),
	}
}

var defaultNormalizer = NewNormalizer()

func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

func (n *Normalizer) Normalize(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	text = n.abbreviations.Replace(text)
	text = spellNumbers(text)
	text = spacePunctuation(text)

	return truncate(text, n.MaxLength, n.MaxSentences)
}

// newReplacer orders keys longest first so a longer abbreviation wins over
// one it contains.
func newReplacer(table map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(table))

	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}

	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})

	var pairs []string

	for _, k := range keys {
		pairs = append(pairs, k, table[k])
	}

	return strings.NewReplacer(pairs...)
}

func spellNumbers(text string) string {
	return digitsPattern.ReplaceAllStringFunc(text, func(s string) string {
		v, err := strconv.Atoi(s)

		if err != nil || v < 0 || v >= len(numberWords) {
			return s
		}

		return numberWords[v]
	})
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', ',', ';', ':':
		return true
	}

	return false
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func spacePunctuation(text string) string {
	runes := []rune(text)

	var sb strings.Builder
	sb.Grow(len(text))

	for i, r := range runes {
		sb.WriteRune(r)

		if !isTerminator(r) || i+1 >= len(runes) {
			continue
		}

		next := runes[i+1]

		if unicode.IsSpace(next) || isTerminator(next) {
			continue
		}

		sb.WriteRune(' ')
	}

	return sb.String()
}

func truncate(text string, limit, sentences int) string {
	runes := []rune(text)

	if limit <= 0 || len(runes) <= limit {
		return text
	}

	end := 0

	for i, r := range runes {
		if sentences <= 0 || i >= limit {
			break
		}

		if !isSentenceEnd(r) {
			continue
		}

		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}

		end = i + 1
		sentences--
	}

	if result := strings.TrimSpace(string(runes[:end])); result != "" {
		return result
	}

	for i := limit; i > 0; i-- {
		if !unicode.IsSpace(runes[i]) {
			continue
		}

		if result := strings.TrimSpace(string(runes[:i])); result != "" {
			return result
		}
	}

	cut := limit

	// a split digit run would be spelled as a different number on the next pass
	for cut > 0 && isDigit(runes[cut-1]) && isDigit(runes[cut]) {
		cut--
	}

	if result := strings.TrimSpace(string(runes[:cut])); result != "" {
		return result
	}

	return strings.TrimSpace(string(runes[:limit]))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
