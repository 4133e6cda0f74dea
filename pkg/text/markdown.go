package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownFeatures are the heuristics IsMarkdown counts. A single hit is
// common in plain text (a dash list, a hash sign) so two are required.
var markdownFeatures = []*regexp.Regexp{
	// headings
	regexp.MustCompile(`(?m)^#{1,6}\s+.+$`),

	// code fences
	regexp.MustCompile("(?m)^```|^~~~"),

	// lists
	regexp.MustCompile(`(?m)^[\s]*([-*+]|\d+\.)\s+.+$`),

	// links and images
	regexp.MustCompile(`!?\[([^\]]+)\]\(([^)]+)\)`),

	// blockquotes
	regexp.MustCompile(`(?m)^>\s+.+$`),

	// horizontal rules
	regexp.MustCompile(`(?m)^[\s]*(-{3,}|\*{3,}|_{3,})[\s]*$`),

	// emphasis
	regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`),
}

// IsMarkdown reports whether text looks like Markdown, such as a chat model
// reply, rather than plain prose.
func IsMarkdown(text string) bool {
	if len(text) == 0 {
		return false
	}

	indicators := 0

	for _, p := range markdownFeatures {
		if p.MatchString(text) {
			indicators++
		}
	}

	return indicators >= 2
}

// StripMarkdown returns the readable text of a Markdown document. Code
// blocks, raw HTML and bare URLs are dropped, block elements end with a line
// break. Headings and list items get a closing period so they are read with
// a pause.
func StripMarkdown(markdown string) string {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var sb strings.Builder

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n.Kind() {
		case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML, ast.KindAutoLink:
			return ast.WalkSkipChildren, nil
		}

		if !entering {
			switch n.Kind() {
			case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
				closeSentence(&sb)
			}

			if n.Type() == ast.TypeBlock {
				sb.WriteString("\n")
			}

			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))

			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString(" ")
			}

		case *ast.String:
			sb.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

func closeSentence(sb *strings.Builder) {
	s := strings.TrimRightFunc(sb.String(), unicode.IsSpace)

	if s == "" {
		return
	}

	r, _ := utf8.DecodeLastRuneInString(s)

	if isTerminator(r) {
		return
	}

	sb.Reset()
	sb.WriteString(s)
	sb.WriteString(".")
}
