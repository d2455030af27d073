// Package content renders post bodies. Posts use a small block syntax
// rather than full markdown: ## and ### headers, "- " and numbered lists,
// and **bold** spans. Everything else is paragraphs.
package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	orderedItemRe = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	wordRe        = regexp.MustCompile(`\S+`)
)

// RenderHTML converts a post body into HTML. Input text is escaped, so raw
// HTML in a post renders inert.
func RenderHTML(body string) string {
	var b strings.Builder
	lines := strings.Split(body, "\n")

	var listItems []string
	var listOrdered bool
	flushList := func() {
		if len(listItems) == 0 {
			return
		}
		tag := "ul"
		if listOrdered {
			tag = "ol"
		}
		b.WriteString("<" + tag + ">")
		for _, item := range listItems {
			b.WriteString("<li>" + item + "</li>")
		}
		b.WriteString("</" + tag + ">\n")
		listItems = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushList()

		case strings.HasPrefix(trimmed, "### "):
			flushList()
			b.WriteString("<h3>" + renderSpans(trimmed[4:]) + "</h3>\n")

		case strings.HasPrefix(trimmed, "## "):
			flushList()
			b.WriteString("<h2>" + renderSpans(trimmed[3:]) + "</h2>\n")

		case strings.HasPrefix(trimmed, "- "):
			if len(listItems) > 0 && listOrdered {
				flushList()
			}
			listOrdered = false
			listItems = append(listItems, renderSpans(trimmed[2:]))

		case orderedItemRe.MatchString(trimmed):
			if len(listItems) > 0 && !listOrdered {
				flushList()
			}
			listOrdered = true
			m := orderedItemRe.FindStringSubmatch(trimmed)
			listItems = append(listItems, renderSpans(m[1]))

		default:
			flushList()
			b.WriteString("<p>" + renderSpans(trimmed) + "</p>\n")
		}
	}
	flushList()

	return strings.TrimSuffix(b.String(), "\n")
}

// renderSpans escapes a line and applies inline bold spans.
func renderSpans(s string) string {
	escaped := html.EscapeString(s)
	return boldRe.ReplaceAllString(escaped, "<strong>$1</strong>")
}

// Excerpt returns a plain-text preview of a post body: syntax markers
// stripped, collapsed to one line, cut at the last word boundary that fits.
func Excerpt(body string, maxLen int) string {
	var words []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			trimmed = trimmed[4:]
		case strings.HasPrefix(trimmed, "## "):
			trimmed = trimmed[3:]
		case strings.HasPrefix(trimmed, "- "):
			trimmed = trimmed[2:]
		case orderedItemRe.MatchString(trimmed):
			trimmed = orderedItemRe.FindStringSubmatch(trimmed)[1]
		}
		trimmed = boldRe.ReplaceAllString(trimmed, "$1")
		if trimmed != "" {
			words = append(words, strings.Fields(trimmed)...)
		}
	}

	var b strings.Builder
	for i, w := range words {
		add := len(w)
		if i > 0 {
			add++
		}
		if b.Len()+add > maxLen {
			if b.Len() == 0 {
				// A single word longer than maxLen is cut mid-word,
				// at a rune boundary.
				cut := maxLen
				for cut > 0 && !utf8.RuneStart(w[cut]) {
					cut--
				}
				return w[:cut] + "…"
			}
			return b.String() + "…"
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}

// ReadTime estimates reading time at 200 words per minute, minimum one
// minute for any non-empty body.
func ReadTime(body string) string {
	const wordsPerMinute = 200

	words := len(wordRe.FindAllString(body, -1))
	if words == 0 {
		return "0 min read"
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return fmt.Sprintf("%d min read", minutes)
}
