package extract

import (
	"regexp"

	"github.com/nao1215/doclinks/internal/model"
)

// rstLinkPattern matches `label <url>`_. The label cannot contain a
// backtick, so two links on one line never merge.
var rstLinkPattern = regexp.MustCompile("`[^`]*\\s<([^>]*)>`_")

// markdownLinkPattern matches [label](url). The label stays on one line
// and may contain brackets; it ends at the first "](" after it.
// The URL may contain one level of balanced parentheses, as in
// https://en.wikipedia.org/wiki/Go_(programming_language). When the
// parentheses do not balance, the URL runs to the first ")".
var markdownLinkPattern = regexp.MustCompile(`\[[^\n]*?\]\(((?:[^()\n]|\([^()\n]*\))*|[^)\n]*)\)`)

// Links returns every link in content for the given format, in order of
// appearance. Duplicates are kept. Text that does not match the link
// syntax is ignored.
func Links(content string, format model.Format) []string {
	pattern := markdownLinkPattern
	if !format.UsesMarkdownPattern() {
		pattern = rstLinkPattern
	}

	matches := pattern.FindAllStringSubmatch(content, -1)
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		links = append(links, m[1])
	}
	return links
}
