package model

import "strings"

// Format identifies the markup of a documentation file.
// It decides which link pattern the extractor applies.
type Format int

const (
	// FormatPlainTextFallback is used for every documentation file that is
	// neither Markdown nor reStructuredText (README, README.txt, ...).
	// It shares the Markdown link pattern.
	FormatPlainTextFallback Format = iota

	// FormatMarkdown is used for files ending in ".md".
	FormatMarkdown

	// FormatReStructuredText is used for files ending in ".rst".
	FormatReStructuredText
)

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatPlainTextFallback:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatReStructuredText:
		return "rst"
	default:
		return "unknown"
	}
}

// ParseFormat converts the output of Format.String back into a Format.
// Unknown names map to FormatPlainTextFallback.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "markdown":
		return FormatMarkdown
	case "rst":
		return FormatReStructuredText
	default:
		return FormatPlainTextFallback
	}
}

// UsesMarkdownPattern reports whether links in this format are written as
// [label](url).
func (f Format) UsesMarkdownPattern() bool {
	return f != FormatReStructuredText
}
