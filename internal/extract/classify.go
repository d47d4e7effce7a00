package extract

import (
	"strings"

	"github.com/nao1215/doclinks/internal/model"
)

// Classify returns the markup format for a file name.
// The check is case-sensitive: "guide.RST" is not reStructuredText.
func Classify(name string) model.Format {
	switch {
	case strings.HasSuffix(name, ".rst"):
		return model.FormatReStructuredText
	case strings.HasSuffix(name, ".md"):
		return model.FormatMarkdown
	default:
		return model.FormatPlainTextFallback
	}
}
