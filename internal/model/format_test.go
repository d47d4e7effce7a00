package model

import "testing"

func TestFormatString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatPlainTextFallback, "text"},
		{FormatMarkdown, "markdown"},
		{FormatReStructuredText, "rst"},
		{Format(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.format.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{FormatPlainTextFallback, FormatMarkdown, FormatReStructuredText} {
		if got := ParseFormat(f.String()); got != f {
			t.Errorf("ParseFormat(%q) = %v, want %v", f.String(), got, f)
		}
	}

	if got := ParseFormat("asciidoc"); got != FormatPlainTextFallback {
		t.Errorf("expected fallback for unknown name, got %v", got)
	}
}

func TestFormatUsesMarkdownPattern(t *testing.T) {
	t.Parallel()

	if !FormatMarkdown.UsesMarkdownPattern() {
		t.Error("markdown should use the markdown pattern")
	}
	if !FormatPlainTextFallback.UsesMarkdownPattern() {
		t.Error("fallback should use the markdown pattern")
	}
	if FormatReStructuredText.UsesMarkdownPattern() {
		t.Error("rst should not use the markdown pattern")
	}
}

func TestDocumentName(t *testing.T) {
	t.Parallel()

	doc := Document{Path: "docs/guide/README.md"}
	if doc.Name() != "README.md" {
		t.Errorf("expected README.md, got %q", doc.Name())
	}
}
