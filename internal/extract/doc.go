// Package extract reads documentation files and pulls hyperlinks out of
// their markup.
//
// Two link syntaxes are recognized. reStructuredText documents use the
// embedded-URI form:
//
//	`label <https://example.com>`_
//
// Every other document, Markdown or not, uses the inline Markdown form:
//
//	[label](https://example.com)
//
// Links are returned exactly as written, in order of appearance and with
// duplicates kept. Relative links are returned too; whether they can be
// checked is the validator's concern.
package extract
