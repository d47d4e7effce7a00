// Package report writes doclinks output.
//
// Console prints the live lines of a check run to stdout while documents
// are processed. The Writer implementations render stored runs and run
// comparisons for the history command:
//   - TextWriter: plain text for the terminal
//   - JSONWriter: JSON for tool integration
//   - MarkdownWriter: Markdown for pasting into issues and pull requests
package report
