// Package main provides the entry point for the doclinks CLI.
//
// doclinks walks a directory tree, extracts the links from every Markdown,
// reStructuredText and README file it finds, and reports the links that
// cannot be reached.
//
// Usage:
//
//	doclinks <dir-path>
//	doclinks history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
