// Package pipeline processes one documentation file at a time.
//
// Pipeline implements walker.Handler. For every document the walker finds,
// it prints the "checking" line, reads and extracts the links, and hands
// them to a LinkBatch. The batch validates all links of the document
// concurrently and returns once every one of them has finished, so the
// walker never moves on while requests for the previous file are in
// flight.
//
// A document that cannot be read is reported and skipped; it never stops
// the walk.
package pipeline
