// Package model defines the data structures shared by the doclinks packages.
//
// This package contains the following main types:
//   - Document: A documentation file found by the walker
//   - Format: The markup flavour of a document, derived from its name
//   - Result: The outcome of validating one link
//   - Summary: Counters and dead links collected during one run
//   - Run: A persisted history record of a finished run
//
// The walker, extractor, validator, pipeline and database packages all
// exchange these types, so they live here to avoid import cycles.
package model
