// Package database stores the history of check runs in SQLite.
//
// History is written only when a run is started with --record and read
// only by the history command. A check never consults it: every link is
// requested again on every run.
//
// The database is a single file (doclinks.db) in the XDG data directory,
// opened with modernc.org/sqlite so no cgo toolchain is needed.
package database
