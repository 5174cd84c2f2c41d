// Package history persists a record of every export run in SQLite.
//
// Each run gets a random UUID. Entries store the input and output paths,
// the resolved frame count, track and box totals, and the failure text for
// runs that did not complete. The CLI "history" command lists them newest
// first.
package history
