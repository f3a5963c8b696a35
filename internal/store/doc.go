// Package store persists small pieces of local state between sitekit runs.
//
// State is a key to JSON value map kept in a SQLite database (via
// modernc.org/sqlite) in the user's data directory. It is used for one-time
// hints and remembered preferences, never for site data.
//
// The store offers two surfaces. Put, Get, Delete and Entries return errors
// and back the "sitekit state" command. Save, Load and the hint helpers
// swallow every failure: a value that cannot be read is treated as never
// having been saved, and a value that cannot be written is dropped. These
// helpers also accept a nil *Store, so callers that failed to open the
// database keep working without persisted state.
package store
