// Package model defines the documents published by the site and shared by
// the rest of sitekit.
//
// This package contains the following main types:
//   - Snapshot: the portfolio_data.json document
//   - Position: one open market position inside a Snapshot
//   - DiaryEntry: one entry of diary_entries.json
//   - EdgeBucket: the health class of a position's directional edge
//
// The types mirror the JSON written by the agent, so every field keeps the
// snake_case name used on the wire. Optional numbers are pointers because
// the site distinguishes a missing value from zero.
package model
