// Package diary converts the agent's Markdown diary into the
// diary_entries.json document published by the site.
//
// A diary is a sequence of entries, each introduced by a level-two heading
// holding its UTC timestamp:
//
//	## 2026-03-01 14:05 UTC
//	Closed the rain market at 12%.
//
// Text before the first heading is ignored. Entries are numbered from 1 in
// file order, and that number becomes the entry's permalink on the site.
package diary
