// Package format renders numbers, mana amounts and timestamps the way the
// dashboard pages display them.
//
// Every function is total: unparseable or missing input produces the
// Placeholder string instead of an error, so callers can drop the result
// straight into a page or report.
//
// Example:
//
//	format.FormatMana(-5)                      // "-M$5.00"
//	format.FormatMana(1234)                    // "M$1,234"
//	format.RelativeTimeAt(then, now)           // "2h ago"
//	format.FormatTimestamp(time.Now().UTC())   // "Feb 18, 14:32"
package format

// Placeholder is shown for missing or non-numeric values.
const Placeholder = "—"
