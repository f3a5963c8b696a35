// Package report renders a portfolio summary for people and tools.
//
// This package contains writers for different output formats:
//   - TextWriter: plain text for terminal display
//   - MarkdownWriter: GitHub-flavoured Markdown with tables and alerts
//   - JSONWriter: structured JSON for tool integration
//   - HTMLWriter: an HTML fragment for embedding in a page
//
// Writers implement the Writer interface, so commands pick a format at run
// time with New. Every amount, percentage and timestamp goes through the
// format package, so all writers agree on how a figure is spelled.
package report
