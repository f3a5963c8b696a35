// Package markup turns diary and portfolio text into HTML fragments that are
// safe to inject into a trusted page.
//
// It has two halves:
//   - EscapeHTML converts arbitrary text into literal HTML text.
//   - Linkify converts escaped text containing Markdown-style links
//     ([label](url)) and bare http(s) URLs into anchor elements.
//
// Callers must escape exactly once, before linkifying. Linkify emits trusted
// markup and treats any '<', '>' or '&' already present in its input as
// intentional prior markup, typically its own earlier output:
//
//	html := markup.Linkify(markup.EscapeHTML(entry.Content))
//
// # Lexing
//
// Linkify is a single left-to-right scan that produces a sequence of Tokens
// (plain text, prior anchor markup, explicit links, bare URLs) followed by a
// rendering walk over those tokens. Anchor spans already present in the
// input are passed through unchanged, which makes Linkify idempotent on its
// own output.
//
// An anchor span runs from "<a" to the first "</a>" and may cross line
// breaks. Multi-line anchor bodies are therefore skipped as a whole.
//
// # Known domains
//
// Links to a small, ordered set of hosts get a CSS class so the page can
// style them differently, and bare URLs to those hosts are displayed as a
// shortened slug instead of the full URL. See Domain.
package markup
