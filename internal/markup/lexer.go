package markup

import (
	"strings"
	"unicode/utf8"
)

// TokenKind is the lexical class of a Token.
type TokenKind int

const (
	// TokenText is literal text, rendered verbatim.
	TokenText TokenKind = iota

	// TokenAnchor is an anchor element already present in the input,
	// from "<a" through the first "</a>". Rendered verbatim.
	TokenAnchor

	// TokenExplicitLink is a Markdown-style [label](url) link.
	TokenExplicitLink

	// TokenBareURL is an http(s) URL outside any anchor.
	TokenBareURL
)

// String returns the name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "Text"
	case TokenAnchor:
		return "Anchor"
	case TokenExplicitLink:
		return "ExplicitLink"
	case TokenBareURL:
		return "BareURL"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit of linkifiable text.
type Token struct {
	Kind TokenKind

	// Text is the exact source span of the token.
	Text string

	// URL is set for TokenExplicitLink and TokenBareURL.
	URL string

	// Label is the visible text of a TokenExplicitLink.
	Label string
}

// Link describes the anchor a link token renders to.
type Link struct {
	URL         string
	Label       string
	Domain      Domain
	DisplayText string
}

// Link returns the descriptor for a link token. ok is false for
// TokenText and TokenAnchor.
func (t Token) Link() (link Link, ok bool) {
	switch t.Kind {
	case TokenExplicitLink:
		return Link{
			URL:         t.URL,
			Label:       t.Label,
			Domain:      Classify(t.URL),
			DisplayText: t.Label,
		}, true
	case TokenBareURL:
		m := classify(t.URL)
		link := Link{URL: t.URL, Label: t.URL, DisplayText: displayText(t.URL, m)}
		if m != nil {
			link.Domain = m.domain
		}
		return link, true
	default:
		return Link{}, false
	}
}

const (
	anchorOpen  = "<a"
	anchorClose = "</a>"
)

// Tokenize splits s into tokens in a single left-to-right scan.
//
// At every position the alternatives are tried in this order: an explicit
// [label](url) link, an existing anchor span, a bare URL. Text that matches
// none of them is accumulated into TokenText tokens. Concatenating the Text
// of all tokens reproduces s.
func Tokenize(s string) []Token {
	l := &lexer{src: s}
	l.run()
	return l.tokens
}

type lexer struct {
	src    string
	pos    int
	start  int
	tokens []Token
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		if l.lexExplicit() || l.lexAnchor() || l.lexBareURL() {
			continue
		}
		l.pos++
	}
	l.flushText(len(l.src))
}

// flushText emits pending text up to end.
func (l *lexer) flushText(end int) {
	if end > l.start {
		l.tokens = append(l.tokens, Token{Kind: TokenText, Text: l.src[l.start:end]})
	}
	l.start = end
}

func (l *lexer) emitExplicit(m explicitMatch) {
	l.tokens = append(l.tokens, Token{
		Kind:  TokenExplicitLink,
		Text:  l.src[m.start:m.end],
		URL:   m.url,
		Label: m.label,
	})
	l.pos, l.start = m.end, m.end
}

func (l *lexer) lexExplicit() bool {
	m, ok := matchExplicit(l.src, l.pos)
	if !ok {
		return false
	}
	l.flushText(l.pos)
	l.emitExplicit(m)
	return true
}

// lexAnchor skips an anchor span that is already present in the input.
//
// The span is "<a", anything up to the first '>', then anything (line
// breaks included) up to the first "</a>". An explicit link that lies
// inside the span renders to a complete anchor, so it terminates the span:
// the raw prefix is kept as anchor text and the link is emitted as usual.
// A link that would run past the '>' or the "</a>" does not.
func (l *lexer) lexAnchor() bool {
	if !strings.HasPrefix(l.src[l.pos:], anchorOpen) {
		return false
	}
	begin := l.pos

	gt := indexFrom(l.src, ">", begin+len(anchorOpen))
	searchEnd := gt
	if searchEnd < 0 {
		searchEnd = len(l.src)
	}
	if m, ok := nextExplicit(l.src, begin+len(anchorOpen), searchEnd); ok {
		l.emitAnchorThrough(begin, m)
		return true
	}
	if gt < 0 {
		return false
	}

	closeAt := indexFrom(l.src, anchorClose, gt+1)
	searchEnd = closeAt
	if searchEnd < 0 {
		searchEnd = len(l.src)
	}
	if m, ok := nextExplicit(l.src, gt+1, searchEnd); ok {
		l.emitAnchorThrough(begin, m)
		return true
	}
	if closeAt < 0 {
		return false
	}

	end := closeAt + len(anchorClose)
	l.flushText(begin)
	l.tokens = append(l.tokens, Token{Kind: TokenAnchor, Text: l.src[begin:end]})
	l.pos, l.start = end, end
	return true
}

// emitAnchorThrough emits the raw anchor prefix [begin, m.start) followed by
// the explicit link m.
func (l *lexer) emitAnchorThrough(begin int, m explicitMatch) {
	l.flushText(begin)
	if m.start > begin {
		l.tokens = append(l.tokens, Token{Kind: TokenAnchor, Text: l.src[begin:m.start]})
	}
	l.emitExplicit(m)
}

// lexBareURL matches "http(s)://" followed by at least one character that is
// not whitespace, '<' or ')'. The URL also ends where an explicit link
// starts, since explicit links take precedence over bare URLs.
func (l *lexer) lexBareURL() bool {
	bodyStart, ok := schemeEnd(l.src, l.pos)
	if !ok {
		return false
	}

	end := bodyStart
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if isSpace(r) || r == '<' || r == ')' {
			break
		}
		if r == '[' {
			if _, ok := matchExplicit(l.src, end); ok {
				break
			}
		}
		end += size
	}
	if end == bodyStart {
		return false
	}

	l.flushText(l.pos)
	u := l.src[l.pos:end]
	l.tokens = append(l.tokens, Token{Kind: TokenBareURL, Text: u, URL: u})
	l.pos, l.start = end, end
	return true
}

type explicitMatch struct {
	start, end int
	label, url string
}

// matchExplicit reports whether an explicit link starts at i:
// '[' label ']' '(' http(s):// url-chars ')', where the label is non-empty
// and contains no ']', and url-chars are neither whitespace nor ')'.
func matchExplicit(s string, i int) (explicitMatch, bool) {
	if i >= len(s) || s[i] != '[' {
		return explicitMatch{}, false
	}
	rel := strings.IndexByte(s[i+1:], ']')
	if rel <= 0 {
		return explicitMatch{}, false
	}
	labelEnd := i + 1 + rel
	if !strings.HasPrefix(s[labelEnd:], "](") {
		return explicitMatch{}, false
	}
	urlStart := labelEnd + 2
	bodyStart, ok := schemeEnd(s, urlStart)
	if !ok {
		return explicitMatch{}, false
	}

	end := bodyStart
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if isSpace(r) || r == ')' {
			break
		}
		end += size
	}
	if end == bodyStart || end >= len(s) || s[end] != ')' {
		return explicitMatch{}, false
	}

	return explicitMatch{
		start: i,
		end:   end + 1,
		label: s[i+1 : labelEnd],
		url:   s[urlStart:end],
	}, true
}

// nextExplicit finds the first explicit link lying entirely in [from, to).
func nextExplicit(s string, from, to int) (explicitMatch, bool) {
	for from < to {
		rel := strings.IndexByte(s[from:to], '[')
		if rel < 0 {
			break
		}
		if m, ok := matchExplicit(s, from+rel); ok && m.end <= to {
			return m, true
		}
		from += rel + 1
	}
	return explicitMatch{}, false
}

// schemeEnd returns the index just past "http://" or "https://" at i.
func schemeEnd(s string, i int) (int, bool) {
	rest := s[i:]
	switch {
	case strings.HasPrefix(rest, "https://"):
		return i + len("https://"), true
	case strings.HasPrefix(rest, "http://"):
		return i + len("http://"), true
	default:
		return 0, false
	}
}

func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return from + i
}

// isSpace is the whitespace class of the site's link patterns: Unicode
// White_Space plus U+FEFF, without U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u1680',
		'\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
