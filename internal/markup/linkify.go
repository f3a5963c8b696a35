package markup

import "strings"

// anchorAttrs keeps the opened page from reaching window.opener and from
// receiving a Referer header.
const anchorAttrs = ` target="_blank" rel="noopener noreferrer"`

var hrefEscaper = strings.NewReplacer(`"`, "&quot;")

// Linkify turns explicit [label](url) links and bare http(s) URLs in s into
// anchor elements. s must already be escaped with EscapeHTML; markup left in
// it is treated as intentional, and anchors are passed through unchanged.
//
// Linkify never fails: malformed link syntax stays literal text. Running it
// on its own output returns the output unchanged.
func Linkify(s string) string {
	if s == "" {
		return ""
	}
	return Render(Tokenize(s))
}

// Render serialises tokens produced by Tokenize.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		link, ok := tok.Link()
		if !ok {
			b.WriteString(tok.Text)
			continue
		}
		writeAnchor(&b, link)
	}
	return b.String()
}

// Links returns the link descriptors found in s, in source order.
func Links(s string) []Link {
	var links []Link
	for _, tok := range Tokenize(s) {
		if link, ok := tok.Link(); ok {
			links = append(links, link)
		}
	}
	return links
}

func writeAnchor(b *strings.Builder, link Link) {
	b.WriteString(`<a href="`)
	b.WriteString(hrefEscaper.Replace(link.URL))
	b.WriteString(`"`)
	b.WriteString(anchorAttrs)
	if cls := link.Domain.Class(); cls != "" {
		b.WriteString(` class="`)
		b.WriteString(cls)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(link.DisplayText)
	b.WriteString("</a>")
}
