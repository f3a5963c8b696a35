package markup

import "strings"

// textEscaper mirrors how a DOM text node is serialised: only the characters
// that would start markup or an entity are replaced, plus the no-break space.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\u00a0", "&nbsp;",
)

// EscapeHTML returns s with every character that would otherwise be
// interpreted as markup replaced by its entity. Quotes are left alone, as in
// a text node. The function is not idempotent: escaping twice double-escapes.
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return textEscaper.Replace(s)
}
