package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/terminator2-agent/sitekit/internal/markup"
	"github.com/terminator2-agent/sitekit/internal/portfolio"
)

// HTMLWriter outputs the summary as an HTML fragment. Text from the
// snapshot is escaped, and market links are rendered the way the site
// renders them, with shortened slugs and per-domain classes.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...Option) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output, opts...)}
}

// Write outputs the summary fragment.
func (w *HTMLWriter) Write(s *portfolio.Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("<section class=\"portfolio-snapshot\">\n")
	sb.WriteString("<h2>Portfolio snapshot</h2>\n")
	w.writeFigures(&sb, s)
	w.writeTopEdge(&sb, s)
	w.writeLiberation(&sb, s)
	sb.WriteString("</section>\n")

	return io.WriteString(w.output, sb.String())
}

func (w *HTMLWriter) writeFigures(sb *strings.Builder, s *portfolio.Summary) {
	cash := w.wholeMana(s.Balance)
	if s.Balance != nil {
		cash = w.mana(*s.Balance)
	}

	sb.WriteString("<dl>\n")
	field(sb, "Equity", w.wholeMana(s.Equity))
	field(sb, "ROI", signedPercent(s.ROI, 1))
	field(sb, "Cash", cash)
	field(sb, "Deployed", fmt.Sprintf("%s / %d pos", percent(s.Deployed), s.Positions))
	fmt.Fprintf(sb, "<dt>Heartbeat</dt><dd class=\"heartbeat-%s\">%s</dd>\n",
		s.Heartbeat.Status, markup.EscapeHTML(heartbeatLabel(s.Heartbeat)))
	field(sb, "Last trade", tradeLabel(s.LastTrade))
	field(sb, "Moltbook", suspensionLabel(s.Suspension))
	sb.WriteString("</dl>\n")
}

func field(sb *strings.Builder, name, value string) {
	fmt.Fprintf(sb, "<dt>%s</dt><dd>%s</dd>\n", name, markup.EscapeHTML(value))
}

func (w *HTMLWriter) writeTopEdge(sb *strings.Builder, s *portfolio.Summary) {
	if len(s.TopEdge) == 0 {
		return
	}
	sb.WriteString("<h3>Top edge positions</h3>\n<ul class=\"top-edge\">\n")
	for _, p := range s.TopEdge {
		question := markup.Linkify(markup.EscapeHTML(p.Short))
		fmt.Fprintf(sb, "<li><span class=\"question\" title=\"%s\">%s</span>",
			attrEscaper.Replace(markup.EscapeHTML(p.Question)), question)
		if p.URL != "" {
			sb.WriteString(" ")
			sb.WriteString(markup.Linkify(markup.EscapeHTML(p.URL)))
		}
		fmt.Fprintf(sb, " <span class=\"edge edge-%s\">%s</span></li>\n", p.Bucket, edgeLabel(p))
	}
	sb.WriteString("</ul>\n")
}

func (w *HTMLWriter) writeLiberation(sb *strings.Builder, s *portfolio.Summary) {
	lib := s.Liberation
	if lib.Count == 0 {
		return
	}
	fmt.Fprintf(sb, "<h3>Capital liberation</h3>\n<p>%d pos &middot; ~%s incoming</p>\n<ul class=\"liberation\">\n",
		lib.Count, markup.EscapeHTML(w.wholeMana(&lib.Shares)))
	for _, wave := range lib.Waves {
		fmt.Fprintf(sb, "<li><span>%s</span> <span class=\"bar\" style=\"width:%d%%\"></span> <span>~%s</span></li>\n",
			daysLabel(wave.Days), wave.BarPercent, markup.EscapeHTML(w.wholeMana(&wave.Shares)))
	}
	sb.WriteString("</ul>\n")
}

// attrEscaper makes escaped text safe inside a double-quoted attribute.
var attrEscaper = strings.NewReplacer(`"`, "&quot;")
