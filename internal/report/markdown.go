package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/terminator2-agent/sitekit/internal/portfolio"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing, e.g. as a
// scheduled job summary.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output, opts...)}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(s *portfolio.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writeAlert(md, s)
	w.writeEdgeHealth(md, s)
	w.writeTopEdge(md, s)
	w.writeLiberation(md, s)
	w.writeFooter(md, s)

	return len(md.String()), md.Build()
}

// writeHeader writes the headline figures.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *portfolio.Summary) {
	md.H1("Portfolio Snapshot")
	md.PlainText("")

	annualized := "-"
	if s.ROI != nil {
		annualized = s.AnnualizedLabel + "%"
	}
	cash := w.wholeMana(s.Balance)
	if s.Balance != nil {
		cash = w.mana(*s.Balance)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Equity", w.wholeMana(s.Equity)},
			{"ROI", signedPercent(s.ROI, 1)},
			{"Annualised", annualized},
			{"Cash", cash},
			{"Deployed", percent(s.Deployed) + " / " + strconv.Itoa(s.Positions) + " pos"},
			{"Heartbeat", heartbeatLabel(s.Heartbeat)},
			{"Last trade", tradeLabel(s.LastTrade)},
			{"Moltbook", suspensionLabel(s.Suspension)},
			{"Day", strconv.Itoa(s.DaysActive)},
		},
	})
	md.PlainText("")
}

// writeAlert writes one alert for the most pressing condition.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *portfolio.Summary) {
	switch {
	case s.Heartbeat.Status == portfolio.Dead:
		md.Cautionf("No heartbeat since %s. The agent may be down.", w.timestamp(s.Heartbeat.UpdatedAt))
	case s.Suspension != nil && !s.Suspension.Lifted:
		md.Warningf("Moltbook account suspended: %s. Expected back in %s.", s.Suspension.Reason, s.Suspension.Label)
	case s.Heartbeat.Status == portfolio.Stale:
		md.Importantf("Last heartbeat was %s.", s.Heartbeat.Label)
	case s.LowCash:
		md.Note("Cash is low. New positions wait for capital to come back.")
	default:
		md.Tip("The agent is running normally.")
	}
	md.PlainText("")
}

// writeEdgeHealth writes the bucket table and a pie chart of the buckets.
func (w *MarkdownWriter) writeEdgeHealth(md *markdown.Markdown, s *portfolio.Summary) {
	md.H2("Edge Health")
	md.PlainText("")

	if s.EdgeHealth.Total == 0 {
		md.PlainText("No position has both an estimate and a market price.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Positions by edge"),
		piechart.WithShowData(true),
	)
	rows := make([][]string, 0, len(edgeBuckets))
	for _, b := range edgeBuckets {
		n := s.EdgeHealth.Count(b)
		rows = append(rows, []string{b.String(), strconv.Itoa(n), strconv.Itoa(s.EdgeHealth.Percent(b)) + "%"})
		if n > 0 {
			chart.LabelAndIntValue(b.String(), uint64(n))
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Edge", "Positions", "Share"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTopEdge writes the positions with the largest edge.
func (w *MarkdownWriter) writeTopEdge(md *markdown.Markdown, s *portfolio.Summary) {
	if len(s.TopEdge) == 0 {
		return
	}
	md.H2("Top Edge Positions")
	md.PlainText("")

	rows := make([][]string, len(s.TopEdge))
	for i, p := range s.TopEdge {
		market := p.Short
		if p.URL != "" {
			market = "[" + p.Short + "](" + p.URL + ")"
		}
		rows[i] = []string{market, p.Outcome, edgeLabel(p)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Market", "Side", "Edge"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLiberation writes the capital expected back, grouped by close day.
func (w *MarkdownWriter) writeLiberation(md *markdown.Markdown, s *portfolio.Summary) {
	lib := s.Liberation
	if lib.Count == 0 {
		return
	}
	md.H2("Capital Liberation")
	md.PlainText("")
	md.PlainTextf("%d positions, ~%s incoming.", lib.Count, w.wholeMana(&lib.Shares))
	md.PlainText("")

	rows := make([][]string, len(lib.Waves))
	for i, wave := range lib.Waves {
		rows[i] = []string{
			daysLabel(wave.Days),
			strconv.Itoa(wave.Count),
			w.wholeMana(&wave.Amount),
			"~" + w.wholeMana(&wave.Shares),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Closes in", "Positions", "Invested", "Payout"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the generation time.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, s *portfolio.Summary) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by sitekit at %s*", w.timestamp(s.GeneratedAt))
}
