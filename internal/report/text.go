package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/terminator2-agent/sitekit/internal/model"
	"github.com/terminator2-agent/sitekit/internal/portfolio"
)

// TextWriter outputs human-readable text summaries for terminal display.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...Option) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output, opts...)}
}

// edgeBuckets is the display order of edge buckets.
var edgeBuckets = []model.EdgeBucket{
	model.EdgeStrong,
	model.EdgeModerate,
	model.EdgeThin,
	model.EdgeNegative,
}

// Write outputs the summary as plain text.
func (w *TextWriter) Write(s *portfolio.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, s)
	w.writeEdgeHealth(&sb, s)
	w.writeTopEdge(&sb, s)
	w.writeLiberation(&sb, s)

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(title)))
	sb.WriteString("\n")
}

func (w *TextWriter) writeHeader(sb *strings.Builder, s *portfolio.Summary) {
	sb.WriteString("PORTFOLIO SNAPSHOT\n")
	sb.WriteString("==================\n")

	cash := w.wholeMana(s.Balance)
	if s.Balance != nil {
		cash = w.mana(*s.Balance)
	}
	if s.LowCash {
		cash += " (low)"
	}

	roi := signedPercent(s.ROI, 1)
	if s.ROI != nil {
		roi += fmt.Sprintf(" (%s%% annualised over %dd)", s.AnnualizedLabel, s.DaysActive)
	}

	rows := [][2]string{
		{"Equity", w.wholeMana(s.Equity)},
		{"ROI", roi},
		{"Cash", cash},
		{"Deployed", fmt.Sprintf("%s / %d pos", percent(s.Deployed), s.Positions)},
		{"Heartbeat", heartbeatLabel(s.Heartbeat)},
		{"Last trade", tradeLabel(s.LastTrade)},
		{"Moltbook", suspensionLabel(s.Suspension)},
		{"Day", fmt.Sprintf("%d since inception", s.DaysActive)},
	}
	if s.Cycles > 0 {
		rows = append(rows, [2]string{"Cycle", fmt.Sprintf("%d", s.Cycles)})
	}
	for _, r := range rows {
		fmt.Fprintf(sb, "%-11s %s\n", r[0]+":", r[1])
	}
	if s.Resolving.Count > 0 {
		fmt.Fprintf(sb, "%-11s %d resolving within 7 days (%s)\n", "Soon:", s.Resolving.Count, w.wholeMana(&s.Resolving.Amount))
	}
}

func (w *TextWriter) writeEdgeHealth(sb *strings.Builder, s *portfolio.Summary) {
	if s.EdgeHealth.Total == 0 {
		return
	}
	section(sb, "EDGE HEALTH")
	for _, b := range edgeBuckets {
		n := s.EdgeHealth.Count(b)
		if n == 0 {
			continue
		}
		fmt.Fprintf(sb, "  %-9s %3d  (%d%%)\n", b, n, s.EdgeHealth.Percent(b))
	}
}

func (w *TextWriter) writeTopEdge(sb *strings.Builder, s *portfolio.Summary) {
	if len(s.TopEdge) == 0 {
		return
	}
	section(sb, "TOP EDGE POSITIONS")
	for _, p := range s.TopEdge {
		fmt.Fprintf(sb, "  %6s  %s\n", edgeLabel(p), p.Short)
	}
}

func (w *TextWriter) writeLiberation(sb *strings.Builder, s *portfolio.Summary) {
	lib := s.Liberation
	if lib.Count == 0 {
		return
	}
	section(sb, "CAPITAL LIBERATION")
	fmt.Fprintf(sb, "  %d pos, ~%s incoming\n", lib.Count, w.wholeMana(&lib.Shares))
	for _, wave := range lib.Waves {
		bar := strings.Repeat("#", wave.BarPercent/5)
		fmt.Fprintf(sb, "  %-4s %-20s ~%s\n", daysLabel(wave.Days), bar, w.wholeMana(&wave.Shares))
	}
}
