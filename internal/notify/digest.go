package notify

import (
	"fmt"
	"strings"
	"time"

	"worldstats/domain/world"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
)

// Digest is the human-readable summary of one report
type Digest struct {
	TotalWorlds int
	DataFile    string
	GeneratedAt time.Time
	MeanAverage float64
	Top         []world.Summary
}

// NewDigest picks the first top entries of an already ranked list
func NewDigest(summaries []world.Summary, dataFile string, generatedAt time.Time, top int) Digest {
	if top < 0 {
		top = 0
	}
	if top > len(summaries) {
		top = len(summaries)
	}

	averages := make([]float64, len(summaries))
	for i, s := range summaries {
		averages[i] = s.AverageOccupants
	}
	mean, err := stats.Mean(averages)
	if err != nil {
		mean = 0
	}
	mean, _ = stats.Round(mean, 2)

	return Digest{
		TotalWorlds: len(summaries),
		DataFile:    dataFile,
		GeneratedAt: generatedAt,
		MeanAverage: mean,
		Top:         summaries[:top],
	}
}

// Text renders the plain-text digest
func (d Digest) Text() string {
	if d.TotalWorlds == 0 {
		return "No world data available."
	}

	var b strings.Builder
	b.WriteString("Analytics Summary:\n\n")
	fmt.Fprintf(&b, "Total Worlds Processed: %d\n", d.TotalWorlds)
	fmt.Fprintf(&b, "Data File: %s\n", d.DataFile)
	fmt.Fprintf(&b, "Generated: %s\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Mean Average Occupants: %g\n\n", d.MeanAverage)
	fmt.Fprintf(&b, "Top %d Worlds by Average Occupants:", len(d.Top))
	for i, s := range d.Top {
		fmt.Fprintf(&b, "\n%d. %s: %g avg occupants", i+1, s.DisplayName(), s.AverageOccupants)
	}
	return b.String()
}

// Markdown renders the digest as Markdown
func (d Digest) Markdown() string {
	if d.TotalWorlds == 0 {
		return "_No world data available._\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Total worlds processed:** %d  \n", d.TotalWorlds)
	fmt.Fprintf(&b, "**Data file:** `%s`  \n", d.DataFile)
	fmt.Fprintf(&b, "**Generated:** %s  \n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Mean average occupants:** %g\n\n", d.MeanAverage)
	fmt.Fprintf(&b, "## Top %d worlds by average occupants\n\n", len(d.Top))
	for i, s := range d.Top {
		fmt.Fprintf(&b, "%d. **%s**: %g avg occupants\n", i+1, escapeMarkdown(s.DisplayName()), s.AverageOccupants)
	}
	return b.String()
}

func renderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, r))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
