// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-news/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// PrintKeywords outputs the keywords resolved for a profile.
func (p *Printer) PrintKeywords(profile types.JobProfile, keywords types.KeywordSet) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Job group: %s\n", profile.JobGroup))
	if profile.JobRole != "" {
		sb.WriteString(fmt.Sprintf("Job role:  %s\n", profile.JobRole))
	}
	sb.WriteString(fmt.Sprintf("Keywords:  %d\n\n", len(keywords)))

	for i, kw := range keywords {
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, kw))
	}

	p.printBox("SEARCH KEYWORDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the counters of a run and whether they balance.
func (p *Printer) PrintRunSummary(ownerID string, summary types.RunSummary, cancelled bool) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Owner:              %s\n", ownerID))
	sb.WriteString(fmt.Sprintf("Collected:          %d\n", summary.Collected))
	sb.WriteString(fmt.Sprintf("Duplicates removed: %d\n", summary.DuplicatesRemoved))
	sb.WriteString(fmt.Sprintf("Filtered out:       %d\n", summary.FilteredOut))
	sb.WriteString(fmt.Sprintf("Analyzed:           %d\n", summary.Analyzed))
	sb.WriteString(fmt.Sprintf("Errors:             %d\n", summary.Errors))

	switch {
	case cancelled:
		sb.WriteString("\n⚠ Run cancelled before all candidates were processed")
	case !summary.Balanced():
		sb.WriteString("\n⚠ Counters do not add up to collected")
	default:
		sb.WriteString("\n✓ All candidates accounted for")
	}

	p.printBox("RUN SUMMARY", sb.String())
}

// PrintRecords outputs the first stored records with their analysis.
func (p *Printer) PrintRecords(records []types.NewsRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stored articles: %d\n\n", len(records)))

	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := records[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, rec.Title))
		sb.WriteString(fmt.Sprintf("    %s | %s | trust %d\n",
			rec.Analysis.Category, rec.Analysis.Sentiment, rec.Analysis.TrustScore))
		if rec.Analysis.BiasDetected {
			sb.WriteString(fmt.Sprintf("    Bias: %s (neutralized)\n", rec.Analysis.BiasType))
		}
		if len(rec.Keywords) > 0 {
			tags := make([]string, 0, len(rec.Keywords))
			for _, k := range rec.Keywords {
				tags = append(tags, k.Keyword)
			}
			sb.WriteString(fmt.Sprintf("    Tags: %s\n", strings.Join(tags, ", ")))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(records)-maxItemsToShow))
	}

	p.printBox("STORED ARTICLES", strings.TrimSuffix(sb.String(), "\n"))
}
