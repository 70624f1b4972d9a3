package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// samplesPerKind caps the error messages printed per kind and data type.
const samplesPerKind = 3

// timeRounding is the precision of the printed run duration.
const timeRounding = time.Millisecond

var summaryHeaders = []string{
	"Data type", "Status", "Fetched", "Filtered", "Mapped",
	"Uploaded", "Duplicates", "Degraded", "Failed",
}

// Summary palette.
var (
	colourHeader  = lipgloss.Color("#7C3AED")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
	colourMuted   = lipgloss.Color("#6C7086")
	colourBorder  = lipgloss.Color("#45475A")
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderSummary prints the end-of-run table, error samples and totals.
// styled adds colour and rounded borders; plain output uses ASCII only.
func renderSummary(w io.Writer, report *domain.RunReport, styled bool) {
	if report == nil {
		return
	}

	rows := make([][]string, 0, len(report.Types))
	statuses := make([]domain.TypeStatus, 0, len(report.Types))
	for _, tr := range report.Types {
		status := tr.Status()
		statuses = append(statuses, status)
		rows = append(rows, []string{
			tr.DataType.Description(),
			string(status),
			strconv.Itoa(tr.Fetched),
			strconv.Itoa(tr.Filtered),
			strconv.Itoa(tr.Mapped),
			strconv.Itoa(tr.Uploaded),
			strconv.Itoa(tr.Duplicates),
			strconv.Itoa(tr.Degraded),
			strconv.Itoa(tr.Failed),
		})
	}

	t := table.New().
		Headers(summaryHeaders...).
		Rows(rows...)
	if styled {
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colourBorder)).
			StyleFunc(func(row, col int) lipgloss.Style {
				style := lipgloss.NewStyle().Padding(0, 1)
				switch {
				case row == table.HeaderRow:
					return style.Bold(true).Foreground(colourHeader)
				case col == 1 && row >= 0 && row < len(statuses):
					return style.Foreground(statusColour(statuses[row]))
				}
				return style
			})
	} else {
		t = t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(int, int) lipgloss.Style {
				return lipgloss.NewStyle().Padding(0, 1)
			})
	}

	fmt.Fprintf(w, "Run %s\n", report.RunID)
	fmt.Fprintln(w, t.String())

	for _, tr := range report.Types {
		samples := tr.Samples(samplesPerKind)
		if len(samples) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s errors:\n", tr.DataType.Description())
		for _, s := range samples {
			fmt.Fprintf(w, "  %s (%d)\n", s.Kind, s.Count)
			for _, msg := range s.Messages {
				fmt.Fprintf(w, "    - %s\n", msg)
			}
			if hidden := s.Count - len(s.Messages); hidden > 0 {
				fmt.Fprintf(w, "    ... and %d more\n", hidden)
			}
		}
	}

	totals := fmt.Sprintf("\nUploaded %d documents, %d failed in %s\n",
		report.TotalUploaded(), report.TotalFailed(),
		report.EndedAt.Sub(report.StartedAt).Round(timeRounding))
	if styled {
		totals = lipgloss.NewStyle().Foreground(colourMuted).Render(totals)
	}
	fmt.Fprint(w, totals)
}

func statusColour(s domain.TypeStatus) lipgloss.Color {
	switch s {
	case domain.TypeStatusSucceeded:
		return colourSuccess
	case domain.TypeStatusPartial:
		return colourWarning
	case domain.TypeStatusFailed:
		return colourError
	default:
		return colourMuted
	}
}
