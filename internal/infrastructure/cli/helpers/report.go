package helpers

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/firewatch/internal/application/selector"
	"github.com/doeshing/firewatch/internal/domain"
)

// PrintHealthReport prints one line per doctor check.
func PrintHealthReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}

// PrintSelection summarises the probe trace on stderr-style output.
func PrintSelection(out io.Writer, sel selector.Selection) {
	for _, attempt := range sel.Attempts {
		status := "failed"
		if attempt.OK {
			status = "ok"
		}
		fmt.Fprintf(out, "probe %-16s %-6s %s\n", attempt.Mode.Label(), status, attempt.Elapsed)
	}
	fmt.Fprintf(out, "backend: %s\n", sel.Mode.Label())
}

// PrintHistory prints a transcript, oldest first.
func PrintHistory(out io.Writer, entries []domain.ConversationEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No questions asked yet.")
		return
	}
	for i, e := range entries {
		marker := ""
		if e.Fallback {
			marker = " (local fallback)"
		}
		fmt.Fprintf(out, "%s. [%s] %s%s\n", humanize.Comma(int64(i+1)), humanize.Time(e.Timestamp), e.Request, marker)
	}
}
