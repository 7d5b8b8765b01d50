package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rcosmos/metricaudit/internal/domain"
)

const (
	maxErrorsShown   = 10
	maxWarningsShown = 5
)

func printSummary(w io.Writer, errs, warns []domain.Finding) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	if len(errs) == 0 {
		fmt.Fprintln(w, "VALIDATION PASSED")
	} else {
		fmt.Fprintln(w, "VALIDATION FAILED")
		fmt.Fprintf(w, "\n%d error(s):\n", len(errs))
		printFindings(w, errs, maxErrorsShown, "errors")
	}
	if len(warns) > 0 {
		fmt.Fprintf(w, "\n%d warning(s):\n", len(warns))
		printFindings(w, warns, maxWarningsShown, "warnings")
	}
	fmt.Fprintln(w, rule)
}

func printFindings(w io.Writer, findings []domain.Finding, limit int, noun string) {
	for i, f := range findings {
		if i == limit {
			fmt.Fprintf(w, "  ... and %d more %s\n", len(findings)-limit, noun)
			return
		}
		fmt.Fprintf(w, "  [%s] %s\n", f.Kind, f.Message)
	}
}
