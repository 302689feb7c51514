package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, dir string) error
}

// NewFormatter returns a formatter for the requested output format.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result, dir string) error {
	if _, err := fmt.Fprintf(w, "Linting reference directory: %s\n", dir); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 60)); err != nil {
		return err
	}

	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(w, "%s: [%s] %s: %s\n",
			issue.Severity, issue.Rule, issue.FilePath, issue.Message); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("-", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d files scanned, %d error%s, %d warning%s\n",
		result.FilesTotal,
		result.ErrorCount(), pluralize(result.ErrorCount()),
		result.WarningCount(), pluralize(result.WarningCount())); err != nil {
		return err
	}
	return nil
}

// JSONFormatter formats results as JSON for machine consumption.
type JSONFormatter struct{}

// Format outputs results as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, dir string) error {
	payload := struct {
		Directory string `json:"directory"`
		*Result
	}{Directory: dir, Result: result}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
