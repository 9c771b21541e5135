// Package diagnostics turns free-form compiler log text into bounded error and warning reports.
// Nothing in here returns an error: empty or garbled input degrades to empty output.
package diagnostics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"gitlab.com/docforge.net/internal/domain"
)

const (
	// ErrorMarker opens a fatal TeX error line, e.g. "! Undefined control sequence."
	ErrorMarker = "!"

	MaxContextLines = 4
	MaxErrors       = 10
	MaxWarnings     = 5

	NoWarningsMessage = "Compilation completed successfully"
)

type errorBlock struct {
	marked bool
	diag   domain.Diagnostic
}

// ExtractErrors collects error blocks. A block opens on a line starting with ErrorMarker or
// containing "error" in any case, takes up to MaxContextLines following lines and stops at
// the first blank one. Marker blocks rank ahead of keyword blocks; log order holds within each.
func ExtractErrors(log string) []domain.Diagnostic {
	lines := splitLines(log)
	blocks := make([]errorBlock, 0)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		marked := strings.HasPrefix(line, ErrorMarker)
		if !marked && !strings.Contains(strings.ToLower(line), "error") {
			continue
		}

		block := errorBlock{
			marked: marked,
			diag: domain.Diagnostic{
				Severity: domain.SeverityError,
				Message:  line,
			},
		}
		j := i + 1
		for ; j < len(lines) && len(block.diag.Context) < MaxContextLines; j++ {
			ctx := strings.TrimSpace(lines[j])
			if ctx == "" {
				break
			}
			block.diag.Context = append(block.diag.Context, ctx)
		}
		blocks = append(blocks, block)
		i = j - 1
	}

	sort.SliceStable(blocks, func(a, b int) bool {
		return blocks[a].marked && !blocks[b].marked
	})

	out := make([]domain.Diagnostic, 0, min(len(blocks), MaxErrors))
	for _, b := range blocks {
		if len(out) == MaxErrors {
			break
		}
		out = append(out, b.diag)
	}
	return out
}

// ExtractWarnings returns the first MaxWarnings lines mentioning "warning", trimmed.
// Without any, the report carries NoWarningsMessage and an empty list.
func ExtractWarnings(log string) domain.WarningReport {
	warnings := make([]string, 0, MaxWarnings)
	for _, line := range splitLines(log) {
		if len(warnings) == MaxWarnings {
			break
		}
		if strings.Contains(strings.ToLower(line), "warning") {
			warnings = append(warnings, strings.TrimSpace(line))
		}
	}

	if len(warnings) == 0 {
		return domain.WarningReport{Warnings: warnings, Message: NoWarningsMessage}
	}
	return domain.WarningReport{
		Warnings: warnings,
		Message:  NoWarningsMessage + " with warnings:\n" + strings.Join(warnings, "\n"),
	}
}

// AsDiagnostics wraps report entries as warning diagnostics
func AsDiagnostics(report domain.WarningReport) []domain.Diagnostic {
	out := make([]domain.Diagnostic, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		out = append(out, domain.Diagnostic{Severity: domain.SeverityWarning, Message: w})
	}
	return out
}

// Excerpt returns the last n characters of log; the end of a TeX log is where the errors are.
func Excerpt(log string, n int) string {
	if n <= 0 || utf8.RuneCountInString(log) <= n {
		return log
	}
	runes := []rune(log)
	return string(runes[len(runes)-n:])
}

// Summary renders diagnostics as plain text, one block per entry
func Summary(diags []domain.Diagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(d.Message)
		for _, c := range d.Context {
			b.WriteString("\n  ")
			b.WriteString(c)
		}
	}
	return b.String()
}

func splitLines(log string) []string {
	if log == "" {
		return nil
	}
	if !utf8.ValidString(log) {
		log = strings.ToValidUTF8(log, "�")
	}
	return strings.Split(strings.ReplaceAll(log, "\r\n", "\n"), "\n")
}
