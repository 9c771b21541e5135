package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/docforge.net/internal/core/services/diagnostics"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

var compileOutput string

var compileCmd = &cobra.Command{
	Use:   "compile <file.tex>",
	Short: "Compile one document and write the PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output PDF path (default: input name with .pdf)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input := args[0]
	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", input, err)
	}

	sysCfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	logger := newLogger(sysCfg)
	defer logger.Sync()

	a, err := newApp(cmd.Context(), sysCfg, logger, false)
	if err != nil {
		return err
	}
	defer a.Close()

	outcome := a.compiler.Compile(cmd.Context(), domain.JobSourceCLI, string(source))
	printOutcome(cmd.OutOrStdout(), cmd.ErrOrStderr(), outcome)
	if !outcome.Success {
		return errors.Join(errs.ForKind(outcome.Kind), errors.New(outcome.Detail))
	}

	target := outputPath(input, compileOutput)
	if err := os.WriteFile(target, outcome.Artifact, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", target, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", target, len(outcome.Artifact))
	return nil
}

// outputPath defaults to the input path with a .pdf extension
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}

func printOutcome(stdout, stderr io.Writer, outcome domain.Outcome) {
	if outcome.Success {
		_, _ = fmt.Fprintf(stdout, "compiled in %s mode after %d attempt(s) in %s\n",
			outcome.Mode, outcome.Attempts, outcome.Duration.Round(time.Millisecond))
		for _, w := range outcome.Warnings {
			_, _ = fmt.Fprintf(stdout, "warning: %s\n", w)
		}
		for _, n := range outcome.Notes {
			_, _ = fmt.Fprintf(stdout, "note: %s\n", n)
		}
		if len(outcome.Warnings) == 0 && outcome.Message != "" {
			_, _ = fmt.Fprintln(stdout, outcome.Message)
		}
		return
	}

	_, _ = fmt.Fprintf(stderr, "%s: %s\n", outcome.Kind, outcome.Detail)
	if summary := diagnostics.Summary(outcome.Errors); summary != "" {
		_, _ = fmt.Fprintln(stderr, summary)
	}
}
