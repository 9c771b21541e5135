package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the generation models that support content generation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sysCfg, err := loadConfig(envFile)
		if err != nil {
			return err
		}
		if !sysCfg.GenAIConfig.Enabled() {
			return errors.New("GEMINI_API_KEY is not set")
		}
		logger := newLogger(sysCfg)
		defer logger.Sync()

		a, err := newApp(cmd.Context(), sysCfg, logger, false)
		if err != nil {
			return err
		}
		defer a.Close()

		models, err := a.generator.ListModels(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, m := range models {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.DisplayName)
		}
		return tw.Flush()
	},
}
