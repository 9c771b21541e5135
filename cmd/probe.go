package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Locate the compiler and print its path and version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		tool, err := a.compiler.Toolchain(cmd.Context())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "path:    %s\nversion: %s\n", tool.Path, tool.Version)
		return nil
	},
}
