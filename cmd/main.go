package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "docforge",
	Short:         "LaTeX to PDF compilation service",
	Long:          `docforge compiles LaTeX documents with pdflatex, over HTTP or from the command line`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var envFile string

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "load <env>.env before reading configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(modelsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads <env>.env when env is given, then builds the config from the environment
func loadConfig(env string) (*config.AppConfig, error) {
	if env != "" {
		if err := godotenv.Load(env + ".env"); err != nil {
			return nil, fmt.Errorf("error loading %s.env file: %w", env, err)
		}
	}
	return config.NewSystemConfig(), nil
}

func newLogger(cfg *config.AppConfig) *logging.ZapLogger {
	if cfg.DebugMode {
		return logging.NewZapLoggerWithLevel("debug")
	}
	return logging.NewZapLoggerWithLevel(cfg.LogLevel)
}
