package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	http2 "gitlab.com/docforge.net/internal/http"
	"gitlab.com/docforge.net/internal/schedulerengine"
)

var serveCmd = &cobra.Command{
	Use:   "serve [env]",
	Short: "Run the HTTP API and the workspace janitor",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	env := envFile
	if len(args) > 0 {
		env = args[0]
	}
	sysCfg, err := loadConfig(env)
	if err != nil {
		return err
	}
	logger := newLogger(sysCfg)
	defer logger.Sync()

	// Set up graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting docforge service")
	a, err := newApp(ctx, sysCfg, logger, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if tool, err := a.compiler.Toolchain(ctx); err != nil {
		logger.Warn("Compiler not available yet, compile requests will fail until it is installed", "error", err)
	} else {
		logger.Info("Compiler resolved", "path", tool.Path, "version", tool.Version)
	}

	serviceProvider := http2.NewServiceProvider(a.compiler, a.generator, a.jobs, a.auth, a.registry)
	httpServer := http2.NewServer(sysCfg.HTTPConfig, sysCfg.JwtConfig.Enabled(), *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		return err
	}
	if err := httpServer.Start(ctx); err != nil {
		return err
	}

	janitor := schedulerengine.NewSchedulerEngine(sysCfg.JanitorCfg, a.workspaces, a.jobs, logger)
	janitor.SetObserver(a.recorder)
	if !sysCfg.DebugMode {
		janitor.Start(ctx)
	}

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sysCfg.HTTPConfig.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	janitor.Wait()

	logger.Info("successfully shutdown server")
	return nil
}
