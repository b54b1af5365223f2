package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kobohub/kobohub/internal/core"
	httpsvr "github.com/kobohub/kobohub/internal/http"
	"github.com/kobohub/kobohub/internal/kobo"
	"github.com/kobohub/kobohub/internal/tools"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:           "kobohub",
		Short:         "kobohub, a KoboToolbox MCP server",
		Long:          "kobohub exposes KoboToolbox survey management as MCP tools over stdio.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools over stdio",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	// stdout carries the MCP protocol stream; all logging goes to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := core.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return err
	}

	client := kobo.NewClient(cfg.ServerURL, cfg.APIToken, logger)
	svc := tools.NewService(client, logger)

	srv := server.NewMCPServer("kobohub", version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	svc.Register(srv)

	if cfg.HTTPListen != "" {
		ops := httpsvr.NewServer(cfg.HTTPListen, logger, httpsvr.BuildInfo{
			Version:   version,
			GitCommit: commit,
			BuildTime: date,
		})
		go func() {
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ops.Shutdown(ctx)
		}()
	}

	logger.Info("kobohub starting", "server", cfg.ServerURL, "version", version)
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "err", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("kobohub %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
