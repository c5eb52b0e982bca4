package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"checktxt/internal/check"
	"checktxt/internal/highlight"
	"checktxt/internal/server"
	"checktxt/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the check API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().Bool("no-history", false, "Do not store full checks in the history database")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	levelName, _ := cmd.Flags().GetString("log-level")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(levelName)}))

	base, err := openWorkspace()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	settings, err := workspace.LoadSettings(base)
	if err != nil {
		return err
	}

	cfg := check.DefaultConfig()
	if settings.Stemmer != "" {
		cfg.Stemmer = settings.Stemmer
	}
	dbPath := ""
	if !noHistory {
		dbPath = cfg.DBPath
		if dbPath == "" {
			dbPath = workspace.DBPath(base)
		}
	}

	checker := check.New(cfg, check.WithHighlightIDs(highlight.RandomIDs))
	handler := server.NewHandler(checker, dbPath, logger)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "search", checker.SearchProvider(), "languagetool", cfg.LanguageToolURL)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-cmd.Context().Done():
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
