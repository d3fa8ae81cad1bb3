package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tailorcv/tailorcv/internal/api"
	"github.com/tailorcv/tailorcv/internal/config"
	"github.com/tailorcv/tailorcv/internal/history"
	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/profile"
	"github.com/tailorcv/tailorcv/internal/render"
	"github.com/tailorcv/tailorcv/internal/tailor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tailorcv HTTP API and MCP server",
	Long: `Run the tailorcv HTTP API and MCP server.

The HTTP API listens on the configured server port and requires a bearer
token. The MCP server exposes the same operations as tools over
streamable HTTP on the MCP port, for use from MCP-capable clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	fmt.Fprintf(os.Stderr, "tailorcv version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	token := cfg.Server.APIToken
	if token == "" {
		token = newToken()
		printWarning("no API token configured, using a one-off token for this session")
		printStatus("Token", "%s", token)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := llm.FromConfig(cfg.LLM)
	if err != nil {
		return err
	}
	if o, ok := client.(*llm.Ollama); ok {
		if err := o.EnsureReady(ctx, os.Stderr); err != nil {
			return err
		}
	}

	runs, err := history.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() {
		if err := runs.Close(); err != nil {
			slog.Warn("closing history", "error", err)
		}
	}()

	store := profile.NewStore(cfg.Storage.ProfilePath)
	pipe := tailor.NewPipeline(client, store, render.NewPDF(), cfg.Storage.DataDir)

	appHandler := api.NewAppHandler(api.AppDeps{
		Profile:  store,
		Pipeline: pipe,
		History:  runs,
		Token:    token,
		Model:    cfg.LLM.Model,
	})
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler: appHandler,
	}

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Profile:  store,
		Pipeline: pipe,
		History:  &runRecorder{store: runs, model: cfg.LLM.Model},
	})
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mcpAddr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.MCPPort)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP API listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("MCP server listening", "addr", mcpAddr)
		if err := mcpHTTP.Start(mcpAddr); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown", "error", err)
		}
		if err := mcpHTTP.Shutdown(shutdownCtx); err != nil {
			slog.Warn("mcp shutdown", "error", err)
		}
		return nil
	})

	return g.Wait()
}

func newToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// runRecorder adapts the history store to the MCP server's recorder.
type runRecorder struct {
	store *history.Store
	model string
}

func (r *runRecorder) RecordRunResult(res tailor.Result) {
	if _, err := r.store.RecordRun(history.Run{
		JobTitle:   res.JobTitle,
		Language:   string(res.Language),
		Backend:    res.Backend,
		Model:      r.model,
		OutputFile: res.OutputFile,
	}); err != nil {
		slog.Warn("recording run", "error", err)
	}
}
