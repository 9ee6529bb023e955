// Command mcp-server exposes the limit engine as MCP tools.
//
// By default it speaks MCP over stdio. With --http (or GOLIMIT_MCP_HTTP_ADDR)
// it serves streamable HTTP instead:
//
//	POST /mcp      MCP endpoint
//	GET  /health   liveness check
//	GET  /metrics  Prometheus metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	golimit "github.com/njchilds90/golimit"
	"github.com/njchilds90/golimit/internal/config"
	"github.com/njchilds90/golimit/internal/metrics"
	"github.com/njchilds90/golimit/internal/tools"
)

const (
	serverName    = "golimit"
	serverVersion = "1.0.0"
)

var (
	verbose  bool
	httpAddr string
)

var rootCmd = &cobra.Command{
	Use:          "mcp-server",
	Short:        "Serve compute_limit, generate_graph_data and can_plot_function over MCP",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVar(&httpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio")
}

func newLogger() (*zap.Logger, error) {
	// stdout carries the stdio transport, so logs go to stderr.
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func run(ctx context.Context) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	settings, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("load server settings: %w", err)
	}
	if httpAddr != "" {
		settings.HTTPAddr = httpAddr
	}
	cfg, err := config.Load(settings.ConfigPath)
	if err != nil {
		return err
	}
	engine, err := golimit.New(cfg, golimit.WithLogger(logger.Named("engine")))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	toolset := tools.New(engine, metrics.New(reg), logger.Named("tools"))

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	toolset.Register(server)

	if settings.HTTPAddr == "" {
		logger.Info("serving MCP over stdio")
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve stdio: %w", err)
		}
		return nil
	}
	return serveHTTP(ctx, logger, server, reg, settings)
}

func serveHTTP(ctx context.Context, logger *zap.Logger, server *mcp.Server, reg *prometheus.Registry, settings config.Server) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", recoverer(logger, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	if settings.Metrics {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving MCP over HTTP",
			zap.String("addr", settings.HTTPAddr),
			zap.Bool("metrics", settings.Metrics))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func recoverer(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
