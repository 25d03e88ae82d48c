package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/github"
	"github.com/reviewlens/reviewlens/internal/logging"
	"github.com/reviewlens/reviewlens/internal/mcp"
	"github.com/reviewlens/reviewlens/internal/mcp/tools"
	"github.com/reviewlens/reviewlens/internal/pipeline"
	"github.com/reviewlens/reviewlens/internal/store"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

var rootCmd = &cobra.Command{
	Use:   "reviewlens",
	Short: "Turn PR review comments into per-reviewer insight reports",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pr-url>",
	Short: "Analyze the review comments on one pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, database, err := newService()
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}

		ctx, cancel := signalContext()
		defer cancel()

		stdout, _ := cmd.Flags().GetBool("stdout")
		result, err := svc.Run(ctx, args[0], !stdout)
		if err != nil {
			return err
		}

		if stdout {
			fmt.Println(result.Markdown)
			return nil
		}
		svc.Log.Info("done",
			"report", result.Path,
			"reviewers", result.Reviewers,
			"dropped_comments", result.Dropped,
			"failed_sections", result.FailedPairs,
		)
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "config-check",
	Short: "Validate the effective configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("model:            %s\n", settings.LLMModel)
		fmt.Printf("ollama url:       %s\n", settings.OllamaURL)
		fmt.Printf("retry count:      %d\n", settings.RetryCount)
		fmt.Printf("call timeout:     %s\n", settings.CallTimeout)
		fmt.Printf("input budget:     %d tokens\n", settings.MaxInputTokens)
		fmt.Printf("concurrency:      %d\n", settings.Concurrency)
		fmt.Printf("bot suffix:       %s\n", settings.BotSuffix)
		fmt.Printf("output dir:       %s\n", settings.OutputDir)
		fmt.Printf("github token:     %s\n", presence(settings.GitHubToken))
		fmt.Printf("database:         %s\n", presence(settings.PostgresURL))

		if settings.GitHubToken != "" {
			logger := logging.New(logging.ForLevel(settings.LogLevel))
			client, err := github.NewClient(settings.GitHubToken, settings.GitHubAPIBaseURL, logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			remaining, limit, err := client.RateLimit(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("github api:       reachable, %d/%d requests remaining\n", remaining, limit)
		} else {
			fmt.Println("github api:       not checked (no token set)")
		}

		fmt.Println("configuration ok")
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated reports (requires a database)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, database, err := newService()
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}

		ctx, cancel := signalContext()
		defer cancel()

		repository, _ := cmd.Flags().GetString("repo")
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := svc.History(ctx, repository, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no reports stored")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %s#%d  reviewers=%d failed=%d  %s\n",
				pipeline.Timestamp(rec.GeneratedAt),
				rec.Repository, rec.PRNumber,
				rec.Reviewers, rec.FailedPairs,
				rec.PRTitle,
			)
		}
		return nil
	},
}

var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve the analysis pipeline over MCP (streamable HTTP)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, database, err := newService()
		if err != nil {
			return err
		}

		adapters := map[string]mcp.ToolAdapter{
			"analyze_pr": &tools.AnalyzePRHandler{Service: svc},
		}
		if svc.Reports != nil {
			adapters["list_reports"] = &tools.ListReportsHandler{Service: svc}
		}

		srv := mcp.New(mcp.Config{
			ToolAdapters: adapters,
			Options: []mcpserver.StreamableHTTPOption{
				mcpserver.WithEndpointPath("/mcp/jsonrpc"),
				mcpserver.WithStateLess(true),
			},
			Database: database,
		})
		defer srv.Close()

		httpServer := &http.Server{
			Addr:    svc.Settings.MCPListenAddr,
			Handler: srv.Handler,
		}

		errCh := make(chan error, 1)
		go func() {
			svc.Log.Info("MCP server listening", "addr", svc.Settings.MCPListenAddr)
			errCh <- httpServer.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-stop:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(ctx)
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		}
	},
}

// newService loads settings, builds the shared logger, and connects the
// optional report store. The returned database is nil when no DSN is
// configured; callers own closing it.
func newService() (*pipeline.Service, *store.Database, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(logging.ForLevel(settings.LogLevel))

	svc := &pipeline.Service{Settings: settings, Log: logger}
	if settings.PostgresURL == "" {
		return svc, nil, nil
	}

	database, err := store.NewDatabase(store.Config{
		DSN:   settings.PostgresURL,
		Debug: settings.PostgresDebug,
	})
	if err != nil {
		return nil, nil, err
	}
	repo := store.NewReportRepository(database)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		database.Close()
		return nil, nil, err
	}
	svc.Reports = repo
	return svc, database, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func presence(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "(set)"
}

func main() {
	analyzeCmd.Flags().Bool("stdout", false, "Print the report to stdout instead of writing a file")
	historyCmd.Flags().String("repo", "", "Filter by owner/name repository")
	historyCmd.Flags().Int("limit", 20, "Maximum number of reports to list")

	config.Init(rootCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpServerCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("reviewlens: %v", err)
	}
}
