package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alienxp03/arbiter/internal/config"
	"github.com/alienxp03/arbiter/internal/core"
	"github.com/alienxp03/arbiter/internal/debate"
	"github.com/alienxp03/arbiter/internal/export"
	"github.com/alienxp03/arbiter/internal/prompt"
	"github.com/alienxp03/arbiter/provider"
	"github.com/alienxp03/arbiter/web/handlers"
)

var (
	cfgPath   string
	appConfig *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arbiter",
	Short: "Multi-agent answer adjudication",
	Long: `arbiter asks several AI agents the same question, has them critique
each other's answers, and lets a designated arbiter rule on a final
answer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config
		var err error
		if cfgPath != "" {
			appConfig, err = config.LoadFrom(cfgPath)
		} else {
			appConfig, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: ~/.arbiter/config.yaml)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

func buildEngine(logger *slog.Logger) (*debate.Engine, *provider.Registry, error) {
	registry, err := appConfig.CreateRegistry()
	if err != nil {
		return nil, nil, err
	}

	gw := appConfig.CreateGateway(registry)
	builder := prompt.NewBuilder(appConfig.Defaults.ExcerptLimit)
	opts := debate.Options{
		MaxOutputTokens:   appConfig.Defaults.MaxOutputTokens,
		SingleLineAnswers: appConfig.Defaults.SingleLineAnswers,
	}

	eng := debate.New(gw, appConfig.Roster(), core.AgentID(appConfig.Arbiter), builder, opts, logger)
	return eng, registry, nil
}

// ============================================================================
// ASK COMMAND
// ============================================================================

var (
	exportFlag string
	outputFlag string
	debugFlag  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run a debate over a question",
	Long: `Ask every configured agent the question, run the critique round, and
print the arbiter's ruling.

Examples:
  arbiter ask "What is 15% of 240?"
  arbiter ask "Which sorting algorithm is stable?" --export md
  arbiter ask "Why is the sky blue?" --debug`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&exportFlag, "export", "e", "", "Export result (md, json, pdf)")
	askCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path")
	askCmd.Flags().BoolVar(&debugFlag, "debug", false, "Verbose logging")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	level := slog.LevelWarn
	if debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	eng, _, err := buildEngine(logger)
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}

	fmt.Printf("\n⚖️  Debating: %s\n", question)
	fmt.Printf("   Agents: %d | Arbiter: %s\n\n", len(appConfig.Agents), appConfig.Arbiter)
	fmt.Println(strings.Repeat("─", 60))

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := eng.RunWithProgress(ctx, question, func(s debate.State) {
		switch s {
		case debate.StateR1Pending:
			fmt.Println("\n⏳ Round 1: independent answers...")
		case debate.StateR2Pending:
			fmt.Println("⏳ Round 2: cross-critique...")
		case debate.StateR3Pending:
			fmt.Println("⏳ Round 3: arbitration...")
		}
	})
	if err != nil {
		return fmt.Errorf("debate failed: %w", err)
	}

	printResult(result)

	if exportFlag != "" {
		return exportResult(result, exportFlag, outputFlag)
	}
	return nil
}

func printResult(result *core.DebateResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("─", 60))
	for _, a := range result.RoundOne {
		fmt.Printf("\n📢 Round 1 - %s\n", a.AgentID)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Println(a.FinalAnswer)
	}
	for _, c := range result.RoundTwo {
		fmt.Printf("\n🔍 Round 2 - %s\n", c.AgentID)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Println(c.RevisedAnswer)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("═", 60))
	fmt.Println("🏁 VERDICT")
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("\n%s\n", result.FinalAnswer)
	if result.FinalRationale != "" {
		fmt.Printf("\n📌 Rationale:\n%s\n", result.FinalRationale)
	}
	fmt.Printf("\n(%s, %d agents)\n", result.Duration.Round(1e8), len(result.ChosenFrom))
}

func exportResult(result *core.DebateResult, format, outputPath string) error {
	exporter, err := export.GetExporter(export.Format(strings.ToLower(format)))
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = export.GenerateFilename(result, exporter.FileExtension())
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := exporter.Export(result, file); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	fmt.Printf("Exported to: %s\n", outputPath)
	return nil
}

// ============================================================================
// AGENTS COMMAND
// ============================================================================

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List configured agents",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("\nConfigured Agents:")
		fmt.Println(strings.Repeat("─", 50))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROVIDER\tMODEL\tROLE")

		for _, a := range appConfig.Roster() {
			role := ""
			if string(a.ID) == appConfig.Arbiter {
				role = "arbiter"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Provider, a.Model, role)
		}
		w.Flush()
	},
}

// ============================================================================
// PROVIDERS COMMAND
// ============================================================================

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available AI providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := appConfig.CreateRegistry()
		if err != nil {
			return err
		}

		fmt.Println("\nAvailable Providers:")
		fmt.Println(strings.Repeat("─", 50))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDISPLAY\tMODELS\tSTATUS")

		for _, p := range registry.List() {
			status := "❌ Not installed"
			if p.Available() {
				status = "✅ Available"
			}
			models := strings.Join(p.Models(), ", ")
			if len(models) > 30 {
				models = models[:27] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name(), p.DisplayName(), models, status)
		}
		w.Flush()
		return nil
	},
}

// ============================================================================
// CONFIG COMMAND
// ============================================================================

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file: %s\n\n", config.DefaultConfigPath())

		if appConfig != nil {
			fmt.Println("Current settings:")
			fmt.Printf("  Max output tokens: %d\n", appConfig.Defaults.MaxOutputTokens)
			fmt.Printf("  Excerpt limit: %d\n", appConfig.Defaults.ExcerptLimit)
			fmt.Printf("  Arbiter: %s\n", appConfig.Arbiter)
			fmt.Println("\nAgents:")
			for _, a := range appConfig.Agents {
				fmt.Printf("  %s: %s (%s)\n", a.ID, a.Provider, a.Model)
			}
			fmt.Println("\nProviders:")
			for name, p := range appConfig.Providers {
				status := "disabled"
				if p.Enabled {
					status = "enabled"
				}
				fmt.Printf("  %s: %s (failure: %s, ceiling: %d)\n", name, status, p.FailureMode, p.MaxOutputTokens)
			}
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create example config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}

		example := config.GenerateExample()
		if err := os.MkdirAll(strings.TrimSuffix(path, "/config.yaml"), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(example), 0644); err != nil {
			return err
		}

		fmt.Printf("Created config at: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// ============================================================================
// SERVE COMMAND
// ============================================================================

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		eng, registry, err := buildEngine(logger)
		if err != nil {
			return fmt.Errorf("failed to initialize providers: %w", err)
		}

		port := servePort
		if port == 0 {
			port = appConfig.Server.Port
		}

		fmt.Printf("\n🌐 Starting arbiter server on http://localhost:%d\n\n", port)
		fmt.Println("Available endpoints:")
		fmt.Printf("  POST http://localhost:%d/api/debates        - Run a debate\n", port)
		fmt.Printf("  GET  http://localhost:%d/api/debates/stream - Stream a debate\n", port)
		fmt.Printf("  GET  http://localhost:%d/api/agents         - List agents\n", port)
		fmt.Println("\nPress Ctrl+C to stop the server")

		h := handlers.New(eng, registry, appConfig.Roster(), core.AgentID(appConfig.Arbiter))
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: h.Router(),
		}

		// Handle shutdown
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			fmt.Println("\nShutting down...")
			server.Close()
		}()

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Server port (default: config value)")
}
