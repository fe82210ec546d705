// Command cupid-insights downloads game telemetry snapshots and prints
// derived views: per-agent statistics, session transcripts, session
// summaries, user activity, and corpus-wide usage metrics.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	insights "github.com/cupidlabs/insights-go"
	"github.com/cupidlabs/insights-go/internal/cli/config"
)

var (
	cfgPath  string
	cfg      *config.Config
	logger   *zap.SugaredLogger
	snapshot string
)

func main() {
	root := &cobra.Command{
		Use:   "cupid-insights",
		Short: "Analytics over Cupid game telemetry",
		Long: `cupid-insights ingests Langfuse traces from the Cupid dating game and
derives per-agent statistics, session transcripts, and progress reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			if snapshot != "" {
				cfg.Snapshot.Path = snapshot
			}
			logger, err = newLogger(cfg.Log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&snapshot, "snapshot", "", "path to snapshot file (overrides config)")

	root.AddCommand(
		newHealthCmd(),
		newDownloadCmd(),
		newAgentsCmd(),
		newTranscriptCmd(),
		newSessionsCmd(),
		newUsersCmd(),
		newMetricsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(lc config.LogConfig) (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	if lc.Debug || lc.Level == "debug" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// zapAdapter bridges a zap sugared logger to the engine's logging interface.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func (a zapAdapter) Debug(msg string, args ...any) { a.sugar.Debugw(msg, args...) }
func (a zapAdapter) Info(msg string, args ...any)  { a.sugar.Infow(msg, args...) }
func (a zapAdapter) Warn(msg string, args ...any)  { a.sugar.Warnw(msg, args...) }
func (a zapAdapter) Error(msg string, args ...any) { a.sugar.Errorw(msg, args...) }

func newClient() (*insights.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []insights.ConfigOption{
		insights.WithStructuredLogger(zapAdapter{sugar: logger}),
		insights.WithDebug(cfg.Log.Debug),
	}
	if cfg.Langfuse.BaseURL != "" {
		opts = append(opts, insights.WithBaseURL(cfg.Langfuse.BaseURL))
	} else if cfg.Langfuse.Region != "" {
		opts = append(opts, insights.WithRegion(insights.Region(cfg.Langfuse.Region)))
	}
	if cfg.Pacing.MaxRetries > 0 {
		opts = append(opts, insights.WithMaxRetries(cfg.Pacing.MaxRetries))
	}
	if cfg.Pacing.PageSize > 0 {
		opts = append(opts, insights.WithPageSize(cfg.Pacing.PageSize))
	}
	if cfg.Pacing.PageDelay != 0 {
		opts = append(opts, insights.WithPageDelay(cfg.Pacing.PageDelay))
	}
	if cfg.Pacing.TraceDetailDelay != 0 {
		opts = append(opts, insights.WithTraceDetailDelay(cfg.Pacing.TraceDetailDelay))
	}

	return insights.New(cfg.Langfuse.PublicKey, cfg.Langfuse.SecretKey, opts...)
}

func openStore() (*insights.Store, error) {
	client, err := newClient()
	if err != nil {
		// Reading an existing snapshot needs no credentials.
		return insights.NewStore(cfg.Snapshot.Path, nil), nil
	}
	return insights.NewStore(cfg.Snapshot.Path, insights.NewDownloader(client)), nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to the Langfuse API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			status, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Status:  %s\n", status.Status)
			if status.Version != "" {
				fmt.Printf("Version: %s\n", status.Version)
			}
			return nil
		},
	}
}

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download a fresh telemetry snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			store := insights.NewStore(cfg.Snapshot.Path, insights.NewDownloader(client))
			start := time.Now()
			if err := store.Refresh(cmd.Context()); err != nil {
				return err
			}
			snap, err := store.Snapshot()
			if err != nil {
				return err
			}
			logger.Infow("snapshot written",
				"path", cfg.Snapshot.Path,
				"sessions", len(snap.Sessions),
				"traces", len(snap.Traces),
				"observations", len(snap.Observations),
				"elapsed", time.Since(start).Round(time.Millisecond),
			)
			return nil
		},
	}
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Print per-agent performance statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			stats, err := store.AgentStats()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tCATEGORY\tEXECS\tERRORS\tSUCCESS\tAVG LATENCY\tCOST\tTOKENS")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f%%\t%.0fms\t$%.4f\t%d\n",
					s.Name, insights.CategoryOf(s.Name), s.Executions, s.Errors,
					s.SuccessRatePct, s.AvgLatencyMs, s.TotalCost, s.TotalTokens)
			}
			return w.Flush()
		},
	}
}

func newTranscriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <session-id>",
		Short: "Print a session's reconstructed conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			sessionID := args[0]
			transcript, err := store.SessionTranscript(sessionID)
			if err != nil {
				return err
			}
			progress, err := store.SessionProgress(sessionID)
			if err != nil {
				return err
			}

			fmt.Printf("Session %s - %s (chapter %d)\n\n", sessionID, progress.Label, progress.MaxChapter)
			for _, msg := range transcript {
				speaker := "You"
				if msg.Type == insights.MessageTypeAgent {
					speaker = msg.Agent
					if speaker == "" {
						speaker = "Agent"
					}
				}
				ts := msg.Timestamp.Format("15:04:05")
				fmt.Printf("[%s] %s: %s\n", ts, speaker, strings.TrimSpace(msg.Content))
			}
			return nil
		},
	}
}

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions with progress and cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			summaries, err := store.SessionSummaries()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tUSER\tMORTAL\tMATCH\tPROGRESS\tTRACES\tCOST")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t$%.4f\n",
					s.SessionID, s.UserID, s.Mortal, s.Match,
					s.Progress.Label, s.TraceCount, s.TotalCost)
			}
			return w.Flush()
		},
	}
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with session and cost rollups",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			users, err := store.Users()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tSESSIONS\tTRACES\tCOST\tAVG LATENCY\tLAST ACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%d\t%d\t$%.4f\t%.2fs\t%s\n",
					u.UserID, u.SessionCount, u.TraceCount, u.TotalCost,
					u.AvgLatency, u.LastActive.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print corpus-wide usage metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			m, err := store.Metrics()
			if err != nil {
				return err
			}

			fmt.Printf("Sessions:     %d\n", m.TotalSessions)
			fmt.Printf("Traces:       %d\n", m.TotalTraces)
			fmt.Printf("Unique users: %d\n", m.UniqueUsers)
			fmt.Printf("Total cost:   $%.4f\n", m.TotalCost)
			fmt.Printf("Avg latency:  %.2fs\n", m.AvgLatency)
			return nil
		},
	}
}
