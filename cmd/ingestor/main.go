// Package main provides the content metrics ingestor CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"content_metrics/internal/domain"
	"content_metrics/internal/scheduler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "ingestor",
		Short:        "Collect social media engagement metrics and build dashboard series",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(
		newRunCmd(&configPath),
		newSweepCmd(&configPath),
		newRefreshCmd(&configPath),
		newRefreshPlatformCmd(&configPath),
		newRefreshUserCmd(&configPath),
		newSeriesCmd(&configPath),
		newUserSeriesCmd(&configPath),
		newPlatformSeriesCmd(&configPath),
		newSummaryCmd(&configPath),
		newEngagementCmd(&configPath),
	)
	return rootCmd
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sweep all tracked content on the configured interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.logger.Info("starting metrics ingestor",
				"interval", a.cfg.Sync.Interval,
				"workers", a.cfg.Sync.Workers,
				"platforms", a.registry.Platforms(),
			)

			sched := scheduler.NewScheduler(a.ingest, a.cfg.Sync.Interval, a.cfg.Sync.SweepTimeout, a.logger)
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("scheduler: %w", err)
			}
			return nil
		},
	}
}

func newSweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single sweep over all tracked content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Sync.SweepTimeout)
			defer cancel()

			stats, err := a.ingest.Sweep(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sweepOutput(stats))
		},
	}
}

func newRefreshCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <content-id>",
		Short: "Fetch and store a new sample for one content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			sample, err := a.ingest.Refresh(cmd.Context(), contentID)
			if err != nil {
				return fmt.Errorf("refresh content %d (%s): %w", contentID, domain.ErrorKind(err), err)
			}
			return writeJSON(cmd.OutOrStdout(), sample)
		},
	}
}

func newRefreshPlatformCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-platform <platform>",
		Short: "Refresh every tracked content item of one platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.ingest.RefreshPlatform(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resultsOutput(results))
		},
	}
}

func newRefreshUserCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-user <user-id>",
		Short: "Refresh every content item of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.ingest.RefreshUser(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resultsOutput(results))
		},
	}
}

func newSeriesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "series <content-id>",
		Short: "Print the daily series of one content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			points, err := a.analytics.ContentSeries(cmd.Context(), contentID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), points)
		},
	}
}

func newUserSeriesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "user-series <user-id>",
		Short: "Print the daily series summed over a user's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			points, err := a.analytics.UserSeries(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), points)
		},
	}
}

func newPlatformSeriesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "platform-series <user-id> <platform>",
		Short: "Print the recent daily series of a user's content on one platform",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			return writeJSON(cmd.OutOrStdout(), a.analytics.PlatformSeries(cmd.Context(), userID, args[1]))
		},
	}
}

func newSummaryCmd(configPath *string) *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "summary <user-id>",
		Short: "Print totals over the latest sample of each of a user's content items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			return writeJSON(cmd.OutOrStdout(), a.analytics.Summary(cmd.Context(), userID, platform))
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "restrict to one platform")
	return cmd
}

func newEngagementCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "engagement <user-id>",
		Short: "Print the average engagement rate per registered platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.analytics.EngagementByPlatform(cmd.Context(), userID, a.registry.Platforms())
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

type itemOutput struct {
	ContentID int64                `json:"contentId"`
	OK        bool                 `json:"ok"`
	Kind      string               `json:"kind,omitempty"`
	Error     string               `json:"error,omitempty"`
	Sample    *domain.MetricSample `json:"sample,omitempty"`
}

func resultsOutput(results []domain.ItemResult) []itemOutput {
	out := make([]itemOutput, 0, len(results))
	for _, r := range results {
		item := itemOutput{ContentID: r.ContentID, OK: r.Err == nil, Sample: r.Sample}
		if r.Err != nil {
			item.Kind = domain.ErrorKind(r.Err)
			item.Error = r.Err.Error()
		}
		out = append(out, item)
	}
	return out
}

type failureOutput struct {
	ContentID int64  `json:"contentId"`
	Platform  string `json:"platform"`
	Kind      string `json:"kind"`
	Error     string `json:"error"`
}

type sweepStatsOutput struct {
	SweepID   string          `json:"sweepId"`
	Total     int             `json:"total"`
	Succeeded int             `json:"successCount"`
	Failed    int             `json:"errorCount"`
	Skipped   int             `json:"skipped"`
	Published int             `json:"published"`
	Duration  string          `json:"duration"`
	Failures  []failureOutput `json:"failures"`
}

func sweepOutput(stats *domain.SweepStats) sweepStatsOutput {
	out := sweepStatsOutput{
		SweepID:   stats.SweepID,
		Total:     stats.Total,
		Succeeded: stats.Succeeded,
		Failed:    stats.Failed,
		Skipped:   stats.Skipped,
		Published: stats.Published,
		Duration:  stats.Duration.String(),
		Failures:  make([]failureOutput, 0, len(stats.Failures)),
	}
	for _, f := range stats.Failures {
		out.Failures = append(out.Failures, failureOutput{
			ContentID: f.ContentID,
			Platform:  f.Platform,
			Kind:      f.Kind,
			Error:     f.Err.Error(),
		})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
