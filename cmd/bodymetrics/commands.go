package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// withService opens the configured store and runs fn against a MetricService.
func withService(ctx context.Context, opts *rootOptions, fn func(svc *app.MetricService) error) (err error) {
	cfg, closeLogs, err := opts.loadConfig()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeLogs()) }()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeStore()) }()

	return fn(app.NewMetricService(repo, domain.DefaultCatalog()))
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the supported metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), domain.DefaultCatalog())
		},
	}
}

func printCatalog(out io.Writer, catalog *domain.Catalog) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tUNIT")
	for _, c := range catalog.List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Key, c.Name, c.Unit)
	}
	return tw.Flush()
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [KEY]",
		Short: "Show every metric, or one metric with its history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withService(ctx, opts, func(svc *app.MetricService) error {
				if len(args) == 0 {
					items, err := svc.Overview(ctx)
					if err != nil {
						return err
					}
					return printOverview(cmd.OutOrStdout(), items)
				}
				return showMetric(ctx, cmd.OutOrStdout(), svc, domain.MetricTypeKey(args[0]))
			})
		},
	}
}

func printOverview(out io.Writer, items []app.MetricSummary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCURRENT\tTREND\tCOUNT\tMEAN\tUPDATED")
	for _, it := range items {
		current := "-"
		if it.CurrentValue != nil {
			current = fmt.Sprintf("%s %s", formatValue(*it.CurrentValue), it.Config.Unit)
		}
		trend := "-"
		if it.Trend != nil {
			trend = formatTrend(*it.Trend)
		}
		mean := it.Stats.MeanDisplay()
		if mean == "" {
			mean = "-"
		}
		updated := it.LastUpdated
		if updated == "" {
			updated = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", it.Config.Key, current, trend, it.Stats.Count, mean, updated)
	}
	return tw.Flush()
}

func showMetric(ctx context.Context, out io.Writer, svc *app.MetricService, key domain.MetricTypeKey) error {
	cfg, ok := svc.Catalog().Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownMetric, key)
	}
	m, err := svc.LoadOne(ctx, key)
	if err != nil {
		return err
	}
	if m == nil || len(m.Entries) == 0 {
		_, err := fmt.Fprintf(out, "%s: no entries\n", cfg.Name)
		return err
	}

	stats := domain.StatsOf(m.Entries)
	fmt.Fprintf(out, "%s (%s)\n", cfg.Name, cfg.Unit)
	fmt.Fprintf(out, "current: %s, updated %s\n", formatValue(*m.CurrentValue), m.LastUpdated)
	if t, ok := domain.TrendOf(*m); ok {
		fmt.Fprintf(out, "trend: %s\n", formatTrend(t))
	}
	fmt.Fprintf(out, "count: %d, min: %s, max: %s, mean: %s\n",
		stats.Count, formatValue(*stats.Min), formatValue(*stats.Max), stats.MeanDisplay())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tVALUE")
	for _, e := range m.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\n", e.Date, e.Time, formatValue(e.Value), e.Unit)
	}
	return tw.Flush()
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add KEY VALUE",
		Short: "Record a new value for a metric",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := domain.MetricTypeKey(args[0])
			if !domain.DefaultCatalog().Has(key) {
				return fmt.Errorf("%w: %q", domain.ErrUnknownMetric, key)
			}
			value, err := domain.ParseValue(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withService(ctx, opts, func(svc *app.MetricService) error {
				data, err := svc.AppendEntry(ctx, key, value)
				if err != nil {
					return err
				}
				m := data[key]
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s (%d entries)\n",
					key, formatValue(*m.CurrentValue), m.Entries[0].Unit, len(m.Entries))
				return err
			})
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print a bcrypt hash for BODYMETRICS_ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := app.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func formatValue(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatTrend(t domain.Trend) string {
	sign := "+"
	if !t.IsPositive {
		sign = "-"
	}
	return sign + formatValue(t.Magnitude)
}
