package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bubbledash/internal/provider"
	"bubbledash/internal/scheduler"
)

type newsOutput struct {
	Origin provider.Origin `json:"origin"`
	provider.NewsSummary
}

func (c *cli) newsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news QUERY",
		Short: "Print the sentiment summary for a news query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			res := c.app.DataProvider.FetchNewsResult(cmd.Context(), query)
			if res.Origin == provider.OriginFailed {
				return fmt.Errorf("news unavailable: %w", res.Err)
			}
			return c.print(newsOutput{Origin: res.Origin, NewsSummary: res.Summary})
		},
	}
}

func (c *cli) riskCmd() *cobra.Command {
	var symbol, query string
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Score bubble risk from live data and baseline readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.print(c.app.DataProvider.Risk(cmd.Context(), strings.ToUpper(symbol), query))
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "NVDA", "ticker whose fundamentals and quote feed the score")
	cmd.Flags().StringVar(&query, "query", "AI bubble", "news query whose sentiment feeds the score")
	return cmd
}

func (c *cli) selfTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Probe every provider that has an API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.print(c.app.DataProvider.SelfTest(cmd.Context()))
		},
	}
}

func (c *cli) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the configured watchlist once and record snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.app.Config.Scheduler
			watchlist := scheduler.Watchlist{Symbols: cfg.Symbols, Queries: cfg.Queries}
			if watchlist.Empty() {
				return fmt.Errorf("watchlist is empty")
			}
			s := scheduler.New(cmd.Context(), c.app.DataProvider, c.app.Store, watchlist, scheduler.WithLogger(c.app.Logger))
			return s.Refresh(cmd.Context())
		},
	}
}

func (c *cli) snapshotsCmd() *cobra.Command {
	var limit int
	var query string
	cmd := &cobra.Command{
		Use:   "snapshots [SYMBOL]",
		Short: "List recorded quote snapshots for a ticker, or news snapshots with --query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if query != "" {
				snaps, err := c.app.Store.ListNews(cmd.Context(), query, limit)
				if err != nil {
					return err
				}
				return c.print(snaps)
			}
			if len(args) == 0 {
				return fmt.Errorf("a symbol or --query is required")
			}
			snaps, err := c.app.Store.ListQuotes(cmd.Context(), strings.ToUpper(args[0]), limit)
			if err != nil {
				return err
			}
			return c.print(snaps)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum snapshots to print, newest first")
	cmd.Flags().StringVar(&query, "query", "", "list news snapshots for this query")
	return cmd
}
