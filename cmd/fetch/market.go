package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL",
		Short: "Print the latest quote for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			q := c.app.DataProvider.FetchQuote(cmd.Context(), symbol)
			if q == nil {
				return fmt.Errorf("no quote data for %s", symbol)
			}
			return c.print(q)
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	var function string
	var candles bool
	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Print a historical price series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			s := c.app.DataProvider.FetchHistorical(cmd.Context(), symbol, function)
			if s == nil {
				return fmt.Errorf("no historical data for %s", symbol)
			}
			if candles {
				return c.print(s.Candles())
			}
			return c.print(s)
		},
	}
	cmd.Flags().StringVar(&function, "function", "", "series function, e.g. TIME_SERIES_WEEKLY (default daily)")
	cmd.Flags().BoolVar(&candles, "candles", false, "print parsed OHLCV rows instead of the raw series")
	return cmd
}

func (c *cli) fundamentalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fundamentals SYMBOL",
		Short: "Print valuation metrics for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			f := c.app.DataProvider.FetchFundamentals(cmd.Context(), symbol)
			if f == nil {
				return fmt.Errorf("fundamentals unavailable for %s", symbol)
			}
			return c.print(f)
		},
	}
}
