package main

import (
	"github.com/spf13/cobra"

	"bubbledash/internal/credentials"
)

type keyStatus struct {
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
	Key        string `json:"key,omitempty"`
}

func (c *cli) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show or change provider API keys",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show which providers have a key, masked",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			dp := c.app.DataProvider
			out := make([]keyStatus, 0, len(credentials.Providers()))
			for _, name := range credentials.Providers() {
				st := keyStatus{Provider: name, Configured: dp.Configured(name)}
				if st.Configured {
					st.Key = credentials.Mask(dp.GetKey(name))
				}
				out = append(out, st)
			}
			return c.print(out)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set PROVIDER KEY",
		Short: "Save a key (alphaVantage or newsData); an empty KEY clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DataProvider.SetKey(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return c.print(keyStatus{Provider: args[0], Configured: c.app.DataProvider.Configured(args[0])})
		},
	})
	return cmd
}
