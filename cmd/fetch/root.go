package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bubbledash/internal/app"
	"bubbledash/internal/config"
	"bubbledash/internal/logger"
)

// cli carries state shared by every subcommand.
type cli struct {
	out        io.Writer
	configPath string
	logLevel   string

	app      *app.App
	logClose io.Closer
}

// run executes the command line in args and releases whatever setup opened,
// whether or not the command succeeded.
func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	c := &cli{out: out}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.close())
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fetch",
		Short: "Query market data, news sentiment and bubble risk from the command line",
		Long: `fetch talks to the same providers as the dashboard server and prints JSON.

API keys come from config.yaml, the environment (ALPHA_VANTAGE_API_KEY,
NEWSDATA_API_KEY) or keys saved with "fetch keys set".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.yaml")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		c.quoteCmd(),
		c.historyCmd(),
		c.fundamentalsCmd(),
		c.newsCmd(),
		c.riskCmd(),
		c.keysCmd(),
		c.selfTestCmd(),
		c.refreshCmd(),
		c.snapshotsCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	log, closer, err := logger.New(logger.Config{
		Level:    c.logLevel,
		Format:   "pretty",
		FilePath: cfg.Log.FilePath,
		Service:  "bubbledash-fetch",
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.logClose = closer

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) close() error {
	var errs []error
	if c.app != nil {
		errs = append(errs, c.app.Close())
	}
	if c.logClose != nil {
		errs = append(errs, c.logClose.Close())
	}
	return errors.Join(errs...)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
