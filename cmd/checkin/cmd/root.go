package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"luogu-auto-checkin/config"
	core "luogu-auto-checkin/internal/checkin"
	"luogu-auto-checkin/internal/logs"
)

func newRootCmd() *cobra.Command {
	var accountsFile string

	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:           "checkin",
		Short:         "Run one check-in sweep and print the JSON report",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unexpected arguments %q", errUsage, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(accountsFile) != "" {
				raw, err := os.ReadFile(accountsFile)
				if err != nil {
					return fmt.Errorf("read accounts file: %w", err)
				}
				v.Set("checkin.accounts", string(raw))
			}

			cfg, err := config.NewConfig(v)
			if err != nil {
				return err
			}

			logger, err := logs.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			sugar := logs.NewSugaredLogger(logger)

			dispatcher := core.NewDispatcher(&http.Client{}, core.DispatcherConfig{
				Endpoint:  cfg.Checkin.Endpoint,
				UserAgent: cfg.Checkin.UserAgent,
				Logger:    sugar,
			})
			report := core.NewRunner(dispatcher, sugar).Run(cmd.Context(), cfg.Checkin.Accounts)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			if !report.OK {
				return fmt.Errorf("%w: %s", errSweepAborted, report.Error)
			}
			return nil
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	flags := rootCmd.Flags()
	flags.StringVar(&accountsFile, "accounts-file", "", "Read the accounts JSON from this file instead of CHECKIN_ACCOUNTS")
	flags.String("endpoint", config.DefaultCheckinEndpoint, "Check-in endpoint URL (env CHECKIN_ENDPOINT)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error (env LOG_LEVEL)")

	if err := v.BindPFlag("checkin.endpoint", flags.Lookup("endpoint")); err != nil {
		// pflag lookup of a flag declared just above; failure is a programmer error.
		panic(fmt.Errorf("bind flag endpoint: %w", err))
	}
	if err := v.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		panic(fmt.Errorf("bind flag log-level: %w", err))
	}

	return rootCmd
}
