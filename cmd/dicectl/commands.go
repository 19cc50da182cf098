package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/dice-backend/internal/config"
	"github.com/rocketscienceinc/dice-backend/internal/logger"
	"github.com/rocketscienceinc/dice-backend/pkg/client"
)

type options struct {
	baseURL   string
	timeout   time.Duration
	rollDelay time.Duration
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dicectl",
		Short:         "Play the dice game against a dice server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults, err := config.LoadClient()
	if err != nil {
		// flags still need defaults so that --help works; any command fails with the env error
		defaults = &config.Client{
			BaseURL:   "http://localhost:3001/",
			Timeout:   client.DefaultTimeout,
			RollDelay: client.DefaultRollDelay,
			LogLevel:  "warn",
		}
		root.PersistentPreRunE = func(*cobra.Command, []string) error {
			return err
		}
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "url", defaults.BaseURL, "dice server base URL (env DICE_API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaults.Timeout, "request timeout (env DICE_TIMEOUT)")
	root.PersistentFlags().DurationVar(&opts.rollDelay, "roll-delay", defaults.RollDelay, "pause before showing a roll (env DICE_ROLL_DELAY)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "log level (env DICE_LOG_LEVEL)")

	root.AddCommand(
		newPlayCmd(opts),
		newRollCmd(opts),
		newResetCmd(opts),
		newStatsCmd(opts),
		newHistoryCmd(opts),
	)

	return root
}

func (that *options) table(errOut io.Writer) (*client.Table, error) {
	api, err := client.New(that.baseURL, that.timeout)
	if err != nil {
		return nil, err
	}

	return client.NewTable(logger.NewText(errOut, that.logLevel), api, that.rollDelay), nil
}

func newPlayCmd(opts *options) *cobra.Command {
	var rolls int

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a new game and roll the dice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rolls < 1 {
				return errors.New("--rolls must be at least 1")
			}

			table, err := opts.table(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err = table.Load(cmd.Context()); err != nil {
				return displayError(table)
			}

			out := cmd.OutOrStdout()
			for i := 0; i < rolls; i++ {
				if err = table.Roll(cmd.Context()); err != nil {
					return displayError(table)
				}
				renderRoll(out, table.View())
			}

			view := table.View()
			renderStats(out, view.Stats)

			return nil
		},
	}

	cmd.Flags().IntVarP(&rolls, "rolls", "n", 1, "number of rolls")

	return cmd
}

func newRollCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "roll",
		Short: "Roll the dice in the current game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := opts.table(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err = table.Roll(cmd.Context()); err != nil {
				return displayError(table)
			}

			renderRoll(cmd.OutOrStdout(), table.View())

			return nil
		},
	}
}

func newResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Start a new session with zeroed statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := opts.table(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err = table.Reset(cmd.Context()); err != nil {
				return displayError(table)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "New game %s\n", table.View().GameID)

			return nil
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show session statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := opts.table(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err = table.FetchStats(cmd.Context()); err != nil {
				return displayError(table)
			}

			renderStats(cmd.OutOrStdout(), table.View().Stats)

			return nil
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := opts.table(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err = table.FetchHistory(cmd.Context()); err != nil {
				return displayError(table)
			}

			renderHistory(cmd.OutOrStdout(), table.View().History)

			return nil
		},
	}
}

// displayError - the table keeps a user facing message, the detail is already logged.
func displayError(table *client.Table) error {
	return errors.New(table.View().Error)
}
