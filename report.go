package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/guessword/internal/daily"
	"github.com/robalobadob/guessword/internal/report"
)

func newReportCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print admin reports as JSON.",
		Args:  cobra.NoArgs,
	}

	var date string
	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Players, wins and games for one day (default today).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				cal, err := daily.LoadCalendar(cfg.timezone)
				if err != nil {
					return err
				}
				date = cal.Today()
			}
			key, err := daily.ParseKey(date)
			if err != nil {
				return err
			}
			return runReport(cmd, cfg, func(svc *report.Service) (any, error) {
				return svc.Daily(cmd.Context(), key)
			})
		},
	}
	dailyCmd.Flags().StringVar(&date, "date", "", "day to report on, YYYY-MM-DD")

	var userID int64
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "One player's games grouped by day.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return fmt.Errorf("--id must be a positive user id")
			}
			return runReport(cmd, cfg, func(svc *report.Service) (any, error) {
				return svc.User(cmd.Context(), userID)
			})
		},
	}
	userCmd.Flags().Int64Var(&userID, "id", 0, "user id to report on")

	playersCmd := &cobra.Command{
		Use:   "players",
		Short: "List non-admin accounts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, cfg, func(svc *report.Service) (any, error) {
				return svc.Players(cmd.Context())
			})
		},
	}

	cmd.AddCommand(dailyCmd, userCmd, playersCmd)
	return cmd
}

func runReport(cmd *cobra.Command, cfg *Config, fn func(*report.Service) (any, error)) error {
	st, _, _, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	out, err := fn(report.New(st))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
