package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/config"
	"github.com/ZaguanLabs/salin/journal"
)

func newJournalCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the resolution journal",
	}

	var recent int
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show resolution counts and latency per tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if cfg.Journal.Path == "" {
				return errors.New("journal.path is not configured")
			}

			j, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			stats, err := j.Stats(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIER\tCOUNT\tFAILURES\tPERSISTED\tAVG")
			for _, tier := range salin.Tiers {
				s := stats[tier]
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", tier, s.Count, s.Failures, s.Persisted, s.AvgElapsed)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if recent <= 0 {
				return nil
			}
			events, err := j.Recent(cmd.Context(), recent)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			for _, ev := range events {
				status := "ok"
				if ev.Err != "" {
					status = ev.Err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %-30q %s\n",
					ev.At.Format("2006-01-02 15:04:05"), ev.Tier, ev.Phrase, status)
			}
			return nil
		},
	}
	statsCmd.Flags().IntVarP(&recent, "recent", "n", 0, "also list the most recent resolutions")

	cmd.AddCommand(statsCmd)
	return cmd
}
