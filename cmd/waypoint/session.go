package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/pkg/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage recorded walkthrough sessions",
	Long:  `List, inspect, and remove session progress kept by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List recorded sessions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		ids, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SESSION\tTOUR\tSTEP\tSTATUS\tUPDATED")
		for _, id := range ids {
			p, err := store.Load(ctx, id)
			if err != nil {
				// Another process may remove it between List and Load.
				logger.Warn("skipping unreadable session", "session", id, "err", err)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\n",
				p.SessionID, p.TourID, p.StepIndex+1, p.StepCount, p.Status,
				p.UpdatedAt.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect [session-id]",
	Short: "Print the progress of a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		p, err := store.Load(ctx, args[0])
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return fmt.Errorf("session %q not found", args[0])
			}
			return err
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id...]",
	Short: "Remove recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) > 0) {
			return errors.New("pass session IDs or --all, not both")
		}

		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		ids := args
		if all {
			if ids, err = store.List(ctx); err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
		}

		var errs []error
		for _, id := range ids {
			if err := store.Delete(ctx, id); err != nil {
				errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionRmCmd.Flags().Bool("all", false, "Remove every recorded session")
}
