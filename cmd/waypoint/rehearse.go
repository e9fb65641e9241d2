package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/rehearsal"
	"github.com/aretw0/waypoint/pkg/schema"
)

var rehearseCmd = &cobra.Command{
	Use:   "rehearse <tour.yaml> <script.yaml>",
	Short: "Run a walkthrough headlessly against a scripted scene",
	Long: `Plays the scene timeline of a script on a virtual clock while the walkthrough runs
over it, then prints what was presented, undone and how the tour ended.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		flags := effects.NewFlags()
		def, err := schema.LoadFile(args[0])
		if err != nil {
			return err
		}
		tour, err := newCompiler(flags).Compile(def)
		if err != nil {
			return err
		}
		script, err := rehearsal.LoadScript(args[1])
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)
		opts := []rehearsal.Option{
			rehearsal.WithLogger(logger),
			rehearsal.WithTimings(cfg.Timing.Timings()),
			rehearsal.WithFlags(flags),
			rehearsal.WithLifecycleHooks(metrics.Hooks().Merge(observability.LogHooks(logger))),
		}

		if record, _ := cmd.Flags().GetBool("record"); record {
			store, closeStore, err := openStore(ctx, cfg.Store, middleware.NewMetricsMiddleware(reg))
			if err != nil {
				return err
			}
			defer closeStore()
			opts = append(opts, rehearsal.WithStore(store))
			if id, _ := cmd.Flags().GetString("session"); id != "" {
				opts = append(opts, rehearsal.WithSessionID(id))
			}
		}

		tr, err := rehearsal.Run(ctx, tour, script, opts...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, tui.ColorizeTranscript(tr.String()))

		if show, _ := cmd.Flags().GetBool("metrics"); show {
			fmt.Fprintln(out)
			return writeMetrics(out, reg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rehearseCmd)
	rehearseCmd.Flags().Bool("record", false, "Save the session progress to the configured store")
	rehearseCmd.Flags().String("session", "", "Session ID used with --record (default \""+rehearsal.DefaultSessionID+"\")")
	rehearseCmd.Flags().Bool("metrics", false, "Print the collected metrics after the transcript")
}

// writeMetrics renders every family gathered from reg in the text exposition format.
func writeMetrics(out io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}
