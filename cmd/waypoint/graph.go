package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/presentation/graph"
	"github.com/aretw0/waypoint/pkg/schema"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <tour.yaml>",
	Short: "Export a walkthrough as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the walkthrough steps and where each one
unwinds to. With --session the recorded progress of that session is highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := schema.LoadFile(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			ctx := cmd.Context()
			store, closeStore, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			p, err := store.Load(ctx, id)
			if err != nil {
				return fmt.Errorf("load session %s: %w", id, err)
			}
			if p.TourID != def.ID {
				return fmt.Errorf("session %s runs tour %q, not %q", id, p.TourID, def.ID)
			}
			overlay = graph.OverlayFrom(p)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(def, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the progress of a recorded session")
}
