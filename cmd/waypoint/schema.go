package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of walkthrough definitions",
	Long:  `Prints the JSON Schema used to validate walkthrough YAML files, for editor integration.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateJSONSchema()
		if err != nil {
			return err
		}
		data = append(data, '\n')

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("write schema: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringP("output", "o", "", "Write the schema to a file instead of stdout")
}
