package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/schema"
)

var errInvalid = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate [file|dir...]",
	Short: "Check walkthrough definitions",
	Long: `Validates each definition against the schema, compiles its locators and resolves
its actions. Directories are checked file by file. Without arguments the catalog
directory is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{cfg.Catalog.Dir}
		}
		ok := true
		for _, path := range args {
			valid, err := validatePath(cmd.OutOrStdout(), path)
			if err != nil {
				return err
			}
			ok = ok && valid
		}
		if !ok {
			return errInvalid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validatePath(out io.Writer, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	comp := newCompiler(effects.NewFlags())

	if !info.IsDir() {
		def, err := schema.LoadFile(path)
		if err == nil {
			_, err = comp.Compile(def)
		}
		report(out, path, err)
		return err == nil, nil
	}

	cat := catalog.New(path, comp, catalog.WithLogger(logger))
	// The joined error repeats the per-file problems reported below.
	_ = cat.Load()
	for _, e := range cat.List() {
		report(out, e.Path, nil)
	}
	problems := cat.Problems()
	files := make([]string, 0, len(problems))
	for f := range problems {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		report(out, f, problems[f])
	}
	if len(cat.List()) == 0 && len(problems) == 0 {
		fmt.Fprintf(out, "no definitions in %s\n", path)
	}
	return len(problems) == 0, nil
}

func report(out io.Writer, path string, err error) {
	if err == nil {
		fmt.Fprintf(out, "%s %s\n", tui.Paint("ok", tui.ColorOK), path)
		return
	}
	fmt.Fprintf(out, "%s %s\n", tui.Paint("FAIL", tui.ColorFail), path)
	if list := schema.ValidationErrors(err); len(list) > 0 {
		for _, e := range list {
			fmt.Fprintf(out, "    - %v\n", e)
		}
		return
	}
	fmt.Fprintf(out, "    - %v\n", err)
}
