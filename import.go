package main

import (
	"fmt"

	"github.com/camden-git/moviearchive/importer"
	"github.com/spf13/cobra"
)

type importFlags struct {
	format      string
	dryRun      bool
	stopOnError bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import movies from a JSON or YAML file",
		Long:  "Registers every movie in the file. Each movie is saved in its own transaction; movies that already exist are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, yaml, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().BoolVar(&flags.stopOnError, "stop-on-error", false, "Abort at the first failed movie")

	return cmd
}

func resolveFormat(path, format string) (importer.Format, error) {
	if format == "" || format == "auto" {
		return importer.FormatForFile(path)
	}
	return importer.ParseFormat(format)
}

func runImport(cmd *cobra.Command, path string, flags importFlags) error {
	ctx := cmd.Context()

	format, err := resolveFormat(path, flags.format)
	if err != nil {
		return err
	}

	return withApp(ctx, func(a *app) error {
		subs, err := importer.ParseFileAs(path, format)
		if err != nil {
			return err
		}

		fmt.Printf("Importing %d movies from %s...\n", len(subs), path)

		im := importer.New(a.catalog(), a.log.Named("import"))
		result, runErr := im.Run(ctx, subs, importer.Options{
			DryRun:      flags.dryRun,
			StopOnError: flags.stopOnError,
		})

		if len(result.Errors) > 0 {
			fmt.Printf("\nErrors (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  %s\n", e.Error())
			}
		}

		fmt.Println()
		if flags.dryRun {
			fmt.Printf("Dry run: %d movies valid", result.Created)
		} else {
			fmt.Printf("Created: %d movies", result.Created)
		}
		if result.Skipped > 0 {
			fmt.Printf(", %d skipped (already exist)", result.Skipped)
		}
		if result.Failed > 0 {
			fmt.Printf(", %d failed", result.Failed)
		}
		fmt.Println()

		return runErr
	})
}
