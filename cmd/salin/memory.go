package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/salin/cache"
)

func newMemoryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect and maintain the translation memory",
	}
	cmd.AddCommand(
		newMemoryStatsCmd(g),
		newMemoryExportCmd(g),
		newMemoryImportCmd(g),
		newMemoryAlignCmd(g),
		newMemoryLowercaseCmd(g),
	)
	return cmd
}

func newMemoryStatsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show translation memory statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openMemoryOnly()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\n", a.cfg.Memory.Backend)
			fmt.Fprintf(out, "Entries: %d\n", a.memory.Len())

			words := 0
			for _, key := range a.memory.Keys() {
				if !strings.Contains(key, " ") {
					words++
				}
			}
			fmt.Fprintf(out, "Words:   %d\n", words)
			fmt.Fprintf(out, "Phrases: %d\n", a.memory.Len()-words)
			return nil
		},
	}
}

func newMemoryExportCmd(g *globals) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the translation memory as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openMemoryOnly()
			if err != nil {
				return err
			}
			defer a.Close()

			metadata := map[string]string{
				"source":      a.cfg.Language.Source,
				"target":      a.cfg.Language.Target,
				"exported_at": time.Now().UTC().Format(time.RFC3339),
			}

			exp := cache.NewExporter(a.memory)
			switch {
			case output == "" || output == "-":
				return exp.Export(cmd.OutOrStdout(), metadata)
			default:
				if err := exp.ExportToFile(output, metadata); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", a.memory.Len(), output)
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; .yaml/.yml selects YAML (default: JSON on stdout)")
	return cmd
}

func newMemoryImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an exported JSON or YAML file into the translation memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openMemoryOnly()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := cache.NewImporter(a.memory).ImportFromFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported:  %d\n", res.Imported)
			fmt.Fprintf(out, "Unchanged: %d\n", res.Unchanged)
			fmt.Fprintf(out, "Failed:    %d\n", res.Failed)
			return nil
		},
	}
}

func newMemoryAlignCmd(g *globals) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "align <source-file> <target-file>",
		Short: "Build memory entries from line-aligned source and target files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := cache.AlignFiles(args[0], args[1])
			if err != nil {
				return err
			}

			a, err := g.openMemoryOnly()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if dryRun {
				stats := cache.Diff(a.memory.Snapshot(), pairs).Stats()
				fmt.Fprintf(out, "Would add %d, modify %d, keep %d (%d rejected)\n",
					stats.Added, stats.Modified, stats.Unchanged, stats.Rejected)
				return nil
			}

			diff, err := a.memory.Merge(pairs)
			if err != nil {
				return err
			}
			stats := diff.Stats()
			fmt.Fprintf(out, "Added %d, modified %d, kept %d (%d rejected)\n",
				stats.Added, stats.Modified, stats.Unchanged, stats.Rejected)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing")
	return cmd
}

func newMemoryLowercaseCmd(g *globals) *cobra.Command {
	var backup bool

	cmd := &cobra.Command{
		Use:   "lowercase",
		Short: "Lowercase every stored translation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openMemoryOnly()
			if err != nil {
				return err
			}
			defer a.Close()

			if backup {
				path, err := backupMemory(a)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			}

			n, err := a.memory.LowercaseValues()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lowercased %d translations\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&backup, "backup", true, "export the memory next to the file store before rewriting")
	return cmd
}

// backupMemory exports the memory beside the file store, or into the
// working directory for other backends.
func backupMemory(a *app) (string, error) {
	dir := "."
	if fs, ok := a.memory.Store().(*cache.FileStore); ok {
		dir = filepath.Dir(fs.Path())
	}
	path := filepath.Join(dir, fmt.Sprintf("translation_memory.backup-%s.json", time.Now().Format("20060102-150405")))
	if _, err := os.Stat(path); err == nil {
		return "", errors.New("backup already exists: " + path)
	}
	return path, cache.NewExporter(a.memory).ExportToFile(path, nil)
}
