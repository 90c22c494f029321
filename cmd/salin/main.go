// Command salin translates Ata Manobo phrases to English.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/salin"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = salin.Version
	commit    = salin.GitCommit
	buildDate = salin.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	envFile    string
	verbose    bool
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stderr: stderr}

	root := &cobra.Command{
		Use:           salin.Name,
		Short:         salin.Description,
		Version:       salin.FullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(g.envFile)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default: ./.salin.yaml, then ~/.salin.yaml)")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file holding API keys")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newTranslateCmd(g),
		newServeCmd(g),
		newMCPCmd(g),
		newMemoryCmd(g),
		newJournalCmd(g),
		newVersionCmd(),
	)
	return root
}

// loadEnvFile loads KEY=value pairs without overriding the environment.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", salin.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", buildDate)
			}
			return nil
		},
	}
}
