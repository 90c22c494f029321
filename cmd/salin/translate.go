package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/document"
)

// translationJSON is the --json output for one phrase.
type translationJSON struct {
	Phrase      string `json:"phrase"`
	Translation string `json:"translation,omitempty"`
	Tier        string `json:"tier,omitempty"`
	Persisted   bool   `json:"persisted"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	Error       string `json:"error,omitempty"`
}

func newTranslateCmd(g *globals) *cobra.Command {
	var (
		batchFile  string
		htmlFile   string
		jsonOutput bool
		forceOff   bool
		forceOn    bool
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "translate [phrase]",
		Short: "Translate an Ata Manobo phrase to English",
		Long: `Translate resolves a phrase through the translation memory,
word-by-word decomposition, and then either the remote service or the
offline engine depending on connectivity.

Multiple arguments are joined into one phrase. Use --batch to translate
one phrase per line from a file ("-" reads stdin).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if forceOff && forceOn {
				return errors.New("--offline and --online are mutually exclusive")
			}
			sources := 0
			for _, set := range []bool{len(args) > 0, batchFile != "", htmlFile != ""} {
				if set {
					sources++
				}
			}
			if sources != 1 {
				return errors.New("provide exactly one of: a phrase, --batch or --html")
			}

			route := routeProbe
			switch {
			case forceOff:
				route = routeOffline
			case forceOn:
				route = routeOnline
			}

			a, err := g.openApp(cmd.Context(), route)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			switch {
			case htmlFile != "":
				return translateHTML(cmd, a, htmlFile, workers)
			case batchFile != "":
				phrases, err := readPhrases(batchFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				items := a.resolver.ResolveBatch(cmd.Context(), phrases, workers)
				return writeBatch(out, cmd.ErrOrStderr(), items, jsonOutput)
			default:
				phrase := strings.Join(args, " ")
				result, err := a.resolver.Resolve(cmd.Context(), phrase)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(out, toJSON(salin.BatchItem{Phrase: phrase, Result: result}))
				}
				fmt.Fprintln(out, result.Translation)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&batchFile, "batch", "", "file with one phrase per line (\"-\" for stdin)")
	cmd.Flags().StringVar(&htmlFile, "html", "", "translate the text of an HTML file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	cmd.Flags().BoolVar(&forceOff, "offline", false, "skip the connectivity probe and use the offline engine")
	cmd.Flags().BoolVar(&forceOn, "online", false, "skip the connectivity probe and use the remote service")
	cmd.Flags().IntVarP(&workers, "workers", "w", salin.DefaultBatchWorkers, "concurrent resolutions for --batch and --html")
	return cmd
}

// readPhrases returns the non-blank lines of path, or of stdin for "-".
func readPhrases(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path) // #nosec G304 - user supplied input
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var phrases []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			phrases = append(phrases, line)
		}
	}
	return phrases, scanner.Err()
}

func writeBatch(stdout, stderr io.Writer, items []salin.BatchItem, jsonOutput bool) error {
	stats := salin.SummarizeBatch(items)

	if jsonOutput {
		out := make([]translationJSON, len(items))
		for i, item := range items {
			out[i] = toJSON(item)
		}
		if err := writeJSON(stdout, out); err != nil {
			return err
		}
	} else {
		for _, item := range items {
			if item.Err != nil {
				fmt.Fprintf(stderr, "%s: %v\n", item.Phrase, item.Err)
				continue
			}
			fmt.Fprintf(stdout, "%s\t%s\n", item.Phrase, item.Result.Translation)
		}
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d phrases failed", stats.Failed, len(items))
	}
	return nil
}

func translateHTML(cmd *cobra.Command, a *app, path string, workers int) error {
	content, err := os.ReadFile(path) // #nosec G304 - user supplied input
	if err != nil {
		return err
	}

	tr := document.NewHTMLTranslator(a.resolver, document.WithWorkers(workers))
	html, report, err := tr.Translate(cmd.Context(), string(content))
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), html)
	if len(report.Failed) > 0 {
		a.log.Warnf("%d of %d segments left untranslated", len(report.Failed), report.Segments)
	}
	return nil
}

func toJSON(item salin.BatchItem) translationJSON {
	out := translationJSON{Phrase: item.Phrase}
	if item.Err != nil {
		out.Error = item.Err.Error()
		return out
	}
	out.Translation = item.Result.Translation
	out.Tier = string(item.Result.Tier)
	out.Persisted = item.Result.Persisted
	out.ElapsedMs = item.Result.Elapsed.Milliseconds()
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
