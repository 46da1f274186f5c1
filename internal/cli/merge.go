package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wordclip/pkg/wordplan"
)

var mergeOutPath string

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <plan>",
		Short: "Merge adjacent same-timed words in a plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runMerge,
	}

	cmd.Flags().StringVar(&mergeOutPath, "out", "", "Write the merged plan as JSON to this path")
	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	entries, err := wordplan.Load(args[0])
	if err != nil {
		return err
	}

	merged := wordplan.Merge(entries)

	if mergeOutPath != "" {
		data, err := json.MarshalIndent(merged, "", "  ")
		if err != nil {
			return fmt.Errorf("encode merged plan: %w", err)
		}
		if err := os.WriteFile(mergeOutPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write merged plan: %w", err)
		}
	}

	if outputJSON {
		payload := struct {
			Plan   string          `json:"plan"`
			Before int             `json:"before"`
			After  int             `json:"after"`
			Merged []wordplan.Word `json:"merged"`
		}{
			Plan:   args[0],
			Before: len(entries),
			After:  len(merged),
			Merged: merged,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode merge json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tWORD\tSTART\tEND")
	for i, entry := range merged {
		fmt.Fprintf(w, "%03d\t%s\t%.3f\t%.3f\n", i+1, entry.Word, entry.Start, entry.End)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "merged %d entr(ies) into %d\n", len(entries), len(merged))
	return nil
}
