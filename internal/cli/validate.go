package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wordclip/pkg/wordplan"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan>",
		Short: "Validate a word timing plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	entries, err := wordplan.Load(args[0])

	var issues wordplan.ValidationErrors
	if err != nil && !errors.As(err, &issues) {
		return err
	}

	if outputJSON {
		return writeValidateJSON(cmd, args[0], entries, issues)
	}

	writeValidateTable(cmd, entries, issues)

	if len(issues) > 0 {
		return fmt.Errorf("plan validation failed with %d issue(s)", len(issues))
	}
	return nil
}

func writeValidateTable(cmd *cobra.Command, entries []wordplan.Word, issues wordplan.ValidationErrors) {
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tWORD\tSTART\tEND")
	for i, entry := range entries {
		fmt.Fprintf(w, "%03d\t%s\t%.3f\t%.3f\n", i+1, entry.Word, entry.Start, entry.End)
	}
	w.Flush()

	for _, issue := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %v\n", issue)
	}

	fmt.Fprintf(out, "%d entr(ies), %d issue(s)\n", len(entries), len(issues))
}

func writeValidateJSON(cmd *cobra.Command, plan string, entries []wordplan.Word, issues wordplan.ValidationErrors) error {
	payload := struct {
		Plan    string                     `json:"plan"`
		Entries []wordplan.Word            `json:"entries"`
		Issues  []wordplan.ValidationError `json:"issues,omitempty"`
	}{
		Plan:    plan,
		Entries: entries,
		Issues:  issues,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode validation json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	if len(issues) > 0 {
		return fmt.Errorf("plan validation failed with %d issue(s)", len(issues))
	}
	return nil
}
