package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the grammar rules in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRIORITY\tID\tINTENT\tPATTERN")
		for _, r := range engine.Rules() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Priority, r.ID, r.Intent, r.Pattern)
		}
		return w.Flush()
	},
}

var idiomsCmd = &cobra.Command{
	Use:   "idioms",
	Short: "List the idioms and the fingerprints that select them",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tID\tFINGERPRINTS")
		table := engine.Idioms()
		for _, i := range table.Idioms() {
			fmt.Fprintf(w, "function\t%s\t%s\n", i.ID, fingerprints(i.Fingerprints))
		}
		for _, c := range table.Classes() {
			fmt.Fprintf(w, "class\t%s\t%s\n", c.ID, fingerprints(c.Fingerprints))
		}
		return w.Flush()
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [instruction words...]",
	Short: "Show how an instruction is tokenized",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine()
		if err != nil {
			return err
		}

		tokens, err := engine.Tokenize(strings.Join(args, " "))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TEXT\tCATEGORY\tLEMMA\tTAG\tDEP\tKEYWORD")
		for _, t := range tokens {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", t.Text, t.Category, t.Lemma, t.Tag, t.Dependency, t.IsKeyword)
		}
		return w.Flush()
	},
}

func fingerprints(fps [][]string) string {
	parts := make([]string, len(fps))
	for i, fp := range fps {
		parts[i] = "{" + strings.Join(fp, ", ") + "}"
	}
	return strings.Join(parts, " ")
}
