package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/shadowdrill/internal/sentence"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:     "find QUERY",
	Short:   "Fuzzy search the sentence list",
	Long:    paragraph(fmt.Sprintf("\nSearch the English and Japanese text of every sentence with %s matching.", keyword("fuzzy"))),
	Example: paragraph("shadowdrill find station\nshadowdrill find 駅 --limit 3"),
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sentences, err := sentence.Load(cmd.Context(), cfg.Sentences)
		if err != nil {
			return err //nolint:wrapcheck
		}
		matches := sentence.Find(sentences, strings.Join(args, " "))
		return printMatches(cmd.OutOrStdout(), matches, findLimit, outputWidth())
	},
}

func init() {
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 10, "maximum number of results (0 for all)")
}

func printMatches(w io.Writer, matches []sentence.Match, limit, width int) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "No matches.")
		return err //nolint:wrapcheck
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	for _, m := range matches {
		s := m.Sentence
		line := fmt.Sprintf("#%-4d [%d] %s  %s", s.No, s.Section, s.Japanese, faint(s.English))
		if _, err := fmt.Fprintln(w, truncate.StringWithTail(line, uint(width), "…")); err != nil { //nolint:gosec
			return err //nolint:wrapcheck
		}
	}
	return nil
}
