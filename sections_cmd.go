package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/shadowdrill/internal/sentence"
	"github.com/dgnsrekt/shadowdrill/internal/settings"
)

var sectionsCmd = &cobra.Command{
	Use:     "sections",
	Short:   "List the sections of the sentence list",
	Long:    paragraph(fmt.Sprintf("\nList every section with its sentence count and whether the saved session %s it.", keyword("selects"))),
	Example: paragraph("shadowdrill sections\nshadowdrill sections -f lesson2.tsv"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		sentences, err := sentence.Load(ctx, cfg.Sentences)
		if err != nil {
			return err //nolint:wrapcheck
		}
		saved, err := loadSavedSettings(ctx)
		if err != nil {
			return err
		}
		return printSections(cmd.OutOrStdout(), sentences, saved)
	},
}

// loadSavedSettings opens the store just long enough to read the session.
func loadSavedSettings(ctx context.Context) (*settings.Settings, error) {
	db, store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close() //nolint:errcheck
	return store.Load(ctx) //nolint:wrapcheck
}

func printSections(w io.Writer, sentences []sentence.Sentence, saved *settings.Settings) error {
	stats := sentence.SectionStats(sentences)
	ids := sentence.Sections(sentences)

	selected := ids
	if saved != nil && len(saved.SelectedSections) > 0 {
		selected = saved.SelectedSections
	}

	rows := lo.Map(ids, func(id int, _ int) []string {
		mark := ""
		if lo.Contains(selected, id) {
			mark = "✓"
		}
		return []string{strconv.Itoa(id), strconv.Itoa(stats[id]), mark}
	})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("SECTION", "SENTENCES", "SELECTED").
		Rows(rows...)

	malformed := lo.CountBy(sentences, func(s sentence.Sentence) bool { return s.Malformed })
	footer := fmt.Sprintf("%d sentences in %d sections", len(sentences), len(ids))
	if malformed > 0 {
		footer += fmt.Sprintf(", %d malformed rows", malformed)
	}
	_, err := fmt.Fprintln(w, t.String()+"\n"+faint(footer))
	return err //nolint:wrapcheck
}
