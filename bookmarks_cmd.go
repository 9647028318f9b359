package main

import (
	"fmt"
	"io"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/shadowdrill/internal/sentence"
	"github.com/dgnsrekt/shadowdrill/internal/settings"
)

var clearBookmarks bool

var bookmarksCmd = &cobra.Command{
	Use:     "bookmarks",
	Short:   "List bookmarked sentences",
	Long:    paragraph(fmt.Sprintf("\nList the sentences bookmarked in the player, or %s them all.", keyword("clear"))),
	Example: paragraph("shadowdrill bookmarks\nshadowdrill bookmarks --clear"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck

		if clearBookmarks {
			if err := store.Save(ctx, settings.Update{Bookmarks: &[]int{}}); err != nil {
				return fmt.Errorf("unable to clear bookmarks: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared bookmarks.")
			return nil
		}

		saved, err := store.Load(ctx)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if saved == nil || len(saved.Bookmarks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks yet. Press b in the player to add one.")
			return nil
		}

		sentences, err := sentence.Load(ctx, cfg.Sentences)
		if err != nil {
			return err //nolint:wrapcheck
		}
		return printBookmarks(cmd.OutOrStdout(), sentences, saved.Bookmarks, outputWidth())
	},
}

func init() {
	bookmarksCmd.Flags().BoolVar(&clearBookmarks, "clear", false, "remove all bookmarks")
}

func printBookmarks(w io.Writer, sentences []sentence.Sentence, ids []int, width int) error {
	byNo := sentence.Lookup(sentences)
	for _, id := range ids {
		s, ok := byNo[id]
		if !ok {
			fmt.Fprintln(w, faint(fmt.Sprintf("  #%d (no longer in the list)", id)))
			continue
		}
		line := fmt.Sprintf("%s #%d [%d] %s  %s", star, s.No, s.Section, s.Japanese, faint(s.English))
		if _, err := fmt.Fprintln(w, truncate.StringWithTail(line, uint(width), "…")); err != nil { //nolint:gosec
			return err //nolint:wrapcheck
		}
	}
	return nil
}
