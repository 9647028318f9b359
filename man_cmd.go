package main

import (
	"fmt"
	"os"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generate the man page",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		page, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to build man page: %w", err)
		}
		page = page.WithSection("Copyright", "(C) 2024 the shadowdrill authors.\nReleased under MIT license.")
		_, err = fmt.Fprint(os.Stdout, page.Build(roff.NewDocument()))
		return err //nolint:wrapcheck
	},
}
