// Package cmd implements the i18ncheck commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"winwin/internal/i18n"
)

// NewRootCmd builds the command tree. Output goes to the command's writers
// so tests can capture it.
func NewRootCmd() *cobra.Command {
	var localesDir string

	root := &cobra.Command{
		Use:   "i18ncheck",
		Short: "Inspect the translation catalog and the locale resolver",
		Long: `i18ncheck reports translation keys missing from the non-default
dictionaries and shows which language a request would be served in.

By default the dictionaries compiled into the server are checked. Use
--dir to check a directory holding locales/<code>.yaml instead.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&localesDir, "dir", "", "directory containing locales/<code>.yaml")

	load := func() (*i18n.Catalog, error) {
		if localesDir == "" {
			return i18n.LoadEmbedded()
		}
		catalog, err := i18n.LoadFromFS(os.DirFS(localesDir))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", localesDir, err)
		}
		return catalog, nil
	}

	root.AddCommand(newMissingCmd(load))
	root.AddCommand(newResolveCmd())
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
