package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"winwin/internal/i18n"
)

var errMissingKeys = errors.New("translations are incomplete")

func newMissingCmd(load func() (*i18n.Catalog, error)) *cobra.Command {
	var (
		lang   string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "missing",
		Short: "List default-language keys a dictionary does not translate",
		Long: `Lists, for every non-default language, the keys of the default
dictionary that have no translation. Such keys fall back to the default
language at render time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			languages := make([]i18n.Language, 0, len(i18n.Codes()))
			if lang != "" {
				code, ok := i18n.FromCode(lang)
				if !ok {
					return fmt.Errorf("unsupported language %q", lang)
				}
				languages = append(languages, code)
			} else {
				for _, code := range i18n.Codes() {
					if !code.IsDefault() {
						languages = append(languages, code)
					}
				}
			}

			catalog, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			total := 0
			for _, code := range languages {
				missing := catalog.MissingKeys(code)
				total += len(missing)
				fmt.Fprintf(out, "%s: %d of %d keys missing\n", code, len(missing), len(catalog.Keys()))
				for _, key := range missing {
					fmt.Fprintf(out, "  %s\n", key)
				}
			}
			if strict && total > 0 {
				return errMissingKeys
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "only check this language code")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any key is missing")
	return cmd
}
