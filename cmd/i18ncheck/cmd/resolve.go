package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"winwin/internal/locale"
)

func newResolveCmd() *cobra.Command {
	var path, cookie, acceptLanguage string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show what the locale resolver does with a request",
		Example: `  i18ncheck resolve --path /training --accept-language "fr-CA,fr;q=0.9"
  i18ncheck resolve --path /ar/support`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decision := locale.New(locale.DefaultConfig()).Resolve(path, cookie, acceptLanguage)
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(decision)
		},
	}
	cmd.Flags().StringVar(&path, "path", "/", "request path")
	cmd.Flags().StringVar(&cookie, "cookie", "", "preference cookie value")
	cmd.Flags().StringVar(&acceptLanguage, "accept-language", "", "Accept-Language header")
	return cmd
}
