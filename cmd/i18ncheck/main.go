package main

import (
	"os"

	"winwin/cmd/i18ncheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
