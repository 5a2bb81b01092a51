package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nikogura/portfolio/pkg/document"
	"github.com/nikogura/portfolio/pkg/locale"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var languageCmd = &cobra.Command{
	Use:   "language",
	Short: "Show or change the remembered language",
}

//nolint:gochecknoglobals // Cobra boilerplate
var languageGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the remembered language",
	Args:  cobra.NoArgs,
	RunE:  runLanguageGet,
}

//nolint:gochecknoglobals // Cobra boilerplate
var languageSetCmd = &cobra.Command{
	Use:   "set <code>",
	Short: "Switch to a language and remember it",
	Long: `Switch to a language, remember it for future runs, and render it once to
check the data file loads.

The code is not checked against a list. If data-<code>.json cannot be loaded
the language is still remembered and a warning is printed.

Example:
  portfolio language set pt`,
	Args: cobra.ExactArgs(1),
	RunE: runLanguageSet,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(languageCmd)
	languageCmd.AddCommand(languageGetCmd)
	languageCmd.AddCommand(languageSetCmd)
}

func runLanguageGet(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	var a *app
	a, err = newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	code, found, err := a.store.Load(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to read language preference")
		return err
	}

	if !found || code == "" {
		fmt.Printf("%s (default, not set)\n", a.cfg.DefaultLanguage)
		return err
	}

	if getVerbose() {
		fmt.Printf("%s (%s)\n", code, locale.Label(code))
		return err
	}

	fmt.Println(code)
	return err
}

func runLanguageSet(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*document.FetchTimeout)
	defer cancel()

	code := args[0]

	var a *app
	a, err = newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.controller.SetLanguage(ctx, code)
	if result.Status == site.StatusFailed {
		fmt.Fprintf(os.Stderr, "Warning: language set to %s, but its data could not be loaded: %v\n", code, result.Err)
		return err
	}

	fmt.Printf("Language set to %s (%s)\n", code, locale.Label(code))
	return err
}
