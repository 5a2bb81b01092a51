package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nikogura/portfolio/pkg/document"
	"github.com/nikogura/portfolio/pkg/preference"
	"github.com/nikogura/portfolio/pkg/renderer"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var buildLang string

//nolint:gochecknoglobals // Cobra boilerplate
var buildOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the portfolio to a static index.html",
	Long: `Render the portfolio once and write <output-dir>/index.html.

Without --lang the remembered language (or the default) is used. With --lang
the given language is rendered and the remembered language is left alone.

Example:
  portfolio build
  portfolio build --lang pt --output-dir ./public/pt`,
	RunE: runBuild,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildLang, "lang", "", "Language to render (default: remembered language)")
	buildCmd.Flags().StringVar(&buildOutputDir, "output-dir", "", "Output directory (default from config)")
}

func runBuild(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*document.FetchTimeout)
	defer cancel()

	var store preference.Store
	if buildLang != "" {
		store = preference.NewMemoryStore(buildLang)
	}

	var a *app
	a, err = newApp(ctx, store)
	if err != nil {
		return err
	}
	defer a.Close()

	outDir := getOutputDir(buildOutputDir, a.cfg.Defaults.OutputDir)

	if getVerbose() {
		fmt.Printf("Loading data from: %s\n", a.cfg.DataLocation)
	}

	start := time.Now()
	result := a.controller.Initialize(ctx)
	if result.Status != site.StatusRendered {
		err = result.Err
		if err == nil {
			err = errors.Errorf("load %s", result.Status)
		}
		err = errors.Wrapf(err, "failed to render language %q", result.Language)
		return err
	}

	view := renderer.NewView(a.controller.Page(), a.cfg.Languages)
	view.Stylesheets = a.cfg.Stylesheets

	var content []byte
	content, err = a.layout.Bytes(view)
	if err != nil {
		return err
	}

	outputPath := filepath.Join(outDir, "index.html")
	err = renderer.WriteHTML(content, outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Rendered %s (%s) in %s\n", outputPath, result.Language, time.Since(start).Round(time.Millisecond))
	return err
}

// getOutputDir prefers the flag over the config value.
func getOutputDir(flagValue, configValue string) (outDir string) {
	outDir = flagValue
	if outDir == "" {
		outDir = configValue
	}
	return outDir
}
