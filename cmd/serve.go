package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/portfolio/pkg/config"
	"github.com/nikogura/portfolio/pkg/server"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/nikogura/portfolio/pkg/watch"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveWatch bool

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio over HTTP",
	Long: `Serve the rendered portfolio page. The language selector posts to /language,
which switches and remembers the language and re-renders the page.

With --watch, changes to the active language's data file in a local data
directory are picked up without a restart.

Example:
  portfolio serve
  portfolio serve --addr :9000 --watch`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Re-render when the active data file changes")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var a *app
	a, err = newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	if getVerbose() {
		fmt.Printf("Loading data from: %s\n", a.cfg.DataLocation)
		fmt.Printf("Listening on: %s\n", addr)
	}

	result := a.controller.Initialize(ctx)
	if result.Status == site.StatusFailed {
		fmt.Fprintf(os.Stderr, "Warning: initial load of %q failed: %v\n", result.Language, result.Err)
	}

	var srv *server.Server
	srv, err = server.New(server.Options{
		Controller:  a.controller,
		Layout:      a.layout,
		Languages:   a.cfg.Languages,
		Stylesheets: a.cfg.Stylesheets,
		AssetsDir:   a.cfg.AssetsDir,
		Metrics:     a.metrics,
		Logger:      a.log,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create server")
		return err
	}

	var w *watch.Watcher
	if serveWatch || a.cfg.Server.Watch {
		w, err = startWatcher(ctx, a)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if w != nil {
		g.Go(func() (err error) {
			<-gctx.Done()
			w.Stop()
			return err
		})
	}
	g.Go(func() (err error) {
		err = srv.Run(gctx, addr)
		return err
	})

	err = g.Wait()
	return err
}

// startWatcher watches the local data directory. It returns nil when the data
// location is remote.
func startWatcher(ctx context.Context, a *app) (w *watch.Watcher, err error) {
	dir, ok := a.source.LocalDir()
	if !ok || config.IsURL(a.cfg.DataLocation) {
		a.log.Warn("data location is not a local directory, not watching", zap.String("location", a.cfg.DataLocation))
		return w, err
	}

	w, err = watch.NewWatcher(dir, a.controller, 0, a.log)
	if err != nil {
		return w, err
	}

	err = w.Start(ctx)
	if err != nil {
		w.Stop()
		w = nil
		return w, err
	}

	return w, err
}
