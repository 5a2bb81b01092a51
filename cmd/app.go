package cmd

import (
	"context"

	"github.com/nikogura/portfolio/pkg/config"
	"github.com/nikogura/portfolio/pkg/document"
	"github.com/nikogura/portfolio/pkg/dom"
	"github.com/nikogura/portfolio/pkg/logger"
	"github.com/nikogura/portfolio/pkg/metrics"
	"github.com/nikogura/portfolio/pkg/preference"
	"github.com/nikogura/portfolio/pkg/renderer"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// app is everything a command needs, wired from the config file.
type app struct {
	cfg        config.Config
	log        *zap.Logger
	source     *document.Source
	store      preference.Store
	metrics    *metrics.Recorder
	layout     *renderer.Layout
	controller *site.Controller
}

// newApp loads the config and wires the controller. A non-nil store replaces
// the configured preference backend.
func newApp(ctx context.Context, store preference.Store) (a *app, err error) {
	a = &app{}

	a.cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return a, err
	}

	a.log, err = logger.New(a.cfg.Environment, getVerbose())
	if err != nil {
		err = errors.Wrap(err, "failed to create logger")
		return a, err
	}

	a.source, err = document.NewSource(a.cfg.DataLocation)
	if err != nil {
		return a, err
	}

	a.store = store
	if a.store == nil {
		a.store, err = preference.Open(ctx, a.cfg.PreferenceOptions())
		if err != nil {
			return a, err
		}
	}

	// release the store if wiring fails past this point
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var r *renderer.Renderer
	r, err = renderer.New()
	if err != nil {
		return a, err
	}

	a.layout, err = renderer.NewLayout(a.cfg.LayoutPath)
	if err != nil {
		return a, err
	}

	a.metrics = metrics.NewRecorder(a.cfg.Languages...)

	a.controller, err = site.New(site.Options{
		DefaultLanguage: a.cfg.DefaultLanguage,
		Preferences:     a.store,
		Fetcher:         a.source,
		Renderer:        r,
		Page:            dom.NewHostPage(),
		Logger:          a.log,
		Metrics:         a.metrics,
	})
	if err != nil {
		return a, err
	}

	a.log.Debug("application wired",
		zap.String("data_location", a.cfg.DataLocation),
		zap.String("preference_backend", a.cfg.Preference.Backend))

	return a, err
}

// Close releases the preference store and flushes the logger.
func (a *app) Close() {
	if a.store != nil {
		err := a.store.Close()
		if err != nil && a.log != nil {
			a.log.Warn("failed to close preference store", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
