// Package site holds the language state controller: it resolves the active
// language, persists changes, and drives load-and-render cycles into a page.
package site

import (
	"context"
	"sync"
	"time"

	"github.com/nikogura/portfolio/pkg/document"
	"github.com/nikogura/portfolio/pkg/dom"
	"github.com/nikogura/portfolio/pkg/locale"
	"github.com/nikogura/portfolio/pkg/metrics"
	"github.com/nikogura/portfolio/pkg/preference"
	"github.com/nikogura/portfolio/pkg/renderer"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Fetcher loads the document for a language.
type Fetcher interface {
	Fetch(ctx context.Context, lang string) (document.Document, error)
}

// forgetter is implemented by fetchers that share in-flight requests.
type forgetter interface {
	Forget(lang string)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, lang string) (document.Document, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, lang string) (doc document.Document, err error) {
	doc, err = f(ctx, lang)
	return doc, err
}

// Status is the outcome of a load-and-render cycle.
type Status string

// Cycle outcomes.
const (
	StatusRendered   Status = metrics.OutcomeRendered
	StatusFailed     Status = metrics.OutcomeFailed
	StatusSuperseded Status = metrics.OutcomeSuperseded
)

// LoadResult describes one load-and-render cycle. Err is informational; the
// controller has already logged it.
type LoadResult struct {
	Generation uint64
	Language   string
	Status     Status
	Err        error
}

// Options configures a Controller.
type Options struct {
	DefaultLanguage string
	Preferences     preference.Store
	Fetcher         Fetcher
	Renderer        *renderer.Renderer
	Page            *dom.Page
	Logger          *zap.Logger
	Metrics         *metrics.Recorder
}

// Controller owns the active language and the page it is rendered into.
// Every cycle gets a generation number; only the latest generation may render,
// and starting a cycle cancels the one in flight.
type Controller struct {
	mu          sync.Mutex
	lang        string
	defaultLang string
	gen         uint64
	cancel      context.CancelFunc

	prefs    preference.Store
	fetcher  Fetcher
	renderer *renderer.Renderer
	page     *dom.Page
	log      *zap.Logger
	metrics  *metrics.Recorder
}

// New creates a Controller. The active language is empty until Initialize or SetLanguage.
func New(opts Options) (c *Controller, err error) {
	if opts.Preferences == nil {
		err = errors.New("preference store is required")
		return c, err
	}
	if opts.Fetcher == nil {
		err = errors.New("document fetcher is required")
		return c, err
	}
	if opts.Renderer == nil {
		err = errors.New("renderer is required")
		return c, err
	}

	page := opts.Page
	if page == nil {
		page = dom.NewHostPage()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	defaultLang := opts.DefaultLanguage
	if defaultLang == "" {
		defaultLang = locale.DefaultLanguage
	}

	c = &Controller{
		defaultLang: defaultLang,
		prefs:       opts.Preferences,
		fetcher:     opts.Fetcher,
		renderer:    opts.Renderer,
		page:        page,
		log:         log,
		metrics:     opts.Metrics,
	}
	return c, err
}

// Language returns the active language code.
func (c *Controller) Language() (lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lang = c.lang
	return lang
}

// Page returns the page the controller renders into.
func (c *Controller) Page() (page *dom.Page) {
	page = c.page
	return page
}

// Initialize resolves the persisted language, falling back to the default, and
// runs the first load-and-render cycle.
func (c *Controller) Initialize(ctx context.Context) (result LoadResult) {
	lang := c.defaultLang

	saved, found, err := c.prefs.Load(ctx)
	switch {
	case err != nil:
		c.log.Warn("failed to read language preference, using default",
			zap.String("default", lang), zap.Error(err))
	case found && saved != "":
		lang = saved
	}

	c.mu.Lock()
	c.lang = lang
	c.updateSelectorLocked(lang)
	c.mu.Unlock()

	c.log.Debug("initialized language", zap.String("language", lang), zap.Bool("persisted", found))

	result = c.LoadAndRender(ctx)
	return result
}

// SetLanguage makes code the active language, persists it, and reloads. The code
// is not validated; an unknown code fails at fetch time.
func (c *Controller) SetLanguage(ctx context.Context, code string) (result LoadResult) {
	c.mu.Lock()
	c.lang = code
	c.updateSelectorLocked(code)
	c.mu.Unlock()

	// outside the lock: Save may block on a remote store
	err := c.prefs.Save(ctx, code)
	if err != nil {
		c.log.Warn("failed to persist language preference", zap.String("language", code), zap.Error(err))
	}

	result = c.LoadAndRender(ctx)
	return result
}

// Reload re-reads the active language's document after it changed at the
// source. A fetch already in flight for it is not joined.
func (c *Controller) Reload(ctx context.Context) (result LoadResult) {
	if f, ok := c.fetcher.(forgetter); ok {
		f.Forget(c.Language())
	}

	result = c.LoadAndRender(ctx)
	return result
}

// LoadAndRender fetches the active language's document and renders it. Failures
// are logged and leave the page untouched.
func (c *Controller) LoadAndRender(ctx context.Context) (result LoadResult) {
	start := time.Now()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	lang := c.lang
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	result = LoadResult{
		Generation: gen,
		Language:   lang,
	}

	doc, err := c.fetcher.Fetch(loadCtx, lang)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		result.Status = StatusSuperseded
		result.Err = err
		c.log.Debug("discarding superseded load",
			zap.String("language", lang), zap.Uint64("generation", gen), zap.Uint64("latest", c.gen))
		c.metrics.ObserveLoad(lang, string(result.Status), time.Since(start))
		return result
	}
	c.cancel = nil

	if err == nil {
		err = c.renderer.Render(doc, c.page)
	}

	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		c.log.Error("failed to load page data",
			zap.String("language", lang), zap.Uint64("generation", gen),
			zap.Bool("load_failure", document.IsLoadFailure(err)), zap.Error(err))
		c.metrics.ObserveLoad(lang, string(result.Status), time.Since(start))
		return result
	}

	result.Status = StatusRendered
	c.log.Info("rendered page", zap.String("language", lang), zap.Uint64("generation", gen),
		zap.Duration("elapsed", time.Since(start)))
	c.metrics.ObserveLoad(lang, string(result.Status), time.Since(start))

	return result
}

// updateSelectorLocked mirrors lang into the language selector when the page has one.
func (c *Controller) updateSelectorLocked(lang string) {
	b := dom.NewBatch()
	b.SetValue(dom.LanguageSelector, lang)

	err := c.page.Apply(b)
	if err != nil {
		c.log.Debug("page has no language selector", zap.Error(err))
	}
}
