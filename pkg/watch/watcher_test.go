package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikogura/portfolio/pkg/document"
	"github.com/nikogura/portfolio/pkg/dom"
	"github.com/nikogura/portfolio/pkg/preference"
	"github.com/nikogura/portfolio/pkg/renderer"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const debounce = 20 * time.Millisecond

func writeData(t *testing.T, dir, lang, name string) {
	t.Helper()

	content := `{"profile": {"name": "` + name + `"}}`
	err := os.WriteFile(filepath.Join(dir, document.TargetName(lang)), []byte(content), 0600)
	require.NoError(t, err)
}

func newController(t *testing.T, dir string) (c *site.Controller) {
	t.Helper()

	source, err := document.NewSource(dir)
	require.NoError(t, err)

	r, err := renderer.New()
	require.NoError(t, err)

	c, err = site.New(site.Options{
		DefaultLanguage: "en",
		Preferences:     preference.NewMemoryStore(""),
		Fetcher:         source,
		Renderer:        r,
		Page:            dom.NewHostPage(),
	})
	require.NoError(t, err)

	result := c.Initialize(context.Background())
	require.Equal(t, site.StatusRendered, result.Status)

	return c
}

func profileName(c *site.Controller) (name string) {
	el, _ := c.Page().Element(dom.ProfileName)
	name = el.Text
	return name
}

func TestWatcherReloadsActiveLanguage(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeData(t, dir, "en", "Before")
	c := newController(t, dir)

	w, err := NewWatcher(dir, c, debounce, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeData(t, dir, "en", "After")

	assert.Eventually(t, func() bool {
		return profileName(c) == "After"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeData(t, dir, "en", "Before")
	c := newController(t, dir)

	w, err := NewWatcher(dir, c, debounce, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeData(t, dir, "pt", "Outro")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	time.Sleep(10 * debounce)

	assert.Equal(t, int64(0), w.Reloads())
	assert.Equal(t, "Before", profileName(c))
}

func TestWatcherDebouncesBursts(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeData(t, dir, "en", "v0")
	c := newController(t, dir)

	w, err := NewWatcher(dir, c, 200*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 1; i <= 5; i++ {
		writeData(t, dir, "en", "v"+strings.Repeat("x", i))
	}

	assert.Eventually(t, func() bool {
		return profileName(c) == "vxxxxx"
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), w.Reloads())
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeData(t, dir, "en", "Before")
	c := newController(t, dir)

	w, err := NewWatcher(dir, c, debounce, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not exit")
	}

	w.Stop()
	w.Stop()
	assert.Error(t, w.Start(context.Background()))
}

func TestNewWatcherRequiresReloader(t *testing.T) {
	_, err := NewWatcher(t.TempDir(), nil, 0, nil)
	assert.Error(t, err)
}
