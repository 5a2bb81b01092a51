package renderer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/portfolio/pkg/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutCarriesEveryRegion(t *testing.T) {
	page := renderPage(t, sampleDocument())

	b := dom.NewBatch()
	b.SetValue(dom.LanguageSelector, "pt")
	require.NoError(t, page.Apply(b))

	layout, err := NewLayout("")
	require.NoError(t, err)

	view := NewView(page, []string{"en", "pt"})
	view.LanguageAction = "/language"

	out, err := layout.Bytes(view)
	require.NoError(t, err)
	html := string(out)

	for _, id := range dom.HostIDs() {
		assert.Contains(t, html, `id="`+id+`"`, "layout is missing %s", id)
	}

	assert.Contains(t, html, `<html lang="pt">`)
	assert.Contains(t, html, "<title>Ana Souza</title>")
	assert.Contains(t, html, `<option value="pt" selected>`)
	assert.Contains(t, html, `action="/language"`)
	assert.Contains(t, html, `<span class="tag">x</span>`)
	assert.Contains(t, html, `src="assets/photo.jpg"`)
	assert.Equal(t, 1, strings.Count(html, `id="language-selector"`))
}

func TestLayoutStaticSelector(t *testing.T) {
	page := renderPage(t, sampleDocument())

	layout, err := NewLayout("")
	require.NoError(t, err)

	out, err := layout.Bytes(NewView(page, []string{"en"}))
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<form")
	assert.Contains(t, string(out), "disabled")
}

func TestCustomLayout(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "layout.html")

	err := os.WriteFile(path, []byte(`<h1 id="profile-name">{{(.El "profile-name").Content}}</h1>`), 0600)
	require.NoError(t, err)

	layout, err := NewLayout(path)
	require.NoError(t, err)

	out, err := layout.Bytes(NewView(renderPage(t, sampleDocument()), nil))
	require.NoError(t, err)
	assert.Equal(t, `<h1 id="profile-name">Ana Souza</h1>`, string(out))
}

func TestCustomLayoutMissing(t *testing.T) {
	_, err := NewLayout("/nonexistent/layout.html")
	assert.Error(t, err)
}
