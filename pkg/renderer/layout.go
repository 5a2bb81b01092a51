package renderer

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"os"

	"github.com/nikogura/portfolio/pkg/dom"
	"github.com/nikogura/portfolio/pkg/locale"
	"github.com/pkg/errors"
)

//go:embed templates/layout.html.tmpl
var templatesFS embed.FS

const defaultLayoutName = "templates/layout.html.tmpl"

// View is the data bound into the host layout.
type View struct {
	Lang           string
	Title          string
	Stylesheets    []string
	Languages      []locale.Option
	LanguageAction string // form action for the language selector; empty renders it read-only
	Elements       map[string]dom.Element
}

// El returns the element with id, or an empty element.
func (v View) El(id string) (el dom.Element) {
	el = v.Elements[id]
	return el
}

// NewView builds a View from a page snapshot. The active language is read from
// the language selector element.
func NewView(page *dom.Page, languages []string) (view View) {
	elements := page.Snapshot()
	active := elements[dom.LanguageSelector].Value

	view = View{
		Lang:      locale.HTMLLang(active),
		Title:     elements[dom.ProfileName].Text,
		Languages: locale.Options(languages, active),
		Elements:  elements,
	}
	return view
}

// Layout is the host markup carrying every region identifier.
type Layout struct {
	tmpl *template.Template
}

// NewLayout parses the host layout at path, or the built-in layout when path is empty.
func NewLayout(path string) (layout *Layout, err error) {
	var src []byte
	if path == "" {
		src, err = templatesFS.ReadFile(defaultLayoutName)
		if err != nil {
			err = errors.Wrap(err, "failed to read built-in layout")
			return layout, err
		}
	} else {
		err = validateFiles(path)
		if err != nil {
			return layout, err
		}
		src, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read layout: %s", path)
			return layout, err
		}
	}

	var tmpl *template.Template
	tmpl, err = template.New("layout").Parse(string(src))
	if err != nil {
		err = errors.Wrap(err, "failed to parse layout")
		return layout, err
	}

	layout = &Layout{tmpl: tmpl}
	return layout, err
}

// Execute writes the full page for view to w.
func (l *Layout) Execute(w io.Writer, view View) (err error) {
	err = l.tmpl.Execute(w, view)
	if err != nil {
		err = errors.Wrap(err, "failed to execute layout")
		return err
	}
	return err
}

// Bytes renders view into memory, so a failed render never produces a partial page.
func (l *Layout) Bytes(view View) (content []byte, err error) {
	var buf bytes.Buffer
	err = l.Execute(&buf, view)
	if err != nil {
		return content, err
	}
	content = buf.Bytes()
	return content, err
}
