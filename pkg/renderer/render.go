package renderer

import (
	"bytes"
	"html/template"

	"github.com/nikogura/portfolio/pkg/document"
	"github.com/nikogura/portfolio/pkg/dom"
	"github.com/pkg/errors"
)

// Renderer binds a Document into page regions. It holds no per-render state.
type Renderer struct {
	fragments *template.Template
}

// New creates a Renderer.
func New() (r *Renderer, err error) {
	var fragments *template.Template
	fragments, err = parseFragments()
	if err != nil {
		err = errors.Wrap(err, "failed to parse region templates")
		return r, err
	}

	r = &Renderer{
		fragments: fragments,
	}
	return r, err
}

// Render writes every region for doc into page as one atomic update.
func (r *Renderer) Render(doc document.Document, page *dom.Page) (err error) {
	b := dom.NewBatch()

	err = r.Fill(doc, b)
	if err != nil {
		return err
	}

	err = page.Apply(b)
	if err != nil {
		err = errors.Wrap(err, "failed to apply rendered regions")
		return err
	}

	return err
}

// Fill queues the writes of all seven regions into b.
func (r *Renderer) Fill(doc document.Document, b *dom.Batch) (err error) {
	steps := []struct {
		name string
		fn   func(document.Document, *dom.Batch) error
	}{
		{"sidebar", r.renderSidebar},
		{"about", r.renderAbout},
		{"projects", r.renderProjects},
		{"technologies", r.renderTechnologies},
		{"timeline", r.renderTimeline},
		{"community", r.renderCommunity},
		{"contact", r.renderContact},
	}

	for _, step := range steps {
		err = step.fn(doc, b)
		if err != nil {
			err = errors.Wrapf(err, "failed to render %s", step.name)
			return err
		}
	}

	return err
}

func (r *Renderer) renderSidebar(doc document.Document, b *dom.Batch) (err error) {
	profile := doc.Profile

	b.SetAttr(dom.ProfilePhoto, "src", profile.Photo)
	b.SetAttr(dom.ProfilePhoto, "alt", profile.Name+" profile photo")
	b.SetText(dom.ProfileName, profile.Name)
	b.SetAttr(dom.CVLink, "href", profile.CVLink)
	b.SetText(dom.CVLink, profile.CVLabel)

	var nav template.HTML
	nav, err = r.execute("nav", doc.Navigation)
	if err != nil {
		return err
	}
	b.SetHTML(dom.SidebarNav, nav)

	return err
}

func (r *Renderer) renderAbout(doc document.Document, b *dom.Batch) (err error) {
	b.SetText(dom.AboutGreeting, doc.About.Greeting)
	b.SetText(dom.AboutDescription, doc.About.Description)
	b.SetText(dom.StatisticsTitle, doc.Label("statistics"))

	var stats template.HTML
	stats, err = r.execute("stats", doc.Statistics)
	if err != nil {
		return err
	}
	b.SetHTML(dom.StatsGrid, stats)

	return err
}

func (r *Renderer) renderProjects(doc document.Document, b *dom.Batch) (err error) {
	b.SetText(dom.ProjectsTitle, doc.Label("projects"))

	data := struct {
		Projects  []document.Project
		ViewLabel string
	}{
		Projects:  doc.Projects,
		ViewLabel: doc.Label("viewProject"),
	}

	var projects template.HTML
	projects, err = r.execute("projects", data)
	if err != nil {
		return err
	}
	b.SetHTML(dom.ProjectGrid, projects)

	return err
}

func (r *Renderer) renderTechnologies(doc document.Document, b *dom.Batch) (err error) {
	b.SetText(dom.TechnologiesTitle, doc.Label("technologies"))

	var techs template.HTML
	techs, err = r.execute("technologies", doc.Technologies)
	if err != nil {
		return err
	}
	b.SetHTML(dom.TechnologiesGrid, techs)

	return err
}

func (r *Renderer) renderTimeline(doc document.Document, b *dom.Batch) (err error) {
	b.SetText(dom.TimelineTitle, doc.Label("timeline"))

	var items template.HTML
	items, err = r.execute("timeline", doc.Timeline)
	if err != nil {
		return err
	}
	b.SetHTML(dom.Timeline, items)

	return err
}

func (r *Renderer) renderCommunity(doc document.Document, b *dom.Batch) (err error) {
	b.SetText(dom.CommunityTitle, doc.Community.Title)

	var content template.HTML
	content, err = r.execute("community", doc.Community)
	if err != nil {
		return err
	}
	b.SetHTML(dom.CommunityContent, content)

	return err
}

// renderContact emits the fixed channel list; labels do not drive it.
func (r *Renderer) renderContact(doc document.Document, b *dom.Batch) (err error) {
	b.SetText(dom.ContactTitle, doc.Label("contact"))

	var links template.HTML
	links, err = r.execute("contact", doc.Contact)
	if err != nil {
		return err
	}
	b.SetHTML(dom.ContactLinks, links)

	return err
}

func (r *Renderer) execute(name string, data interface{}) (markup template.HTML, err error) {
	var buf bytes.Buffer
	err = r.fragments.ExecuteTemplate(&buf, name, data)
	if err != nil {
		err = errors.Wrapf(err, "failed to execute %s template", name)
		return markup, err
	}

	markup = template.HTML(buf.String()) //nolint:gosec // produced by html/template
	return markup, err
}
