// Package dom models the page regions the renderer writes into.
//
// A Page holds one Element per identifier supplied by the host markup. Writes are
// collected in a Batch and applied atomically, so readers never observe a
// half-rendered page.
package dom

import (
	"html/template"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Element identifiers the host markup provides.
const (
	ProfilePhoto      = "profile-photo"
	ProfileName       = "profile-name"
	CVLink            = "cv-link"
	SidebarNav        = "sidebar-nav"
	AboutGreeting     = "about-greeting"
	AboutDescription  = "about-description"
	StatisticsTitle   = "statistics-title"
	StatsGrid         = "stats-grid"
	ProjectsTitle     = "projects-title"
	ProjectGrid       = "project-grid"
	TechnologiesTitle = "technologies-title"
	TechnologiesGrid  = "technologies-grid"
	TimelineTitle     = "timeline-title"
	Timeline          = "timeline"
	CommunityTitle    = "community-title"
	CommunityContent  = "community-content"
	ContactTitle      = "contact-title"
	ContactLinks      = "contact-links"
	LanguageSelector  = "language-selector"
)

// ErrNoElement is returned when a write targets an identifier the page does not have.
var ErrNoElement = errors.New("no such element")

// HostIDs returns every identifier the standard host markup provides.
func HostIDs() (ids []string) {
	ids = []string{
		ProfilePhoto, ProfileName, CVLink, SidebarNav,
		AboutGreeting, AboutDescription, StatisticsTitle, StatsGrid,
		ProjectsTitle, ProjectGrid,
		TechnologiesTitle, TechnologiesGrid,
		TimelineTitle, Timeline,
		CommunityTitle, CommunityContent,
		ContactTitle, ContactLinks,
		LanguageSelector,
	}
	return ids
}

// Element is a single addressable region.
type Element struct {
	ID    string
	Text  string
	HTML  template.HTML
	Attrs map[string]string
	Value string
}

// Attr returns the named attribute or "".
func (e Element) Attr(name string) (value string) {
	value = e.Attrs[name]
	return value
}

// Content returns the element body: markup when set, otherwise escaped text.
func (e Element) Content() (content template.HTML) {
	if e.HTML != "" {
		content = e.HTML
		return content
	}
	content = template.HTML(template.HTMLEscapeString(e.Text)) //nolint:gosec // escaped above
	return content
}

func (e Element) clone() (c Element) {
	c = e
	if e.Attrs != nil {
		c.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			c.Attrs[k] = v
		}
	}
	return c
}

// Page is a fixed set of elements. It is safe for concurrent use.
type Page struct {
	mu       sync.RWMutex
	elements map[string]Element
}

// NewPage creates a page with empty elements for ids.
func NewPage(ids ...string) (page *Page) {
	page = &Page{
		elements: make(map[string]Element, len(ids)),
	}
	for _, id := range ids {
		page.elements[id] = Element{ID: id}
	}
	return page
}

// NewHostPage creates a page with every standard host identifier.
func NewHostPage() (page *Page) {
	page = NewPage(HostIDs()...)
	return page
}

// Element returns a copy of the element with the given id.
func (p *Page) Element(id string) (el Element, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	el, ok = p.elements[id]
	if ok {
		el = el.clone()
	}
	return el, ok
}

// Snapshot returns a deep copy of every element keyed by id.
func (p *Page) Snapshot() (snap map[string]Element) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap = make(map[string]Element, len(p.elements))
	for id, el := range p.elements {
		snap[id] = el.clone()
	}
	return snap
}

// Apply commits every write in b, or none of them if any target is missing.
func (p *Page) Apply(b *Batch) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var missing []string
	for _, w := range b.writes {
		if _, ok := p.elements[w.id]; !ok {
			missing = append(missing, w.id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		err = errors.Wrapf(ErrNoElement, "missing elements: %s", strings.Join(dedupe(missing), ", "))
		return err
	}

	for _, w := range b.writes {
		el := p.elements[w.id].clone()
		w.apply(&el)
		p.elements[w.id] = el
	}

	return err
}

func dedupe(sorted []string) (out []string) {
	for i, s := range sorted {
		if i > 0 && sorted[i-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

type write struct {
	id    string
	apply func(el *Element)
}

// Batch collects element writes for Page.Apply.
type Batch struct {
	writes []write
}

// NewBatch creates an empty batch.
func NewBatch() (b *Batch) {
	b = &Batch{}
	return b
}

// Len returns the number of queued writes.
func (b *Batch) Len() (n int) {
	n = len(b.writes)
	return n
}

// SetText replaces the element body with plain text.
func (b *Batch) SetText(id, text string) {
	b.writes = append(b.writes, write{id: id, apply: func(el *Element) {
		el.Text = text
		el.HTML = ""
	}})
}

// SetHTML replaces the element body with markup.
func (b *Batch) SetHTML(id string, markup template.HTML) {
	b.writes = append(b.writes, write{id: id, apply: func(el *Element) {
		el.HTML = markup
		el.Text = ""
	}})
}

// SetAttr sets a single attribute.
func (b *Batch) SetAttr(id, name, value string) {
	b.writes = append(b.writes, write{id: id, apply: func(el *Element) {
		if el.Attrs == nil {
			el.Attrs = make(map[string]string)
		}
		el.Attrs[name] = value
	}})
}

// SetValue sets a form control value.
func (b *Batch) SetValue(id, value string) {
	b.writes = append(b.writes, write{id: id, apply: func(el *Element) {
		el.Value = value
	}})
}
