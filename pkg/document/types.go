package document

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Document is the per-language portfolio payload that drives every page region.
type Document struct {
	Profile      Profile           `json:"profile"`
	Navigation   []NavItem         `json:"navigation"`
	About        About             `json:"about"`
	Statistics   []Statistic       `json:"statistics"`
	Projects     []Project         `json:"projects"`
	Technologies []Technology      `json:"technologies"`
	Timeline     []TimelineItem    `json:"timeline"`
	Community    Community         `json:"community"`
	Contact      Contact           `json:"contact"`
	Labels       map[string]string `json:"labels"`
}

// Profile represents the sidebar identity block.
type Profile struct {
	Name    string `json:"name"`
	Photo   string `json:"photo"`
	CVLink  string `json:"cvLink"`
	CVLabel string `json:"cvLabel"`
}

// NavItem is a single sidebar navigation link.
type NavItem struct {
	Href  string `json:"href"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// About holds the greeting and the free-form description.
type About struct {
	Greeting    string `json:"greeting"`
	Description string `json:"description"`
}

// Statistic is a headline number shown in the about section.
type Statistic struct {
	Value FlexString `json:"value"`
	Label string     `json:"label"`
}

// Project is a portfolio project card.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags,omitempty"`
}

// Technology is a technology card. Icon "svg" means SVG carries inline markup.
type Technology struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	SVG  string `json:"svg,omitempty"`
}

// TimelineItem is a career timeline entry. Position is the layout side (left/right).
type TimelineItem struct {
	Position    string `json:"position"`
	Period      string `json:"period"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Community describes a community the owner takes part in.
type Community struct {
	Title        string        `json:"title"`
	Logo         string        `json:"logo"`
	Name         string        `json:"name"`
	FullName     string        `json:"fullName"`
	Role         string        `json:"role"`
	Description  string        `json:"description"`
	Achievements []Achievement `json:"achievements"`
	CTALink      string        `json:"ctaLink"`
	CTAText      string        `json:"ctaText"`
}

// Achievement is a single community achievement card.
type Achievement struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Contact is the fixed set of contact channels.
type Contact struct {
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Medium   string `json:"medium"`
	DevTo    string `json:"devto"`
}

// Label returns the display string for a section key, or "" when absent.
func (d Document) Label(key string) (label string) {
	label = d.Labels[key]
	return label
}

// FlexString decodes either a JSON string or a JSON number into its text form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) (err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return err
	}

	if trimmed[0] == '"' {
		var s string
		err = json.Unmarshal(trimmed, &s)
		if err != nil {
			err = errors.Wrap(err, "failed to decode string value")
			return err
		}
		*f = FlexString(s)
		return err
	}

	var n json.Number
	err = json.Unmarshal(trimmed, &n)
	if err != nil {
		err = errors.Wrapf(err, "value must be a string or a number, got %s", string(trimmed))
		return err
	}
	*f = FlexString(n.String())

	return err
}

// String returns the text form.
func (f FlexString) String() (s string) {
	s = string(f)
	return s
}
