package renderer

import "html/template"

// Region markup. Each named template owns exactly one region.
const fragmentTemplates = `
{{define "nav"}}{{range .}}<a href="{{.Href}}"><i class="{{.Icon}}"></i> {{.Label}}</a>{{end}}{{end}}

{{define "stats"}}{{range .}}
<div class="stat-card">
    <span class="value">{{.Value}}</span>
    <p class="label">{{.Label}}</p>
</div>{{end}}{{end}}

{{define "projects"}}{{$view := .ViewLabel}}{{range .Projects}}
<div class="project-card">
    <h3>{{.Title}}</h3>
    <p>{{.Description}}</p>
    {{if .Tags}}<div class="project-tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>{{end}}
    <a href="{{.Link}}">{{$view}}</a>
</div>{{end}}{{end}}

{{define "technologies"}}{{range .}}
<div class="tech-card">
    {{if eq .Icon "svg"}}{{rawSVG .SVG}}{{else}}<i class="{{.Icon}}"></i>{{end}}
    <p>{{.Name}}</p>
</div>{{end}}{{end}}

{{define "timeline"}}{{range .}}
<div class="timeline-item {{.Position}}">
    <div class="timeline-content">
        <h4>{{.Period}}</h4>
        <h3>{{.Title}}</h3>
        <p>{{.Description}}</p>
    </div>
</div>{{end}}{{end}}

{{define "community"}}
<div class="community-card">
    <div class="community-header">
        <img src="{{.Logo}}" alt="{{.Name}} logo" class="community-logo">
        <div class="community-info">
            <h3>{{.Name}}</h3>
            <p class="community-fullname">{{.FullName}}</p>
            <span class="community-role">{{.Role}}</span>
        </div>
    </div>
    <p class="community-description">{{.Description}}</p>
    <div class="community-achievements">{{range .Achievements}}
        <div class="achievement-card">
            <i class="{{.Icon}}"></i>
            <h4>{{.Title}}</h4>
            <p>{{.Description}}</p>
        </div>{{end}}
    </div>
    <a href="{{.CTALink}}" target="_blank" rel="noopener" class="community-cta">
        <i class="fas fa-external-link-alt"></i> {{.CTAText}}
    </a>
</div>
{{end}}

{{define "contact"}}
<a href="mailto:{{.Email}}"><i class="fas fa-envelope"></i> Email</a>
<a href="{{.LinkedIn}}" target="_blank" rel="noopener"><i class="fab fa-linkedin"></i> LinkedIn</a>
<a href="{{.GitHub}}" target="_blank" rel="noopener"><i class="fab fa-github"></i> GitHub</a>
<a href="{{.Medium}}" target="_blank" rel="noopener"><i class="fab fa-medium"></i> Medium</a>
<a href="{{.DevTo}}" target="_blank" rel="noopener"><i class="fab fa-dev"></i> Dev.to</a>
{{end}}
`

func parseFragments() (tmpl *template.Template, err error) {
	funcs := template.FuncMap{
		// Technology svg markup is trusted document content and is emitted as-is.
		"rawSVG": func(markup string) (out template.HTML) {
			out = template.HTML(markup) //nolint:gosec // trusted document content
			return out
		},
	}

	tmpl, err = template.New("fragments").Funcs(funcs).Parse(fragmentTemplates)
	return tmpl, err
}
