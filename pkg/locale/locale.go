// Package locale builds language selector options and canonical language tags.
package locale

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is used when nothing else selects a language.
const DefaultLanguage = "en"

// Option is a single entry of the language selector.
type Option struct {
	Code   string
	Label  string
	Active bool
}

// Options returns selector entries for codes, marking active. An active code that
// is not among codes is appended so the selector always reflects the current state.
func Options(codes []string, active string) (options []Option) {
	options = make([]Option, 0, len(codes)+1)
	seen := false
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		isActive := code == active
		if isActive {
			seen = true
		}
		options = append(options, Option{
			Code:   code,
			Label:  Label(code),
			Active: isActive,
		})
	}

	if !seen && active != "" {
		options = append(options, Option{
			Code:   active,
			Label:  Label(active),
			Active: true,
		})
	}

	return options
}

// Label returns the language's name in itself ("Português" for "pt"), or the
// code when it is not a recognizable tag.
func Label(code string) (label string) {
	tag, err := language.Parse(code)
	if err != nil {
		label = code
		return label
	}

	label = display.Self.Name(tag)
	if label == "" {
		label = code
	}
	return label
}

// HTMLLang returns a value for the html lang attribute.
func HTMLLang(code string) (lang string) {
	tag, err := language.Parse(code)
	if err != nil {
		lang = DefaultLanguage
		return lang
	}
	lang = tag.String()
	return lang
}
