// Package render turns user supplied Markdown into safe HTML.
package render

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions |
	blackfriday.Autolink |
	blackfriday.HardLineBreak |
	blackfriday.Strikethrough

// Renderer converts Markdown to sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy
}

// New creates a renderer using the user generated content policy.
func New() *Renderer {
	return &Renderer{policy: bluemonday.UGCPolicy()}
}

// Markdown renders text and strips anything the policy does not allow.
func (r *Renderer) Markdown(text string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.Smartypants | blackfriday.SmartypantsFractions,
	})
	unsafe := blackfriday.Run([]byte(text),
		blackfriday.WithExtensions(extensions),
		blackfriday.WithRenderer(renderer),
	)
	return string(r.policy.SanitizeBytes(unsafe))
}

// Plain strips every tag, for places such as feed titles.
func Plain(text string) string {
	return bluemonday.StrictPolicy().Sanitize(text)
}
