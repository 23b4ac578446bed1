// Package templates renders the HTML e-mail bodies sent by the bookstore.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed email/*.html
var emailFS embed.FS

// Template names
const (
	EmailConfirmation = "email_confirmation.html"
	PromotionPoetry   = "promotion_poetry.html"
	PromotionFiction  = "promotion_fiction.html"
	Newsletter        = "newsletter.html"
)

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
}

// Renderer executes the embedded e-mail templates
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.New("email").Funcs(funcs).ParseFS(emailFS, "email/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew is New for program start-up
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template with data
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
