package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data for the full widget page
type Page struct {
	Title          string
	DebounceMillis int64
	FailureText    string
	EntryClass     string
	List           List
	Detail         *Detail
}

// NewPage creates the page model with an empty list and detail pane
func NewPage(title string, debounce time.Duration, failureText string) Page {
	return Page{
		Title:          title,
		DebounceMillis: debounce.Milliseconds(),
		FailureText:    failureText,
		EntryClass:     EntryClass,
	}
}

// HTML renders view models with html/template, escaping all record text
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses the embedded templates
func NewHTML() (*HTML, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

// Detail writes the detail pane fragment
func (h *HTML) Detail(w io.Writer, d Detail) error {
	return h.tmpl.ExecuteTemplate(w, "detail", d)
}

// List writes the list pane fragment
func (h *HTML) List(w io.Writer, l List) error {
	return h.tmpl.ExecuteTemplate(w, "list", l)
}

// Page writes the complete widget page
func (h *HTML) Page(w io.Writer, p Page) error {
	return h.tmpl.ExecuteTemplate(w, "page", p)
}

// DetailString renders the detail fragment to a string
func (h *HTML) DetailString(d Detail) (string, error) {
	var buf bytes.Buffer
	if err := h.Detail(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ListString renders the list fragment to a string
func (h *HTML) ListString(l List) (string, error) {
	var buf bytes.Buffer
	if err := h.List(&buf, l); err != nil {
		return "", err
	}
	return buf.String(), nil
}
