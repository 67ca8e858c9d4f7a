// Package view renders the recommendation page from selection state,
// notices and results.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/form"
	"github.com/mtlprog/internfinder/internal/selection"
)

// Locations offered in the location dropdown.
var Locations = []string{
	"Any", "Work From Home", "Bangalore", "Mumbai", "Delhi",
	"Pune", "Noida", "Hyderabad", "Chennai",
}

// StipendAmounts offered in the minimum stipend dropdown.
var StipendAmounts = []int{0, 5000, 10000, 15000, 20000, 25000}

// StipendOption is one entry of the stipend dropdown.
type StipendOption struct {
	Value int
	Label string
}

// Page is everything the template needs.
type Page struct {
	State     selection.State
	Fields    []string
	Locations []string
	Stipends  []StipendOption

	// Sticky form values.
	Location string
	Stipend  int

	Notices []domain.Notice
	Results []domain.Recommendation
	Apply   *apply.Plan
	Busy    bool
}

// Renderer executes the page template.
type Renderer struct {
	tmpl     *template.Template
	schema   *form.Schema
	fields   []string
	stipends []StipendOption
}

var funcs = template.FuncMap{
	"inc":       func(i int) int { return i + 1 },
	"lines":     nonEmptyLines,
	"ttlMillis": func(d time.Duration) int64 { return d.Milliseconds() },
}

// New parses src and resolves the form schema against an empty render of it.
// fields are the education dropdown entries.
func New(src string, fields []string) (*Renderer, error) {
	tmpl, err := template.New("index").Funcs(funcs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	r := &Renderer{
		tmpl:     tmpl,
		fields:   fields,
		stipends: stipendOptions(),
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, r.NewPage(selection.State{})); err != nil {
		return nil, err
	}
	r.schema, err = form.Resolve(&buf, form.DefaultFields())
	if err != nil {
		return nil, fmt.Errorf("resolve form schema: %w", err)
	}
	return r, nil
}

// Schema returns the resolved form schema.
func (r *Renderer) Schema() *form.Schema {
	return r.schema
}

// NewPage returns a page for state with the static dropdowns filled in.
func (r *Renderer) NewPage(state selection.State) Page {
	return Page{
		State:     state,
		Fields:    r.fields,
		Locations: Locations,
		Stipends:  r.stipends,
	}
}

// Render writes the page. Nothing is written when execution fails.
func (r *Renderer) Render(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func stipendOptions() []StipendOption {
	opts := make([]StipendOption, len(StipendAmounts))
	for i, amount := range StipendAmounts {
		label := "Any stipend"
		if amount > 0 {
			label = "At least " + domain.FormatStipend(amount)
		}
		opts[i] = StipendOption{Value: amount, Label: label}
	}
	return opts
}
