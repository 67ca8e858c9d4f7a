// Package form binds submitted form values to a FormInput through an explicit
// schema. The schema is checked against the page markup once, at startup.
package form

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mtlprog/internfinder/internal/domain"
)

// Field names used by the recommendation form.
const (
	FieldEducation = "education"
	FieldSkills    = "skills"
	FieldLocation  = "location_preference"
	FieldStipend   = "min_stipend"
)

// Field describes one named form control.
type Field struct {
	Name     string
	Required bool
}

// DefaultFields is the recommendation form layout.
func DefaultFields() []Field {
	return []Field{
		{Name: FieldEducation, Required: true},
		{Name: FieldLocation, Required: true},
		{Name: FieldStipend},
		{Name: FieldSkills, Required: true},
	}
}

// Schema is the set of form fields present in the page.
type Schema struct {
	present map[string]bool
}

// Resolve parses the page and checks every field. A missing required field
// fails with ErrMissingFormField; missing optional fields are bound as empty.
func Resolve(page io.Reader, fields []Field) (*Schema, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("parse form page: %w", err)
	}

	s := &Schema{present: make(map[string]bool, len(fields))}
	for _, f := range fields {
		found := doc.Find(fmt.Sprintf("[name=%q]", f.Name)).Length() > 0
		if !found && f.Required {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingFormField, f.Name)
		}
		s.present[f.Name] = found
	}
	return s, nil
}

// Has reports whether the page carries the field.
func (s *Schema) Has(name string) bool {
	return s.present[name]
}

// Bind builds the form input. selected is the session's skill selection and
// takes precedence over the hidden skills value; nil falls back to the value.
func (s *Schema) Bind(values url.Values, selected []string) domain.FormInput {
	in := domain.FormInput{
		Education:          s.value(values, FieldEducation),
		LocationPreference: s.value(values, FieldLocation),
		Stipend:            s.value(values, FieldStipend),
	}

	if selected != nil {
		in.Skills = selected
	} else {
		in.Skills = SplitSkills(s.value(values, FieldSkills))
	}
	return in
}

func (s *Schema) value(values url.Values, name string) string {
	if !s.present[name] {
		return ""
	}
	return strings.TrimSpace(values.Get(name))
}

// SplitSkills parses the hidden field's ", "-joined value.
func SplitSkills(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
