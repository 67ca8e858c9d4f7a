// Package catalog holds the static lookup tables of the site: the education
// field to skills catalog and the company careers directory. Both are embedded
// at build time and never mutated.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mtlprog/internfinder/internal/static"
)

// Field is one education field with its ordered skill labels.
type Field struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// SkillCatalog maps education fields to skill labels, preserving file order.
type SkillCatalog struct {
	fields      []Field
	byName      map[string]int
	defaultTags []string
}

type skillsFile struct {
	DefaultTags []string `json:"default_tags"`
	Fields      []Field  `json:"fields"`
}

// ParseSkillCatalog decodes a catalog document. Labels are NFKC-normalised so
// that toggles compare equal regardless of how the browser encoded them.
func ParseSkillCatalog(data []byte) (*SkillCatalog, error) {
	var f skillsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse skill catalog: %w", err)
	}

	c := &SkillCatalog{
		byName:      make(map[string]int, len(f.Fields)),
		defaultTags: normalizeAll(f.DefaultTags),
	}
	for _, field := range f.Fields {
		name := Normalize(field.Name)
		if name == "" {
			return nil, fmt.Errorf("parse skill catalog: field with empty name")
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("parse skill catalog: duplicate field %q", name)
		}
		c.byName[name] = len(c.fields)
		c.fields = append(c.fields, Field{Name: name, Skills: normalizeAll(field.Skills)})
	}
	return c, nil
}

// Skills returns a copy of the labels for field.
func (c *SkillCatalog) Skills(field string) ([]string, bool) {
	i, ok := c.byName[Normalize(field)]
	if !ok {
		return nil, false
	}
	return clone(c.fields[i].Skills), true
}

// Fields returns the education field names in catalog order.
func (c *SkillCatalog) Fields() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name
	}
	return names
}

// All returns a copy of every field with its skills.
func (c *SkillCatalog) All() []Field {
	out := make([]Field, len(c.fields))
	for i, f := range c.fields {
		out[i] = Field{Name: f.Name, Skills: clone(f.Skills)}
	}
	return out
}

// DefaultTags returns the tags shown before an education field is chosen.
func (c *SkillCatalog) DefaultTags() []string {
	return clone(c.defaultTags)
}

// Normalize trims and NFKC-normalises a label.
func Normalize(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// DefaultSkillCatalog returns the catalog embedded in the binary.
func DefaultSkillCatalog() *SkillCatalog {
	c, err := ParseSkillCatalog(static.SkillsJSON)
	if err != nil {
		panic(err)
	}
	return c
}
