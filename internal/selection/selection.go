// Package selection manages the skill selection state of one visitor.
//
// The Manager owns the selected skills and the visible tag set. Every
// mutation returns a Change describing the resulting state; rendering that
// state is left to the view layer.
package selection

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/mtlprog/internfinder/internal/catalog"
	"github.com/mtlprog/internfinder/internal/config"
	"github.com/mtlprog/internfinder/internal/domain"
)

// Catalog is the lookup the Manager needs from the skill catalog.
type Catalog interface {
	Skills(field string) ([]string, bool)
	DefaultTags() []string
}

// Tag is one visible skill tag.
type Tag struct {
	Label    string
	Slug     string
	Selected bool
}

// State is a snapshot of the selection, ready for rendering.
type State struct {
	Field       string
	Tags        []Tag
	Selected    []string
	HiddenValue string
}

// ChangeKind identifies the operation that produced a Change.
type ChangeKind string

const (
	ChangeEducation ChangeKind = "education"
	ChangeToggle    ChangeKind = "toggle"
	ChangeRemove    ChangeKind = "remove"
)

// Change describes the outcome of a mutation.
type Change struct {
	Kind   ChangeKind
	State  State
	Notice *domain.Notice
	// ClearError asks the view to drop a displayed validation error.
	ClearError bool
}

// Manager holds the selected skills for one form.
type Manager struct {
	catalog Catalog

	mu       sync.Mutex
	field    string
	tags     []string
	selected []string
}

// NewManager creates a Manager showing the catalog's default tags.
func NewManager(c Catalog) *Manager {
	return &Manager{
		catalog:  c,
		tags:     c.DefaultTags(),
		selected: []string{},
	}
}

// SetEducationField swaps the tag set for the field's skills and clears the
// selection. Unknown fields leave the state untouched and return false.
func (m *Manager) SetEducationField(field string) (Change, bool) {
	skills, ok := m.catalog.Skills(field)
	if !ok {
		return Change{}, false
	}

	m.mu.Lock()
	m.field = catalog.Normalize(field)
	m.tags = skills
	m.selected = []string{}
	state := m.snapshot()
	m.mu.Unlock()

	return Change{
		Kind:  ChangeEducation,
		State: state,
		Notice: &domain.Notice{
			Level:   domain.NoticeSuccess,
			Title:   fmt.Sprintf("Skills Updated for %s!", state.Field),
			Message: fmt.Sprintf("%d relevant skills loaded", len(skills)),
			TTL:     config.EducationNoticeTTL,
		},
	}, true
}

// Toggle adds label if absent and removes it if present. Labels that are
// empty or not among the visible tags are ignored.
func (m *Manager) Toggle(label string) Change {
	label = catalog.Normalize(label)

	m.mu.Lock()
	defer m.mu.Unlock()

	if label != "" && slices.Contains(m.tags, label) {
		if i := slices.Index(m.selected, label); i >= 0 {
			m.selected = slices.Delete(m.selected, i, i+1)
		} else {
			m.selected = append(m.selected, label)
		}
	}

	return Change{
		Kind:       ChangeToggle,
		State:      m.snapshot(),
		ClearError: len(m.selected) > 0,
	}
}

// Remove drops label from the selection if present.
func (m *Manager) Remove(label string) Change {
	label = catalog.Normalize(label)

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := slices.Index(m.selected, label); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
	}

	return Change{
		Kind:  ChangeRemove,
		State: m.snapshot(),
	}
}

// Selected returns the selected labels in selection order.
func (m *Manager) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.selected)
}

// Field returns the current education field, empty until one is chosen.
func (m *Manager) Field() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.field
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// snapshot must be called with mu held.
func (m *Manager) snapshot() State {
	tags := make([]Tag, len(m.tags))
	for i, label := range m.tags {
		tags[i] = Tag{
			Label:    label,
			Slug:     Slug(label),
			Selected: slices.Contains(m.selected, label),
		}
	}

	selected := slices.Clone(m.selected)
	return State{
		Field:       m.field,
		Tags:        tags,
		Selected:    selected,
		HiddenValue: strings.Join(selected, ", "),
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug is the tag identifier: lower case with whitespace runs as dashes.
func Slug(label string) string {
	return whitespace.ReplaceAllString(strings.ToLower(label), "-")
}
