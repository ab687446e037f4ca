// Package catalog holds the fixed set of analytical questions the dashboard can answer.
//
// A question is identified by its display text and maps to exactly one parameterless
// SQL statement. Catalogs are built once at startup and never mutated.
package catalog

import (
	"fmt"
	"strings"
)

// Kind identifies one of the catalogs.
type Kind string

const (
	KindExisting Kind = "existing"
	KindNew      Kind = "new"
)

// Kinds lists the catalogs in display order.
var Kinds = []Kind{KindExisting, KindNew}

// ParseKind accepts a catalog name case-insensitively.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindExisting:
		return KindExisting, true
	case KindNew:
		return KindNew, true
	}
	return "", false
}

// Question is a predefined report.
type Question struct {
	// ID is the display text shown in the selection widget.
	ID string
	// Statement is fully rendered SQL; no values are ever interpolated into it.
	Statement string
	// Columns are the names the statement selects, in order.
	Columns []string
}

// Catalog is an ordered, immutable question list.
type Catalog struct {
	kind      Kind
	title     string
	prompt    string
	questions []Question
	index     map[string]int
}

// New builds a catalog. Question IDs must be non-empty and unique.
func New(kind Kind, title, prompt string, questions []Question) (*Catalog, error) {
	c := &Catalog{
		kind:      kind,
		title:     title,
		prompt:    prompt,
		questions: make([]Question, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		if q.ID == "" || strings.TrimSpace(q.Statement) == "" {
			return nil, fmt.Errorf("catalog %s: question %d is empty", kind, i)
		}
		if _, dup := c.index[q.ID]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate question %q", kind, q.ID)
		}
		q.Columns = append([]string(nil), q.Columns...)
		c.questions[i] = q
		c.index[q.ID] = i
	}
	return c, nil
}

// Kind returns the catalog kind.
func (c *Catalog) Kind() Kind { return c.kind }

// Title returns the tab title.
func (c *Catalog) Title() string { return c.title }

// Prompt returns the label of the selection widget.
func (c *Catalog) Prompt() string { return c.prompt }

// Len returns the number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

// Resolve returns the statement for a question ID. An unknown ID yields ok == false,
// which callers treat as "no question selected".
func (c *Catalog) Resolve(id string) (statement string, ok bool) {
	q, ok := c.Question(id)
	if !ok {
		return "", false
	}
	return q.Statement, true
}

// Question returns the full question for an ID.
func (c *Catalog) Question(id string) (Question, bool) {
	if c == nil {
		return Question{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	q := c.questions[i]
	q.Columns = append([]string(nil), q.Columns...)
	return q, true
}

// Questions returns the question IDs in display order.
func (c *Catalog) Questions() []string {
	ids := make([]string, len(c.questions))
	for i, q := range c.questions {
		ids[i] = q.ID
	}
	return ids
}

// At returns the i-th question.
func (c *Catalog) At(i int) (Question, bool) {
	if i < 0 || i >= len(c.questions) {
		return Question{}, false
	}
	return c.Question(c.questions[i].ID)
}

// First returns the ID of the first question, the default selection.
func (c *Catalog) First() string {
	if len(c.questions) == 0 {
		return ""
	}
	return c.questions[0].ID
}

// Set groups the catalogs shown by the dashboard.
type Set struct {
	catalogs map[Kind]*Catalog
	order    []Kind
}

// NewSet combines catalogs. Kinds must be distinct and no question ID may appear in
// more than one catalog.
func NewSet(catalogs ...*Catalog) (*Set, error) {
	s := &Set{catalogs: make(map[Kind]*Catalog, len(catalogs))}
	seen := make(map[string]Kind)
	for _, c := range catalogs {
		if _, dup := s.catalogs[c.kind]; dup {
			return nil, fmt.Errorf("duplicate catalog %s", c.kind)
		}
		for _, q := range c.questions {
			if other, dup := seen[q.ID]; dup {
				return nil, fmt.Errorf("question %q appears in both %s and %s", q.ID, other, c.kind)
			}
			seen[q.ID] = c.kind
		}
		s.catalogs[c.kind] = c
		s.order = append(s.order, c.kind)
	}
	return s, nil
}

// Catalog returns the catalog of the given kind.
func (s *Set) Catalog(kind Kind) (*Catalog, bool) {
	c, ok := s.catalogs[kind]
	return c, ok
}

// All returns the catalogs in display order.
func (s *Set) All() []*Catalog {
	out := make([]*Catalog, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.catalogs[k])
	}
	return out
}

// Default returns the dashboard's two catalogs.
func Default() *Set {
	existing, err := New(KindExisting, "Existing Questions", "Questions are:", existingQuestions)
	if err != nil {
		panic(err)
	}
	newer, err := New(KindNew, "New Questions", "Select a Question", newQuestions)
	if err != nil {
		panic(err)
	}
	set, err := NewSet(existing, newer)
	if err != nil {
		panic(err)
	}
	return set
}
