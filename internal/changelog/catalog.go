package changelog

import (
	"fmt"
	"strings"
)

// OtherKey is the type key assigned to commits that do not match a known type.
const OtherKey = "other"

// OtherTitle is the heading used for unmatched commits.
const OtherTitle = "Other Changes"

// Type is a conventional-commit type and the heading it is rendered under.
type Type struct {
	Key   string `yaml:"key" json:"key"`
	Title string `yaml:"title" json:"title"`
}

// DefaultTypes lists the recognized commit types in rendering order.
var DefaultTypes = []Type{
	{Key: "feat", Title: "Features"},
	{Key: "fix", Title: "Bug Fixes"},
	{Key: "docs", Title: "Documentation"},
	{Key: "style", Title: "Styles"},
	{Key: "refactor", Title: "Code Refactoring"},
	{Key: "perf", Title: "Performance"},
	{Key: "test", Title: "Tests"},
	{Key: "build", Title: "Build System"},
	{Key: "ci", Title: "CI/CD"},
	{Key: "chore", Title: "Chores"},
	{Key: "revert", Title: "Reverts"},
}

// Catalog is an ordered set of commit types used to classify and render
// commits.
type Catalog struct {
	types        []Type
	index        map[string]int
	includeOther bool
}

// NewCatalog builds a catalog from types. Keys are matched
// case-insensitively; duplicate or empty keys are rejected.
func NewCatalog(types []Type, includeOther bool) (*Catalog, error) {
	c := &Catalog{
		types:        make([]Type, 0, len(types)),
		index:        make(map[string]int, len(types)),
		includeOther: includeOther,
	}
	for _, t := range types {
		key := strings.ToLower(strings.TrimSpace(t.Key))
		if key == "" {
			return nil, fmt.Errorf("commit type with title %q has no key", t.Title)
		}
		if key == OtherKey {
			return nil, fmt.Errorf("commit type key %q is reserved", OtherKey)
		}
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("duplicate commit type %q", key)
		}
		title := t.Title
		if title == "" {
			title = key
		}
		c.index[key] = len(c.types)
		c.types = append(c.types, Type{Key: key, Title: title})
	}
	return c, nil
}

// DefaultCatalog returns a catalog of DefaultTypes that renders other changes.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultTypes, true)
	if err != nil {
		panic(err)
	}
	return c
}

// Types returns the catalog's types in rendering order.
func (c *Catalog) Types() []Type {
	return append([]Type(nil), c.types...)
}

// Known reports whether key is a cataloged type.
func (c *Catalog) Known(key string) bool {
	_, ok := c.index[strings.ToLower(key)]
	return ok
}

// Title returns the heading for key, or OtherTitle for unknown keys.
func (c *Catalog) Title(key string) string {
	if i, ok := c.index[strings.ToLower(key)]; ok {
		return c.types[i].Title
	}
	return OtherTitle
}
