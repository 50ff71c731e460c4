package changelog

import (
	"regexp"
	"strings"
)

// Commit is a single commit as read from version control.
type Commit struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// Entry is a commit classified by conventional-commit type.
type Entry struct {
	Type        string
	Scope       string
	Description string
	Breaking    bool
	// Message is the text rendered in the changelog line.
	Message string
	Commit  Commit
}

var conventional = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!)?: (.+)$`)

// Parse classifies a commit subject. Subjects with a known type yield the
// bare description (prefixed with the bold scope and a breaking marker
// when present); anything else is typed OtherKey and keeps the subject
// verbatim.
func (c *Catalog) Parse(subject string) Entry {
	m := conventional.FindStringSubmatch(subject)
	if m == nil {
		return Entry{Type: OtherKey, Description: subject, Message: subject}
	}

	typ := strings.ToLower(m[1])
	if !c.Known(typ) {
		return Entry{Type: OtherKey, Description: subject, Message: subject}
	}

	e := Entry{
		Type:        typ,
		Scope:       m[2],
		Description: m[4],
		Breaking:    m[3] == "!",
	}

	var b strings.Builder
	if e.Breaking {
		b.WriteString("**BREAKING:** ")
	}
	if e.Scope != "" {
		b.WriteString("**")
		b.WriteString(e.Scope)
		b.WriteString("**: ")
	}
	b.WriteString(e.Description)
	e.Message = b.String()
	return e
}

// Classify parses every commit, attaching the commit to its entry.
func (c *Catalog) Classify(commits []Commit) []Entry {
	out := make([]Entry, 0, len(commits))
	for _, cm := range commits {
		e := c.Parse(cm.Subject)
		e.Commit = cm
		out = append(out, e)
	}
	return out
}

// Group classifies commits and buckets them by type key. Input order is
// preserved within each bucket.
func (c *Catalog) Group(commits []Commit) map[string][]Entry {
	grouped := make(map[string][]Entry)
	for _, e := range c.Classify(commits) {
		grouped[e.Type] = append(grouped[e.Type], e)
	}
	return grouped
}
