package changelog

import (
	"fmt"
	"strings"
)

// UnreleasedVersion labels commits made after the most recent tag.
const UnreleasedVersion = "Unreleased"

var header = []string{
	"# Changelog",
	"",
	"All notable changes to this project will be documented in this file.",
	"",
	"The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.0.0/),",
	"and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).",
}

// Release is one versioned section of the changelog.
type Release struct {
	Version string
	Date    string
	Commits []Commit
}

// Document is an ordered list of releases, newest first.
type Document struct {
	Releases []Release
}

// CommitCount returns the number of commits across all releases.
func (d *Document) CommitCount() int {
	n := 0
	for _, r := range d.Releases {
		n += len(r.Commits)
	}
	return n
}

// RenderRelease renders a single release section. The result ends with a
// newline.
func (c *Catalog) RenderRelease(r Release) string {
	return strings.Join(c.releaseLines(r), "\n") + "\n"
}

// Render renders the complete changelog: the fixed header followed by each
// release separated by a blank line.
func (c *Catalog) Render(doc *Document) string {
	lines := append([]string(nil), header...)
	for _, r := range doc.Releases {
		lines = append(lines, "")
		lines = append(lines, c.releaseLines(r)...)
	}
	return strings.Join(lines, "\n") + "\n"
}

func (c *Catalog) releaseLines(r Release) []string {
	lines := []string{fmt.Sprintf("## [%s] - %s", r.Version, r.Date)}

	grouped := c.Group(r.Commits)
	section := func(title string, entries []Entry) {
		lines = append(lines, "", "### "+title, "")
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("- %s ([%s])", e.Message, e.Commit.Hash))
		}
	}

	for _, t := range c.types {
		if entries := grouped[t.Key]; len(entries) > 0 {
			section(t.Title, entries)
		}
	}
	if other := grouped[OtherKey]; c.includeOther && len(other) > 0 {
		section(OtherTitle, other)
	}
	return lines
}
