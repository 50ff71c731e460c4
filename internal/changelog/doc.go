// Package changelog turns conventional-commit history into a Markdown
// changelog.
//
// Commit subjects of the form "type(scope)!: description" are classified
// against a Catalog of known types (feat, fix, docs, ...). Each release
// section lists its commits under one heading per type, in catalog order,
// with unmatched subjects collected under "Other Changes":
//
//	## [v1.2.0] - 2024-05-01
//
//	### Features
//
//	- **api**: add login ([1a2b3c4])
//
// A Generator assembles releases from a Source (see package gitlog):
// one release per tag, newest first, plus an "Unreleased" section for
// commits after the most recent tag.
package changelog
