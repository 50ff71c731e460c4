package gitlog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"calcforge/internal/changelog"

	"go.uber.org/zap"
)

// shortHashLen matches the abbreviated hash length used in changelog lines.
const shortHashLen = 7

// fieldSep separates log fields; it cannot appear in a commit subject line.
const fieldSep = "\x1f"

var logFormat = "--pretty=format:" + strings.Join([]string{"%H", "%s", "%an", "%ad"}, fieldSep)

// Repo is a git working tree used as a changelog.Source.
type Repo struct {
	dir    string
	runner Runner
	logger *zap.Logger
}

var _ changelog.Source = (*Repo)(nil)

// Open returns a Repo for dir. A nil runner uses ExecRunner.
func Open(dir string, runner Runner, logger *zap.Logger) *Repo {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{
		dir:    dir,
		runner: runner,
		logger: logger.Named("git").With(zap.String("repo", dir)),
	}
}

// Dir returns the working tree directory.
func (r *Repo) Dir() string {
	return r.dir
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	r.logger.Debug("git", zap.Strings("args", args))
	out, err := r.runner.Run(ctx, r.dir, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Tags lists tags, most recently created first.
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "tag", "--sort=-creatordate")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

// Commits lists commits in from..to (or everything reachable from to when
// from is empty), newest first. Revisions are followed by "--" so a tracked
// file named like a tag is never read as a path.
func (r *Repo) Commits(ctx context.Context, from, to string) ([]changelog.Commit, error) {
	if to == "" {
		to = "HEAD"
	}
	rev := to
	if from != "" {
		rev = from + ".." + to
	}

	out, err := r.git(ctx, "log", logFormat, "--date=short", rev, "--")
	if err != nil {
		if isUnbornHead(err) {
			r.logger.Debug("repository has no commits yet")
			return nil, nil
		}
		return nil, err
	}
	return parseLog(out), nil
}

// TagDate returns the commit date of tag as YYYY-MM-DD.
func (r *Repo) TagDate(ctx context.Context, tag string) (string, error) {
	out, err := r.git(ctx, "log", "-1", "--format=%ad", "--date=short", tag, "--")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GitDir returns the absolute path of the repository's .git directory.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %s: %w", r.dir, err)
	}
	return filepath.Clean(strings.TrimSpace(out)), nil
}

// isUnbornHead reports whether err comes from reading HEAD in a repository
// without commits.
func isUnbornHead(err error) bool {
	var cerr *CommandError
	if !errors.As(err, &cerr) {
		return false
	}
	return strings.Contains(cerr.Stderr, "does not have any commits yet") ||
		strings.Contains(cerr.Stderr, "ambiguous argument 'HEAD': unknown revision") ||
		strings.Contains(cerr.Stderr, "bad revision 'HEAD'")
}

func parseLog(out string) []changelog.Commit {
	var commits []changelog.Commit
	for _, line := range nonEmptyLines(out) {
		parts := strings.Split(line, fieldSep)
		if len(parts) < 4 {
			continue
		}
		hash := parts[0]
		if len(hash) > shortHashLen {
			hash = hash[:shortHashLen]
		}
		commits = append(commits, changelog.Commit{
			Hash:    hash,
			Subject: parts[1],
			Author:  parts[2],
			Date:    parts[3],
		})
	}
	return commits
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
