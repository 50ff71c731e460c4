package gitlog

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"calcforge/internal/changelog"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type scriptedRunner struct {
	outputs map[string]string
	errs    map[string]error
	seen    [][]string
}

func (s *scriptedRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	s.seen = append(s.seen, args)
	key := strings.Join(args, " ")
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	return []byte(s.outputs[key]), nil
}

func TestTags(t *testing.T) {
	r := &scriptedRunner{outputs: map[string]string{
		"tag --sort=-creatordate": "v1.1.0\nv1.0.0\n\n",
	}}
	tags, err := Open(".", r, zaptest.NewLogger(t)).Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.1.0", "v1.0.0"}, tags)
}

func TestCommitsParsesLog(t *testing.T) {
	line := func(fields ...string) string { return strings.Join(fields, fieldSep) }
	out := line("0123456789abcdef", "feat: a | b", "Ada", "2024-01-02") + "\n" +
		line("fedcba9876543210", "fix: c", "Bob", "2024-01-01") + "\n" +
		"garbage line\n"

	r := &scriptedRunner{outputs: map[string]string{
		"log " + logFormat + " --date=short v1.0.0..HEAD --": out,
	}}
	commits, err := Open(".", r, nil).Commits(context.Background(), "v1.0.0", "HEAD")
	require.NoError(t, err)

	want := []changelog.Commit{
		{Hash: "0123456", Subject: "feat: a | b", Author: "Ada", Date: "2024-01-02"},
		{Hash: "fedcba9", Subject: "fix: c", Author: "Bob", Date: "2024-01-01"},
	}
	if diff := cmp.Diff(want, commits); diff != "" {
		t.Errorf("commits mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitsWithoutFrom(t *testing.T) {
	r := &scriptedRunner{}
	_, err := Open(".", r, nil).Commits(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, r.seen, 1)
	assert.Equal(t, []string{"log", logFormat, "--date=short", "HEAD", "--"}, r.seen[0])
}

func TestCommitsUnbornHead(t *testing.T) {
	key := "log " + logFormat + " --date=short HEAD --"
	r := &scriptedRunner{errs: map[string]error{
		key: &CommandError{
			Args:   []string{"log"},
			Stderr: "fatal: your current branch 'main' does not have any commits yet",
			Err:    errors.New("exit status 128"),
		},
	}}
	commits, err := Open(".", r, nil).Commits(context.Background(), "", "HEAD")
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestTagDate(t *testing.T) {
	r := &scriptedRunner{outputs: map[string]string{
		"log -1 --format=%ad --date=short v1.0.0 --": "2024-03-04\n",
	}}
	date, err := Open(".", r, nil).TagDate(context.Background(), "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", date)
}

func TestCommandError(t *testing.T) {
	base := errors.New("exit status 128")
	err := &CommandError{Args: []string{"tag"}, Stderr: "fatal: not a git repository", Err: base}
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "git tag: exit status 128: fatal: not a git repository", err.Error())
}

// =============================================================================
// REAL GIT
// =============================================================================

type gitFixture struct {
	t   *testing.T
	dir string
}

func newGitFixture(t *testing.T) *gitFixture {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	f := &gitFixture{t: t, dir: t.TempDir()}
	f.git("", "init", "-q")
	return f
}

func (f *gitFixture) git(date string, args ...string) {
	f.t.Helper()
	cmd := exec.Command("git", append([]string{"-c", "user.name=Test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false", "-c", "tag.gpgsign=false"}, args...)...)
	cmd.Dir = f.dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "HOME="+f.dir)
	if date != "" {
		cmd.Env = append(cmd.Env, "GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date)
	}
	out, err := cmd.CombinedOutput()
	require.NoError(f.t, err, string(out))
}

func (f *gitFixture) commit(subject, date string) {
	f.t.Helper()
	name := filepath.Join(f.dir, "file.txt")
	data, _ := os.ReadFile(name)
	require.NoError(f.t, os.WriteFile(name, append(data, subject+"\n"...), 0644))
	f.git(date, "add", "file.txt")
	f.git(date, "commit", "-q", "-m", subject)
}

func TestRepoAgainstGit(t *testing.T) {
	f := newGitFixture(t)
	ctx := context.Background()
	repo := Open(f.dir, nil, zaptest.NewLogger(t))

	commits, err := repo.Commits(ctx, "", "HEAD")
	require.NoError(t, err)
	assert.Empty(t, commits, "unborn HEAD has no commits")

	f.commit("feat: add login", "2024-01-01T10:00:00Z")
	f.git("2024-01-01T10:00:00Z", "tag", "v0.1.0")
	f.commit("fix: null pointer", "2024-02-01T10:00:00Z")
	f.commit("docs: update readme", "2024-02-02T10:00:00Z")

	tags, err := repo.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v0.1.0"}, tags)

	date, err := repo.TagDate(ctx, "v0.1.0")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", date)

	unreleased, err := repo.Commits(ctx, "v0.1.0", "HEAD")
	require.NoError(t, err)
	require.Len(t, unreleased, 2)
	assert.Equal(t, "docs: update readme", unreleased[0].Subject)
	assert.Equal(t, "fix: null pointer", unreleased[1].Subject)
	assert.Len(t, unreleased[0].Hash, shortHashLen)
	assert.Equal(t, "Test", unreleased[0].Author)

	gitDir, err := repo.GitDir(ctx)
	require.NoError(t, err)
	assert.Equal(t, ".git", filepath.Base(gitDir))

	doc, err := changelog.NewGenerator(repo).Generate(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Releases, 2)
	assert.Equal(t, changelog.UnreleasedVersion, doc.Releases[0].Version)
	assert.Equal(t, "v0.1.0", doc.Releases[1].Version)
}

func TestGitDirOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := Open(t.TempDir(), nil, nil).GitDir(context.Background())
	assert.ErrorContains(t, err, "not a git repository")
}

func TestRepoTagNamedLikeFile(t *testing.T) {
	f := newGitFixture(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "v1.0"), []byte("release notes\n"), 0644))
	f.git("2024-01-01T10:00:00Z", "add", "v1.0")
	f.commit("feat: ship it", "2024-01-01T10:00:00Z")
	f.git("2024-01-01T10:00:00Z", "tag", "v1.0")
	f.commit("fix: follow up", "2024-01-05T10:00:00Z")

	repo := Open(f.dir, nil, zaptest.NewLogger(t))

	date, err := repo.TagDate(ctx, "v1.0")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", date)

	doc, err := changelog.NewGenerator(repo).Generate(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Releases, 2)
	assert.Equal(t, changelog.UnreleasedVersion, doc.Releases[0].Version)
	assert.Equal(t, "fix: follow up", doc.Releases[0].Commits[0].Subject)
	assert.Equal(t, "v1.0", doc.Releases[1].Version)
	require.Len(t, doc.Releases[1].Commits, 1)
	assert.Equal(t, "feat: ship it", doc.Releases[1].Commits[0].Subject)
}
