package changelog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DateLayout is the date format used in release headings.
const DateLayout = "2006-01-02"

// Source supplies the version-control history a changelog is built from.
type Source interface {
	// Tags returns release tags, most recent first.
	Tags(ctx context.Context) ([]string, error)
	// Commits returns commits reachable from to but not from from, newest
	// first. An empty from means the whole history up to to.
	Commits(ctx context.Context, from, to string) ([]Commit, error)
	// TagDate returns the date (YYYY-MM-DD) of the commit a tag points at.
	TagDate(ctx context.Context, tag string) (string, error)
}

// Stats summarizes a saved changelog.
type Stats struct {
	Path     string
	Lines    int
	Releases int
	Commits  int
}

// Generator builds changelog documents from a Source.
type Generator struct {
	source      Source
	catalog     *Catalog
	logger      *zap.Logger
	now         func() time.Time
	concurrency int
	head        string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithCatalog sets the commit type catalog.
func WithCatalog(c *Catalog) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithLogger sets the generator's logger.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock overrides the clock used to date unreleased changes.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithConcurrency bounds how many ranges are read from the source at once.
func WithConcurrency(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithHead sets the ref treated as the tip of unreleased work (default HEAD).
func WithHead(ref string) GeneratorOption {
	return func(g *Generator) {
		if ref != "" {
			g.head = ref
		}
	}
}

// NewGenerator creates a generator reading from source.
func NewGenerator(source Source, opts ...GeneratorOption) *Generator {
	g := &Generator{
		source:      source,
		catalog:     DefaultCatalog(),
		logger:      zap.NewNop(),
		now:         time.Now,
		concurrency: 4,
		head:        "HEAD",
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.Named("changelog")
	return g
}

// Catalog returns the generator's type catalog.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

// Generate reads the history and assembles the document: an Unreleased
// release for commits after the newest tag (or all commits when there are
// no tags), then one release per tag, newest first. Releases without
// commits are omitted.
func (g *Generator) Generate(ctx context.Context) (*Document, error) {
	tags, err := g.source.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	today := g.now().Format(DateLayout)
	g.logger.Debug("generating changelog", zap.Int("tags", len(tags)))

	if len(tags) == 0 {
		commits, err := g.source.Commits(ctx, "", g.head)
		if err != nil {
			return nil, fmt.Errorf("read commits up to %s: %w", g.head, err)
		}
		doc := &Document{}
		if len(commits) > 0 {
			doc.Releases = append(doc.Releases, Release{Version: UnreleasedVersion, Date: today, Commits: commits})
		}
		return doc, nil
	}

	releases := make([]*Release, len(tags))
	var unreleased []Commit

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	eg.Go(func() error {
		commits, err := g.source.Commits(egCtx, tags[0], g.head)
		if err != nil {
			return fmt.Errorf("read commits %s..%s: %w", tags[0], g.head, err)
		}
		unreleased = commits
		return nil
	})

	for i, tag := range tags {
		from := ""
		if i+1 < len(tags) {
			from = tags[i+1]
		}
		eg.Go(func() error {
			commits, err := g.source.Commits(egCtx, from, tag)
			if err != nil {
				return fmt.Errorf("read commits %s..%s: %w", from, tag, err)
			}
			if len(commits) == 0 {
				g.logger.Debug("skipping empty release", zap.String("tag", tag))
				return nil
			}
			date, err := g.source.TagDate(egCtx, tag)
			if err != nil || date == "" {
				g.logger.Warn("could not resolve tag date, using today", zap.String("tag", tag), zap.Error(err))
				date = today
			}
			releases[i] = &Release{Version: tag, Date: date, Commits: commits}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	doc := &Document{}
	if len(unreleased) > 0 {
		doc.Releases = append(doc.Releases, Release{Version: UnreleasedVersion, Date: today, Commits: unreleased})
	}
	for _, r := range releases {
		if r != nil {
			doc.Releases = append(doc.Releases, *r)
		}
	}
	g.logger.Info("changelog generated",
		zap.Int("releases", len(doc.Releases)),
		zap.Int("commits", doc.CommitCount()))
	return doc, nil
}

// Render generates the document and renders it as Markdown.
func (g *Generator) Render(ctx context.Context) (string, *Document, error) {
	doc, err := g.Generate(ctx)
	if err != nil {
		return "", nil, err
	}
	return g.catalog.Render(doc), doc, nil
}

// Save renders the changelog and writes it to path, creating parent
// directories as needed.
func (g *Generator) Save(ctx context.Context, path string) (Stats, error) {
	md, doc, err := g.Render(ctx)
	if err != nil {
		return Stats{}, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Stats{}, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return Stats{}, fmt.Errorf("write changelog: %w", err)
	}
	return Stats{
		Path:     path,
		Lines:    strings.Count(md, "\n"),
		Releases: len(doc.Releases),
		Commits:  doc.CommitCount(),
	}, nil
}
