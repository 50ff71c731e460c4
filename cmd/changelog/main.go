// Command changelog generates CHANGELOG.md from conventional commits in a
// git repository.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"calcforge/internal/changelog"
	"calcforge/internal/config"
	"calcforge/internal/gitlog"
	"calcforge/internal/logging"
	"calcforge/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	outputPath string
	repoDir    string
	toStdout   bool
	preview    bool

	cfg    *config.Config
	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "changelog",
		Short: "Generate CHANGELOG.md from conventional commits",
		Long: `changelog reads the commit history of a git repository, groups
commits by conventional-commit type (feat, fix, docs, ...) and writes a
Markdown changelog with one section per release tag.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if outputPath != "" {
				cfg.Changelog.Output = outputPath
			}
			if repoDir != "" {
				cfg.Changelog.Repo = repoDir
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", configPath, err)
			}
			logger, err = logging.New(cfg.Logging, verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Sync(logger)
		},
		RunE: runGenerate,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Changelog file to write (default from config, CHANGELOG.md)")
	root.PersistentFlags().StringVarP(&repoDir, "repo", "r", "", "Git working tree to read (default from config, .)")
	root.Flags().BoolVar(&toStdout, "stdout", false, "Print the Markdown instead of writing the file")
	root.Flags().BoolVar(&preview, "preview", false, "Render the result in the terminal after writing")

	root.AddCommand(newWatchCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating changelog: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newGenerator() (*changelog.Generator, *gitlog.Repo, error) {
	catalog, err := cfg.Changelog.Catalog()
	if err != nil {
		return nil, nil, err
	}
	repo := gitlog.Open(cfg.Changelog.Repo, nil, logger)
	gen := changelog.NewGenerator(repo,
		changelog.WithCatalog(catalog),
		changelog.WithLogger(logger),
		changelog.WithConcurrency(cfg.Changelog.Concurrency),
		changelog.WithHead(cfg.Changelog.Head))
	return gen, repo, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gen, _, err := newGenerator()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if toStdout {
		md, _, err := gen.Render(cmd.Context())
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, md)
		return err
	}

	styles := ui.DefaultStyles()
	fmt.Fprintln(out, styles.Banner("CHANGELOG GENERATOR"))

	stats, err := gen.Save(cmd.Context(), cfg.Changelog.Output)
	if err != nil {
		return err
	}
	printStats(out, styles, stats)

	if preview {
		return printPreview(out, stats.Path)
	}
	return nil
}

func printStats(w io.Writer, styles ui.Styles, stats changelog.Stats) {
	fmt.Fprintln(w, styles.Success.Render("Changelog generated: "+stats.Path))
	fmt.Fprintf(w, "Lines: %d\n", stats.Lines)
	logger.Debug("changelog saved",
		zap.String("path", stats.Path),
		zap.Int("releases", stats.Releases),
		zap.Int("commits", stats.Commits))
}

func printPreview(w io.Writer, path string) error {
	md, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rendered, err := changelog.RenderTerminal(string(md), cfg.Changelog.PreviewWidth, cfg.Changelog.PreviewStyle)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}
