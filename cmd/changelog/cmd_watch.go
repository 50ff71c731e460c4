package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"calcforge/internal/ui"
	"calcforge/internal/watch"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the changelog whenever HEAD, branches or tags move",
		Long: `watch writes the changelog once, then rewrites it each time HEAD,
packed-refs or a ref under refs/heads or refs/tags changes. Namespaced
branches such as feature/x are followed, including namespaces created
while watching.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, repo, err := newGenerator()
			if err != nil {
				return err
			}
			debounce, err := cfg.Changelog.DebounceDuration()
			if err != nil {
				return err
			}
			gitDir, err := repo.GitDir(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			styles := ui.DefaultStyles()
			regenerate := func(ctx context.Context) error {
				stats, err := gen.Save(ctx, cfg.Changelog.Output)
				if err != nil {
					return err
				}
				printStats(out, styles, stats)
				return nil
			}

			fmt.Fprintln(out, styles.Banner("CHANGELOG GENERATOR - WATCH"))
			if err := regenerate(ctx); err != nil {
				return err
			}

			w := watch.New(watch.Config{
				Paths:    []string{gitDir},
				Trees:    refTrees(gitDir),
				Filter:   refEvent,
				Debounce: debounce,
			}, regenerate, logger)
			fmt.Fprintln(out, styles.Muted.Render("Watching "+gitDir+" (ctrl+c to stop)"))
			return w.Run(ctx)
		},
	}
}

func refTrees(gitDir string) []string {
	return []string{
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}
}

// refEvent accepts changes to HEAD, packed-refs and loose refs. Lock files
// written during ref updates are ignored; the rename that follows them is
// what counts.
func refEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.ToSlash(ev.Name)
	if strings.HasSuffix(name, ".lock") {
		return false
	}
	base := filepath.Base(ev.Name)
	return base == "HEAD" || base == "packed-refs" || strings.Contains(name, "/refs/")
}
