package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verdigris/sweep/pkg/config"
	"github.com/verdigris/sweep/pkg/logger"
	"github.com/verdigris/sweep/pkg/searcher"
	"github.com/verdigris/sweep/pkg/telemetry"
)

type app struct {
	cfg      *config.Config
	log      *logger.Logger
	recorder *telemetry.Recorder
	engine   *searcher.Engine
}

type rootFlags struct {
	configPath string
	workers    int
	logLevel   string
	stats      bool
}

type filterFlags struct {
	hidden      bool
	noIgnore    bool
	noGitignore bool
	maxDepth    int
	include     []string
	exclude     []string
	ignoreCase  bool
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:           "sweep",
		Short:         "Fast concurrent search over a directory tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(rf)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown(rf.stats)
		},
	}

	root.PersistentFlags().StringVar(&rf.configPath, "config", config.DefaultPath(), "config file path")
	root.PersistentFlags().IntVar(&rf.workers, "workers", 0, "traversal workers (0 = logical CPUs)")
	root.PersistentFlags().StringVar(&rf.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&rf.stats, "stats", false, "print telemetry summary after the search")

	root.AddCommand(newContentCmd(a))
	root.AddCommand(newFilesCmd(a))
	return root
}

func (a *app) setup(rf *rootFlags) error {
	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return err
	}
	if rf.workers > 0 {
		cfg.Workers = rf.workers
	}
	if rf.logLevel != "" {
		cfg.Log.Level = rf.logLevel
	}

	log, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.recorder = telemetry.NewRecorder(cfg.TelemetryBuffer)
	a.engine = searcher.NewEngine(log, a.recorder)
	return nil
}

func (a *app) teardown(printStats bool) {
	if a.recorder != nil {
		a.recorder.Close()
		if printStats {
			for _, s := range a.recorder.Summary() {
				fmt.Fprintf(os.Stderr, "%s: %d calls, %d results, %v total\n",
					s.Kind, s.Count, s.TotalResults, s.TotalDuration.Round(time.Microsecond))
			}
		}
	}
	if a.log != nil {
		_ = a.log.Close()
	}
}

func newContentCmd(a *app) *cobra.Command {
	ff := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "content <pattern> [root]",
		Short: "Search file contents for a regex pattern",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			root := "."
			if len(args) == 2 {
				root = args[1]
			}

			a.log.Info("content search %q in %s", pattern, root)
			results, err := a.engine.SearchContent(root, pattern, ff.options(a.cfg.Workers))
			if err != nil {
				return reportError(err)
			}
			a.log.Info("content search done, %d files matched", len(results))

			sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
			pathColor := color.New(color.FgMagenta)
			lineColor := color.New(color.FgGreen)
			for _, r := range results {
				for _, m := range r.Matches {
					pathColor.Fprint(os.Stdout, r.Path)
					fmt.Fprint(os.Stdout, ":")
					lineColor.Fprintf(os.Stdout, "%d", m.LineNumber)
					fmt.Fprintf(os.Stdout, ": %s\n", m.Text)
				}
			}
			return nil
		},
	}

	ff.register(cmd)
	return cmd
}

func newFilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files <pattern> [root]",
		Short: "Search for files whose name matches a regex pattern",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			root := "."
			if len(args) == 2 {
				root = args[1]
			}

			a.log.Info("filename search %q in %s", pattern, root)
			paths, err := a.engine.SearchFilenames(root, pattern)
			if err != nil {
				return reportError(err)
			}
			a.log.Info("filename search done, %d files", len(paths))

			sort.Strings(paths)
			for _, p := range paths {
				fmt.Fprintln(os.Stdout, p)
			}
			return nil
		},
	}
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ff.hidden, "hidden", false, "include hidden files and directories")
	cmd.Flags().BoolVar(&ff.noIgnore, "no-ignore", false, "do not honor .ignore files")
	cmd.Flags().BoolVar(&ff.noGitignore, "no-gitignore", false, "do not honor .gitignore files")
	cmd.Flags().IntVar(&ff.maxDepth, "max-depth", -1, "limit descent depth (0 = root's direct children)")
	cmd.Flags().StringArrayVarP(&ff.include, "glob", "g", nil, "only search files matching this glob (repeatable)")
	cmd.Flags().StringArrayVar(&ff.exclude, "exclude", nil, "skip paths matching this glob (repeatable, wins over --glob)")
	cmd.Flags().BoolVarP(&ff.ignoreCase, "ignore-case", "i", false, "case-insensitive pattern matching")
}

func (ff *filterFlags) options(workers int) searcher.Options {
	opts := searcher.Options{
		IncludeHidden:    ff.hidden,
		DisableIgnore:    ff.noIgnore,
		DisableGitignore: ff.noGitignore,
		IncludeGlobs:     ff.include,
		ExcludeGlobs:     ff.exclude,
		IgnoreCase:       ff.ignoreCase,
		Workers:          workers,
	}
	if ff.maxDepth >= 0 {
		depth := ff.maxDepth
		opts.MaxDepth = &depth
	}
	return opts
}

func reportError(err error) error {
	switch {
	case errors.Is(err, searcher.ErrInvalidPattern):
		fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
	case errors.Is(err, searcher.ErrPathNotFound):
		fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "sweep: unexpected error: %v\n", err)
	}
	return err
}
