package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/wahlandcase/glreplay/internal/app"
	"github.com/wahlandcase/glreplay/internal/config"
	"github.com/wahlandcase/glreplay/internal/jira"
	"github.com/wahlandcase/glreplay/internal/models"
	"github.com/wahlandcase/glreplay/internal/ui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	verbose    bool
	opts       app.Options
}

func main() {
	ui.ConfigureTerminal(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(app.ExitCodeOf(err))
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "glreplay",
		Short: "Replay local git commits to Jira as a GitLab push event",
		Long: "glreplay walks the commits between --start-commit and --end-commit, keeps those\n" +
			"whose summary starts with an issue key and that Jira's activity stream does not\n" +
			"mention yet, and posts them to Jira's GitLab listener as one push event.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(f.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, f)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (default $"+config.EnvPath+" or glreplay.toml in the user config dir)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log debug output and the payload")

	fl := rootCmd.Flags()
	fl.StringVar(&f.opts.RepoDir, "repo-dir", "", "Local repository directory")
	fl.StringVar(&f.opts.RepoPath, "repo-path", "", "Repository path on the git host, e.g. group/project")
	fl.StringVar(&f.opts.StartRev, "start-commit", "", "Oldest revision to consider")
	fl.StringVar(&f.opts.EndRev, "end-commit", "", "Newest revision to consider")
	fl.Int64VarP(&f.opts.ProjectID, "project-id", "p", 0, "Numeric project id on the git host")
	fl.BoolVarP(&f.opts.DryRun, "dry-run", "n", false, "Build and print the payload without posting it")
	fl.BoolVar(&f.opts.Confirm, "confirm", false, "Ask before posting")
	fl.StringVar(&f.opts.Format, "format", app.FormatJSON, "Dry run payload format: json or yaml")
	for _, name := range []string{"repo-dir", "repo-path", "start-commit", "end-commit", "project-id"} {
		_ = rootCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(newHistoryCmd(f))
	return rootCmd
}

func newHistoryCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show push events posted in the last 30 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(f.configPath)
			if err != nil {
				return err
			}
			records, err := app.NewHistory(filepath.Dir(path)).Load()
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderHistory(records))
			return nil
		},
	}
}

func runReplay(cmd *cobra.Command, f *flags) error {
	log := logrus.StandardLogger()

	if f.opts.Format != app.FormatJSON && f.opts.Format != app.FormatYAML {
		return app.Errorf(app.ExitInvalidInput, "invalid format: %s (must be 'json' or 'yaml')", f.opts.Format)
	}
	f.opts.Verbose = f.verbose

	cfg, err := config.Load(f.configPath)
	if err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			return app.WithExitCode(app.ExitConfigMissing, err)
		}
		return err
	}

	client, err := jira.New(cfg, log)
	if err != nil {
		return err
	}

	replayer := app.NewReplayer(cfg, client, app.NewHistory(filepath.Dir(cfg.FilePath())), log, cmd.OutOrStdout()).
		WithConfirm(func(event *models.PushEvent) (bool, error) {
			return app.RunConfirm(event, cmd.InOrStdin(), cmd.OutOrStdout())
		})

	_, err = replayer.Run(cmd.Context(), f.opts)
	return err
}

func configPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return config.Path()
}

func setupLogging(verbose bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
