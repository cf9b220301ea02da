package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wahlandcase/glreplay/internal/config"
	"github.com/wahlandcase/glreplay/internal/git"
	"github.com/wahlandcase/glreplay/internal/models"
	"github.com/wahlandcase/glreplay/internal/payload"
	"github.com/wahlandcase/glreplay/internal/ui"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Dump formats for the payload printed on a dry run
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Tracker is the issue tracker session a replay runs against
type Tracker interface {
	git.ActivityOracle
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	PostPushEvent(ctx context.Context, event *models.PushEvent) error
}

// ConfirmFunc asks the user whether event should be posted
type ConfirmFunc func(event *models.PushEvent) (bool, error)

// Options are the per-run inputs
type Options struct {
	RepoDir   string
	RepoPath  string
	StartRev  string
	EndRev    string
	ProjectID int64
	DryRun    bool
	Verbose   bool
	Confirm   bool
	Format    string
}

// Replayer runs replays against one tracker
type Replayer struct {
	cfg     *config.Config
	tracker Tracker
	log     logrus.FieldLogger
	out     io.Writer
	confirm ConfirmFunc
	history *History
	now     func() time.Time
}

// NewReplayer creates a Replayer writing user-facing output to out.
// history may be nil to skip recording.
func NewReplayer(cfg *config.Config, tracker Tracker, history *History, log logrus.FieldLogger, out io.Writer) *Replayer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Replayer{
		cfg:     cfg,
		tracker: tracker,
		log:     log.WithField("component", "replay"),
		out:     out,
		history: history,
		now:     time.Now,
		confirm: func(event *models.PushEvent) (bool, error) {
			return false, errors.New("no confirmation prompt configured")
		},
	}
}

// WithConfirm sets the prompt used when Options.Confirm is set
func (r *Replayer) WithConfirm(confirm ConfirmFunc) *Replayer {
	r.confirm = confirm
	return r
}

// Run replays the commits between opts.StartRev and opts.EndRev. It returns
// the built event, or nil when no eligible commits were found. Nothing is
// posted unless the whole event was built.
func (r *Replayer) Run(ctx context.Context, opts Options) (*models.PushEvent, error) {
	repo, err := git.Open(opts.RepoDir)
	if err != nil {
		return nil, WithExitCode(ExitInvalidInput, err)
	}

	end, err := repo.Resolve(opts.EndRev)
	if err != nil {
		return nil, WithExitCode(ExitInvalidInput, err)
	}
	start, err := repo.Resolve(opts.StartRev)
	if err != nil {
		return nil, WithExitCode(ExitInvalidInput, err)
	}

	if err := r.tracker.Login(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err := r.tracker.Logout(context.WithoutCancel(ctx)); err != nil {
			r.log.WithError(err).Warn("closing tracker session failed")
		}
	}()

	walker := git.NewWalker(repo, r.tracker, r.cfg.IssueKeyRegex(), opts.RepoPath, r.log)
	commits, err := walker.Walk(ctx, end, start)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		r.log.Warn("found no commits")
		return nil, nil
	}

	ref := r.cfg.Git.Ref
	if ref == "" {
		ref = repo.PrimaryRef()
	}

	builder := payload.NewBuilder(repo, r.cfg.Git.BaseURL, ref)
	event, err := builder.Build(commits, opts.RepoPath, opts.ProjectID)
	if err != nil {
		if errors.Is(err, payload.ErrUnsupportedOffset) {
			return nil, WithExitCode(ExitInvalidInput, err)
		}
		return nil, err
	}

	for _, c := range commits {
		r.log.Infof("%20s @%s (%s): %s", c.Author.Name, c.AuthoredAt.UTC().Format("2006-01-02T15:04:05"), c.ShortHash(), c.Summary)
	}

	if opts.Verbose {
		dump, err := Dump(event, FormatJSON)
		if err != nil {
			return nil, err
		}
		r.log.Debug(string(dump))
	}

	if opts.DryRun {
		if err := r.printDryRun(event, opts.Format); err != nil {
			return nil, err
		}
		r.log.Info("dry run. not posting")
		return event, nil
	}

	if opts.Confirm {
		ok, err := r.confirm(event)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.log.Info("not confirmed. not posting")
			return event, nil
		}
	}

	if err := r.tracker.PostPushEvent(ctx, event); err != nil {
		return nil, err
	}

	if r.history != nil {
		if err := r.history.Append(models.NewReplayRecord(opts.RepoPath, event, r.now())); err != nil {
			r.log.WithError(err).Warn("recording replay history failed")
		}
	}

	return event, nil
}

func (r *Replayer) printDryRun(event *models.PushEvent, format string) error {
	dump, err := Dump(event, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, ui.RenderBanner(true))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, ui.RenderPushSummary(event))
	fmt.Fprintln(r.out)
	_, err = r.out.Write(dump)
	return err
}

// Dump encodes event as indented JSON or YAML
func Dump(event *models.PushEvent, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(event); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(event)
	default:
		return nil, Errorf(ExitInvalidInput, "invalid format: %s (must be 'json' or 'yaml')", format)
	}
}
