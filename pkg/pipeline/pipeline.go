// Package pipeline wires the stages together: extract, normalize, build the
// prompt, complete through the gateway, assemble the result. Collaborators
// sit behind small interfaces so each stage can be swapped in tests.
package pipeline

import (
	"context"

	"github.com/saint0x/ggsum/pkg/assemble"
	"github.com/saint0x/ggsum/pkg/chunk"
	"github.com/saint0x/ggsum/pkg/config"
	"github.com/saint0x/ggsum/pkg/git"
	"github.com/saint0x/ggsum/pkg/log"
	"github.com/saint0x/ggsum/pkg/prompt"
	"github.com/saint0x/ggsum/pkg/provider"
)

// Extractor is the slice of pkg/git the pipeline needs.
type Extractor interface {
	Uncommitted(ctx context.Context) (*git.ChangeSet, error)
	Staged(ctx context.Context) (*git.ChangeSet, error)
	History(ctx context.Context, days int) (*git.ChangeSet, error)
}

// Completer is the slice of the provider gateway the pipeline needs.
type Completer interface {
	Complete(ctx context.Context, req provider.Request) (*provider.Response, error)
}

// Enricher annotates history commits with pull-request references. Optional;
// failures must degrade to unenriched commits.
type Enricher interface {
	Enrich(ctx context.Context, commits []git.Commit) []git.Commit
}

// Result is the task-shaped final output of one invocation.
type Result struct {
	Task    prompt.Task
	Empty   bool // nothing to summarize; no provider was called
	Status  *assemble.StatusSummary
	Commit  *assemble.CommitMessage
	Report  *assemble.Report
	Payload chunk.Payload
	Commits []git.Commit

	// UsedUncommitted is set when the commit task fell back from staged to
	// all uncommitted changes.
	UsedUncommitted bool
}

// Pipeline runs one task end to end.
type Pipeline struct {
	logger   *log.Logger
	cfg      *config.Config
	git      Extractor
	gateway  Completer
	enricher Enricher
}

// New builds a Pipeline. enricher may be nil.
func New(logger *log.Logger, cfg *config.Config, extractor Extractor, gateway Completer, enricher Enricher) *Pipeline {
	return &Pipeline{
		logger:   logger,
		cfg:      cfg,
		git:      extractor,
		gateway:  gateway,
		enricher: enricher,
	}
}

// Status summarizes uncommitted changes. An empty working tree yields an
// Empty result without touching any provider.
func (p *Pipeline) Status(ctx context.Context) (*Result, error) {
	cs, err := p.git.Uncommitted(ctx)
	if err != nil {
		return nil, err
	}
	if cs.Empty() {
		return &Result{Task: prompt.TaskStatus, Empty: true}, nil
	}
	return p.run(ctx, prompt.TaskStatus, cs, prompt.Params{})
}

// CommitMessage generates a commit message, preferring staged changes and
// falling back to all uncommitted changes when nothing is staged.
func (p *Pipeline) CommitMessage(ctx context.Context) (*Result, error) {
	cs, err := p.git.Staged(ctx)
	if err != nil {
		return nil, err
	}

	usedUncommitted := false
	if cs.Empty() {
		cs, err = p.git.Uncommitted(ctx)
		if err != nil {
			return nil, err
		}
		if cs.Empty() {
			return &Result{Task: prompt.TaskCommit, Empty: true}, nil
		}
		usedUncommitted = true
		p.logger.Warning("No staged changes. Using all uncommitted changes.")
	}

	res, err := p.run(ctx, prompt.TaskCommit, cs, prompt.Params{SubjectLimit: p.cfg.SubjectLimit})
	if err != nil {
		return nil, err
	}
	res.UsedUncommitted = usedUncommitted
	return res, nil
}

// Report summarizes the last N days of commits, grouped by day.
func (p *Pipeline) Report(ctx context.Context, days int) (*Result, error) {
	cs, err := p.git.History(ctx, days)
	if err != nil {
		return nil, err
	}
	return p.ReportFrom(ctx, cs, days)
}

// ReportFrom builds a report from an already-extracted history ChangeSet,
// which lets the wizard narrow the commit selection first.
func (p *Pipeline) ReportFrom(ctx context.Context, cs *git.ChangeSet, days int) (*Result, error) {
	if cs.Empty() {
		return &Result{Task: prompt.TaskReport, Empty: true}, nil
	}

	commits := cs.Commits
	if p.enricher != nil {
		commits = p.enricher.Enrich(ctx, commits)
	}

	return p.run(ctx, prompt.TaskReport, cs, prompt.Params{
		Days:    days,
		Commits: commits,
	})
}

// run executes normalize -> build -> complete -> assemble for one task.
func (p *Pipeline) run(ctx context.Context, task prompt.Task, cs *git.ChangeSet, params prompt.Params) (*Result, error) {
	payload := chunk.Normalize(cs, p.cfg.MaxDiffChars)
	if payload.Truncated {
		p.logger.Debug("Prompt payload truncated to %d/%d bytes", payload.BytesUsed, payload.Budget)
	}

	params.MaxTokens = p.cfg.MaxOutputToks
	params.Temperature = p.cfg.Temperature
	text, gen := prompt.Build(task, payload, params)

	resp, err := p.gateway.Complete(ctx, provider.Request{
		Prompt:      text,
		MaxTokens:   gen.MaxTokens,
		Temperature: gen.Temperature,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Completion from %s (%d bytes)", resp.Provider, len(resp.Text))

	res := &Result{Task: task, Payload: payload, Commits: params.Commits}
	switch task {
	case prompt.TaskCommit:
		res.Commit, err = assemble.Commit(resp.Text, p.cfg.SubjectLimit)
	case prompt.TaskReport:
		res.Report, err = assemble.ParseReport(resp.Text)
	default:
		res.Status, err = assemble.Status(resp.Text)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
