// Package githubx annotates report commits with the pull requests that
// merged them. Enrichment is best-effort: any API failure leaves the commit
// unannotated and the report proceeds.
package githubx

import (
	"context"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/saint0x/ggsum/pkg/git"
	"github.com/saint0x/ggsum/pkg/log"
)

// Enricher looks up pull requests for commits in one repository.
type Enricher struct {
	logger *log.Logger
	client *github.Client
	owner  string
	repo   string
}

// New builds an Enricher for the repository behind remoteURL, or an error
// when the remote is not a GitHub repository.
func New(logger *log.Logger, token, remoteURL string) (*Enricher, error) {
	owner, repo, err := ParseRepoURL(remoteURL)
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Enricher{
		logger: logger,
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// Enrich fills each commit's PR reference where one exists. Lookups that fail
// are logged at debug level and skipped.
func (e *Enricher) Enrich(ctx context.Context, commits []git.Commit) []git.Commit {
	out := make([]git.Commit, len(commits))
	copy(out, commits)

	for i, c := range out {
		prs, _, err := e.client.PullRequests.ListPullRequestsWithCommit(
			ctx, e.owner, e.repo, c.SHA, &github.ListOptions{PerPage: 1},
		)
		if err != nil {
			e.logger.Debug("PR lookup failed for %s: %v", c.SHA, err)
			continue
		}
		if len(prs) == 0 {
			continue
		}
		pr := prs[0]
		out[i].PR = &git.PRRef{
			Number: pr.GetNumber(),
			Title:  pr.GetTitle(),
			URL:    pr.GetHTMLURL(),
		}
	}
	return out
}

// ParseRepoURL parses a GitHub remote URL into owner and repo. Both SSH and
// HTTPS forms are accepted.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	repoURL = strings.TrimSuffix(repoURL, ".git")

	// SSH URLs (git@github.com:owner/repo)
	if strings.HasPrefix(repoURL, "git@github.com:") {
		parts := strings.Split(strings.TrimPrefix(repoURL, "git@github.com:"), "/")
		if len(parts) != 2 {
			return "", "", errors.New("invalid SSH repository URL format")
		}
		return parts[0], parts[1], nil
	}

	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", errors.Wrap(err, "invalid URL")
	}
	if u.Host != "github.com" {
		return "", "", errors.Newf("not a GitHub remote: %s", u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 {
		return "", "", errors.New("invalid repository URL format")
	}
	return parts[0], parts[1], nil
}
