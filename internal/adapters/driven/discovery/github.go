package discovery

import (
	"context"
	"fmt"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// RepoMetadata resolves a source-forge project to its declared
// documentation homepage. Tests substitute a fake.
type RepoMetadata interface {
	// Homepage returns the project's homepage URL, or "" if the
	// project declares none.
	Homepage(ctx context.Context, owner, repo string) (string, error)
}

// Ensure GitHubMetadata implements the interface.
var _ RepoMetadata = (*GitHubMetadata)(nil)

// GitHubMetadata looks up repository homepages through the GitHub API.
// Many Python projects point their PyPI "Source" URL at GitHub and
// declare the real documentation site in the repository homepage
// field, which makes it a cheap discovery candidate.
type GitHubMetadata struct {
	client *github.Client
}

// NewGitHubMetadata creates the lookup client. token is optional;
// anonymous requests work but hit a lower rate limit.
func NewGitHubMetadata(token string) *GitHubMetadata {
	if token == "" {
		return &GitHubMetadata{client: github.NewClient(nil)}
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &GitHubMetadata{client: github.NewClient(oauth2.NewClient(context.Background(), src))}
}

// Homepage returns the repository's homepage field.
func (g *GitHubMetadata) Homepage(ctx context.Context, owner, repo string) (string, error) {
	r, _, err := g.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}
	return r.GetHomepage(), nil
}
