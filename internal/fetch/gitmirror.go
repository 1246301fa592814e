package fetch

import (
	"context"
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// gitMirrorBackend keeps a local clone of the content repository and serves
// reads from its worktree. The clone is pulled on refresh (webhook or
// scheduled warm), so reads between refreshes are plain local I/O.
type gitMirrorBackend struct {
	*localBackend
	url string
	ref string
}

func newGitMirrorBackend(cloneURL, mirrorDir, ref string) (*gitMirrorBackend, error) {
	b := &gitMirrorBackend{
		localBackend: newLocalBackend(mirrorDir),
		url:          cloneURL,
		ref:          ref,
	}
	if err := b.ensureClone(context.Background()); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *gitMirrorBackend) name() string { return "gitmirror" }

func (b *gitMirrorBackend) ensureClone(ctx context.Context) error {
	_, err := git.PlainOpen(b.base)
	if err == nil {
		return nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return fmt.Errorf("open mirror %s: %w", b.base, err)
	}

	_, err = git.PlainCloneContext(ctx, b.base, false, &git.CloneOptions{
		URL:           b.url,
		ReferenceName: plumbing.NewBranchReferenceName(b.ref),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", b.url, err)
	}
	return nil
}

// refresh pulls the mirror up to date; an already-up-to-date mirror is not
// an error.
func (b *gitMirrorBackend) refresh(ctx context.Context) error {
	repo, err := git.PlainOpen(b.base)
	if err != nil {
		return fmt.Errorf("open mirror %s: %w", b.base, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("mirror worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		ReferenceName: plumbing.NewBranchReferenceName(b.ref),
		SingleBranch:  true,
		Force:         true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pull mirror: %w", err)
	}
	return nil
}
