// Package gitsource fetches a remote content repository into a local
// workspace before the content scan runs.
package gitsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	bberrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Workspace is a temporary checkout of the remote content repository.
type Workspace struct {
	Dir string
}

// Fetch shallow-clones the configured remote into a fresh temporary
// directory. The caller owns cleanup via Workspace.Remove.
func Fetch(ctx context.Context, remote *config.RemoteConfig) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "blogbuilder-content-*")
	if err != nil {
		return nil, bberrors.WorkspaceError("create", err)
	}

	cloneOptions := &git.CloneOptions{
		URL:   remote.URL,
		Depth: 1,
	}
	if remote.Branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + remote.Branch)
		cloneOptions.SingleBranch = true
	}

	slog.Info("Fetching remote content", logfields.URL(remote.URL), logfields.Path(dir))
	repository, err := git.PlainCloneContext(ctx, dir, false, cloneOptions)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, bberrors.Wrap(err, bberrors.CategoryGit, bberrors.SeverityFatal,
			fmt.Sprintf("clone %s", remote.URL))
	}
	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Remote content fetched", logfields.URL(remote.URL), slog.String("commit", ref.Hash().String()[:8]))
	}

	return &Workspace{Dir: dir}, nil
}

// Rebase maps a configured content path into the workspace.
func (w *Workspace) Rebase(path string) string {
	return filepath.Join(w.Dir, path)
}

// Remove deletes the workspace directory.
func (w *Workspace) Remove() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	return os.RemoveAll(w.Dir)
}
